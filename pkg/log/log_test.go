// Copyright 2026 The KCSAN Go Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

type testWriter struct {
	lines []string
	fail  bool
}

func (w *testWriter) Write(bytes []byte) (int, error) {
	if w.fail {
		return 0, fmt.Errorf("simulated failure")
	}
	w.lines = append(w.lines, string(bytes))
	return len(bytes), nil
}

func TestDropMessages(t *testing.T) {
	tw := &testWriter{}
	w := Writer{Next: tw}
	if _, err := w.Write([]byte("line 1\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	tw.fail = true
	if _, err := w.Write([]byte("error\n")); err == nil {
		t.Fatalf("Write should have failed")
	}
	if _, err := w.Write([]byte("error\n")); err == nil {
		t.Fatalf("Write should have failed")
	}

	tw.fail = false
	if _, err := w.Write([]byte("line 2\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	if len(tw.lines) != 3 {
		t.Fatalf("Writer should have logged 3 lines, got: %v", tw.lines)
	}
	if tw.lines[1] != "line 2\n" {
		t.Errorf("second line = %q, want %q", tw.lines[1], "line 2\n")
	}
	// The drop notice follows the write that found the sink working again.
	if !strings.Contains(tw.lines[2], "Dropped 2 log messages") {
		t.Errorf("third line should report dropped messages, got: %q", tw.lines[2])
	}
}

func TestLevels(t *testing.T) {
	tw := &testWriter{}
	logger := BasicLogger{Level: Info, Emitter: &Writer{Next: tw}}

	logger.Debugf("should not be logged")
	if len(tw.lines) != 0 {
		t.Fatalf("debug line logged at info level: %v", tw.lines)
	}

	logger.Infof("should be logged")
	logger.Warningf("should also be logged")
	if len(tw.lines) != 2 {
		t.Fatalf("got %d lines, want 2: %v", len(tw.lines), tw.lines)
	}

	logger.SetLevel(Debug)
	if !logger.IsLogging(Debug) {
		t.Error("IsLogging(Debug) = false after SetLevel(Debug)")
	}
	logger.Debugf("now visible")
	if len(tw.lines) != 3 {
		t.Fatalf("got %d lines, want 3: %v", len(tw.lines), tw.lines)
	}
}

func TestRateLimitedLogger(t *testing.T) {
	tw := &testWriter{}
	logger := RateLimitedLogger(&BasicLogger{Level: Info, Emitter: &Writer{Next: tw}}, time.Hour)

	logger.Infof("first")
	logger.Infof("suppressed")
	logger.Infof("suppressed")
	if len(tw.lines) != 1 {
		t.Errorf("got %d lines, want 1: %v", len(tw.lines), tw.lines)
	}
}

func TestBasicRateLimitedLoggerFollowsTarget(t *testing.T) {
	old := Log()
	defer SetTarget(old.Emitter)

	// Created before the target changes; must still follow it.
	logger := BasicRateLimitedLogger(time.Hour)

	tw := &testWriter{}
	SetTarget(&Writer{Next: tw})

	logger.Infof("redirected")
	if len(tw.lines) != 1 {
		t.Fatalf("got %d lines, want 1: %v", len(tw.lines), tw.lines)
	}
	if !strings.Contains(tw.lines[0], "redirected") {
		t.Errorf("line = %q, want it to contain %q", tw.lines[0], "redirected")
	}
}

func TestJSONEmitter(t *testing.T) {
	tw := &testWriter{}
	e := JSONEmitter{Writer: &Writer{Next: tw}}

	e.Emit(0, Warning, time.Now(), "race at %#x", 0x1000)
	if len(tw.lines) == 0 {
		t.Fatal("JSONEmitter emitted nothing")
	}
	var got jsonLog
	if err := json.Unmarshal([]byte(tw.lines[0]), &got); err != nil {
		t.Fatalf("emitted line %q is not JSON: %v", tw.lines[0], err)
	}
	if got.Msg != "race at 0x1000" {
		t.Errorf("msg = %q, want %q", got.Msg, "race at 0x1000")
	}
	if got.Level != Warning {
		t.Errorf("level = %v, want %v", got.Level, Warning)
	}
}

func TestJSONLevel(t *testing.T) {
	for _, l := range []Level{Warning, Info, Debug} {
		b, err := l.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON(%v) failed: %v", l, err)
		}
		var got Level
		if err := got.UnmarshalJSON(b); err != nil {
			t.Fatalf("UnmarshalJSON(%s) failed: %v", b, err)
		}
		if got != l {
			t.Errorf("round trip of %v produced %v", l, got)
		}
	}
}
