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

package report

import (
	"bytes"
	"testing"

	"kcsan.dev/kcsan/pkg/kcsan"
	"kcsan.dev/kcsan/pkg/kcsan/config"
)

const (
	framePlain = uintptr(0xc1)
	frameRCU   = uintptr(0xd1)
)

func filterReporter(t *testing.T, cfg *config.Config) *Reporter {
	t.Helper()
	syms := fakeSym{
		framePlain: "update_counter",
		frameRCU:   "rcu_segcblist_enqueue",
	}
	var out bytes.Buffer
	return newTestReporter(cfg, &out, []uintptr{framePlain}, Options{Symbols: syms})
}

func TestSkipReportValueChangeOnly(t *testing.T) {
	cfg := config.Default()
	cfg.ReportOnceInMS = 0
	r := filterReporter(t, cfg)

	if !r.skipReport(false, framePlain) {
		t.Error("unchanged value not suppressed")
	}
	if r.skipReport(true, framePlain) {
		t.Error("changed value suppressed")
	}
}

func TestSkipReportAllowList(t *testing.T) {
	cfg := config.Default()
	cfg.ReportOnceInMS = 0
	r := filterReporter(t, cfg)

	// The allow list keeps rcu_* races visible even without a value
	// change.
	if r.skipReport(false, frameRCU) {
		t.Error("allow-listed symbol suppressed")
	}
}

func TestSkipReportDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.ReportOnceInMS = 0
	cfg.ValueChangeOnly = false
	r := filterReporter(t, cfg)

	if r.skipReport(false, framePlain) {
		t.Error("report suppressed with value-change-only disabled")
	}
}

func TestSkipReportExternalPredicate(t *testing.T) {
	cfg := config.Default()
	cfg.ReportOnceInMS = 0
	cfg.ValueChangeOnly = false
	r := filterReporter(t, cfg)
	r.skipFrame = func(pc uintptr) bool { return pc == framePlain }

	if !r.skipReport(true, framePlain) {
		t.Error("externally filtered frame not suppressed")
	}
	if r.skipReport(true, frameRCU) {
		t.Error("unfiltered frame suppressed")
	}
}

// TestCounterpartVetoSuppressesReport covers the cross-thread case: the
// counterpart's accurate value-change flag vetoes the whole report even
// though this side's conservative flag passed.
func TestCounterpartVetoSuppressesReport(t *testing.T) {
	cfg := config.Default()
	cfg.ReportOnceInMS = 0

	syms := fakeSym{
		framePlain: "update_counter",
		frameRCU:   "reader_scan",
	}
	var out bytes.Buffer
	caps := &queueCapturer{stacks: [][]uintptr{
		{framePlain}, // writer, fills the slot
		{frameRCU},   // reader, prints
	}}
	r := newTestReporter(cfg, &out, nil, Options{Symbols: syms, Stacks: caps})

	if got := r.prepareAttempt(0x1000, 8, kcsan.AccessWrite, 0, kcsan.ConsumedWatchpoint); got != prepareDone {
		t.Fatalf("consumed-watchpoint attempt = %v, want prepareDone", got)
	}

	before := reportsFiltered.Value()

	// The counterpart's write is known not to have changed the value.
	r.Report(0x1000, 8, 0, false, 1, kcsan.RaceSignal)

	if out.Len() != 0 {
		t.Errorf("vetoed report produced output:\n%s", out.String())
	}
	if got := reportsFiltered.Value(); got != before+1 {
		t.Errorf("filtered counter = %d, want %d", got, before+1)
	}
}
