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

package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"unsafe"

	"github.com/google/subcommands"
	"kcsan.dev/kcsan/pkg/kcsan"
	"kcsan.dev/kcsan/pkg/kcsan/config"
	"kcsan.dev/kcsan/pkg/kcsan/report"
	"kcsan.dev/kcsan/pkg/log"
	"kcsan.dev/kcsan/pkg/metric"
	"kcsan.dev/kcsan/pkg/sync"
)

// Selftest implements subcommands.Command for the "selftest" command.
type Selftest struct {
	configFile string
}

// Name implements subcommands.Command.Name.
func (*Selftest) Name() string {
	return "selftest"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Selftest) Synopsis() string {
	return "exercises the report engine with synthetic races and verifies the output"
}

// Usage implements subcommands.Command.Usage.
func (*Selftest) Usage() string {
	return `selftest [flags]`
}

// SetFlags implements subcommands.Command.SetFlags.
func (s *Selftest) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.configFile, "config", "", "TOML config file; defaults are used if empty")
}

// selftestTarget is the memory the synthetic races access.
var selftestTarget int64

// selftestWriter plays the context whose write consumed the reader's
// watchpoint. Kept out of line so its frame shows up in the report.
//
//go:noinline
func selftestWriter(r *report.Reporter, addr uintptr) {
	r.Report(addr, 8, kcsan.AccessWrite, true, 0, kcsan.ConsumedWatchpoint)
}

// selftestReader plays the context that owns the watchpoint and prints the
// combined report.
//
//go:noinline
func selftestReader(r *report.Reporter, addr uintptr) {
	r.Report(addr, 8, 0, true, 1, kcsan.RaceSignal)
}

// checkSelftestOutput validates the structure of the two selftest reports:
// banner-delimited blocks, one cross-context title naming both synthetic
// contexts, one unknown-origin report, and the fixed footer.
func checkSelftestOutput(text string) error {
	banner := strings.Repeat("=", 66)
	if got := strings.Count(text, banner+"\n"); got != 4 {
		return fmt.Errorf("got %d banner lines, want 4", got)
	}
	if got := strings.Count(text, "BUG: KCSAN: data-race in "); got != 2 {
		return fmt.Errorf("got %d reports, want 2", got)
	}
	for _, want := range []string{
		"selftestWriter",
		"selftestReader",
		"write to 0x",
		"race at unknown origin, with write to 0x",
		"Reported by Kernel Concurrency Sanitizer on:",
	} {
		if !strings.Contains(text, want) {
			return fmt.Errorf("output missing %q", want)
		}
	}
	return nil
}

// Execute implements subcommands.Command.Execute.
func (s *Selftest) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	conf := config.Default()
	if s.configFile != "" {
		var err error
		if conf, err = config.Load(s.configFile); err != nil {
			Fatalf("loading config: %v", err)
		}
	}

	// Reports are captured so they can be verified before being shown.
	var out bytes.Buffer
	r := report.New(conf, report.Options{Output: &out})
	addr := uintptr(unsafe.Pointer(&selftestTarget))

	// Cross-context race: the writer hands its evidence off, the reader
	// prints the combined report.
	log.Infof("simulating a cross-context race at %#x", addr)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		selftestWriter(r, addr)
	}()
	go func() {
		defer wg.Done()
		selftestReader(r, addr)
	}()
	wg.Wait()

	// Race with no counterpart context.
	log.Infof("simulating an unknown-origin race at %#x", addr)
	r.Report(addr, 8, kcsan.AccessWrite, true, 0, kcsan.UnknownOrigin)

	os.Stderr.Write(out.Bytes())
	metric.EmitMetricUpdate()

	if err := checkSelftestOutput(out.String()); err != nil {
		log.Warningf("selftest output malformed: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
