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
	"fmt"
	"strings"
	"time"

	"kcsan.dev/kcsan/pkg/kcsan"
	"kcsan.dev/kcsan/pkg/kcsan/stack"
	"kcsan.dev/kcsan/pkg/log"
)

// banner separates reports in the diagnostic stream. The width is part of
// the format contract with tooling that parses reports.
var banner = strings.Repeat("=", 66)

// suppressionLog carries diagnostics about suppressed candidate reports. A
// hot race retries them as fast as the racing code runs, so they are rate
// limited rather than logged per event.
var suppressionLog = log.BasicRateLimitedLogger(30 * time.Second)

// threadDesc returns the report description of an execution context.
func threadDesc(taskID int) string {
	if taskID == kcsan.InterruptContext {
		return "interrupt"
	}
	return fmt.Sprintf("task %d", taskID)
}

// printReport assembles and emits the report.
//
// Preconditions: the caller holds the shared lock, and for a race-signal
// report the rendezvous slot holds the counterpart's evidence.
//
// Returns true if a report was generated, false if it was suppressed.
func (r *Reporter) printReport(ptr uintptr, size uint64, access kcsan.AccessType, valueChanged bool, cpuID int, kind kcsan.ReportKind) bool {
	entries := r.stacks.Capture(captureSkipPrint, kcsan.MaxStackEntries)
	skipnr := stack.SkipInternal(entries, r.symbols, r.cfg.TrimFrames)
	var thisFrame uintptr
	if skipnr < len(entries) {
		thisFrame = entries[skipnr]
	}

	// Filter rules must be checked before any printing starts.
	if r.skipReport(true, thisFrame) {
		reportsFiltered.Increment()
		suppressionLog.Debugf("filtered report of race at %#x", ptr)
		return false
	}

	var otherFrame uintptr
	otherSkipnr := 0
	if kind == kcsan.RaceSignal {
		otherSkipnr = stack.SkipInternal(r.other.stackEntries[:r.other.numStack], r.symbols, r.cfg.TrimFrames)
		if otherSkipnr < r.other.numStack {
			otherFrame = r.other.stackEntries[otherSkipnr]
		}

		// valueChanged is only known for the other context here.
		if r.skipReport(valueChanged, otherFrame) {
			reportsFiltered.Increment()
			suppressionLog.Debugf("filtered report of race at %#x", ptr)
			return false
		}
	}

	if r.limiter.shouldRateLimit(r.clock.Now(), thisFrame, otherFrame) {
		reportsRateLimited.Increment()
		suppressionLog.Debugf("rate limited report of race at %#x", ptr)
		return false
	}

	// The report is buffered and written in one call so that the text
	// reaches the stream as a unit even if other writers bypass our lock.
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", banner)

	switch kind {
	case kcsan.RaceSignal:
		// Order functions lexicographically for consistent bug titles,
		// independent of which context won the race to print. Offsets
		// are omitted to keep the title short.
		first, second := otherFrame, thisFrame
		if stack.CompareBySymbol(r.symbols, otherFrame, thisFrame) >= 0 {
			first, second = thisFrame, otherFrame
		}
		fmt.Fprintf(&buf, "BUG: KCSAN: data-race in %s / %s\n",
			r.symbols.Name(first), r.symbols.Name(second))

	case kcsan.UnknownOrigin:
		fmt.Fprintf(&buf, "BUG: KCSAN: data-race in %s\n", r.symbols.Frame(thisFrame))

	default:
		panic(fmt.Sprintf("kcsan: invalid report kind %d", int(kind)))
	}

	fmt.Fprintf(&buf, "\n")

	// Describe the racing accesses.
	taskID := r.contextID()
	switch kind {
	case kcsan.RaceSignal:
		fmt.Fprintf(&buf, "%s to 0x%x of %d bytes by %s on cpu %d:\n",
			r.other.access, r.other.ptr, r.other.size,
			threadDesc(r.other.taskID), r.other.cpuID)
		r.printStack(&buf, r.other.stackEntries[otherSkipnr:r.other.numStack])

		fmt.Fprintf(&buf, "\n")
		fmt.Fprintf(&buf, "%s to 0x%x of %d bytes by %s on cpu %d:\n",
			access, ptr, size, threadDesc(taskID), cpuID)

	case kcsan.UnknownOrigin:
		fmt.Fprintf(&buf, "race at unknown origin, with %s to 0x%x of %d bytes by %s on cpu %d:\n",
			access, ptr, size, threadDesc(taskID), cpuID)
	}
	r.printStack(&buf, entries[skipnr:])

	// Footer.
	fmt.Fprintf(&buf, "\n")
	fmt.Fprintf(&buf, "Reported by Kernel Concurrency Sanitizer on:\n")
	fmt.Fprintf(&buf, "%s\n", r.dumpInfo())
	fmt.Fprintf(&buf, "%s\n", banner)

	r.out.Write(buf.Bytes())

	reportsGenerated.Increment()
	if kind == kcsan.UnknownOrigin {
		racesUnknownOrigin.Increment()
	}
	return true
}

// printStack writes one indented line per frame.
func (r *Reporter) printStack(buf *bytes.Buffer, entries []uintptr) {
	for _, pc := range entries {
		fmt.Fprintf(buf, " %s\n", r.symbols.Frame(pc))
	}
}
