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

// Package report reconciles two independent race detections into a single
// printed report.
//
// A detection arrives from the instrumentation layer classified as one of
// three kinds (see kcsan.ReportKind). For cross-context races, the context
// that consumed a watchpoint hands its evidence to the context that owns the
// watchpoint through a single-slot rendezvous; the owning context validates
// the evidence and prints the combined report. The whole exchange, and the
// print itself, are serialized by one process-wide spin lock, so reports
// never interleave and at most one is in flight.
//
// The report path must stay usable from any execution context, including
// while instrumenting the allocator and the locking primitives the reporter
// itself depends on: it never allocates on the rendezvous path, never blocks
// in the scheduler, and suppresses detection of its own accesses for the
// duration of a report.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"kcsan.dev/kcsan/pkg/atomicbitops"
	"kcsan.dev/kcsan/pkg/kcsan"
	"kcsan.dev/kcsan/pkg/kcsan/config"
	"kcsan.dev/kcsan/pkg/kcsan/stack"
	"kcsan.dev/kcsan/pkg/sync"
)

// accessInfo describes one side of a race. Instances in the rendezvous slot
// are written once under the lock and never mutated afterwards.
type accessInfo struct {
	// ptr is the accessed address. In the rendezvous slot, a nonzero ptr
	// means the slot is occupied.
	ptr    uintptr
	size   uint64
	access kcsan.AccessType

	// taskID identifies the accessing context;
	// kcsan.InterruptContext if not in task context.
	taskID int
	cpuID  int

	stackEntries [kcsan.MaxStackEntries]uintptr
	numStack     int
}

// Options are the capabilities the reporter consumes from its host. Any nil
// field gets a default backed by the Go runtime.
type Options struct {
	// Output is the diagnostic stream reports are printed to.
	Output io.Writer

	// Clock provides ticks for the rate limiter.
	Clock Clock

	// Stacks captures the calling context's stack.
	Stacks stack.Capturer

	// Symbols resolves return addresses for titles and traces.
	Symbols stack.Symbolizer

	// SkipFrame is the external debug filter: a report whose top frame it
	// matches is suppressed.
	SkipFrame func(pc uintptr) bool

	// Matches validates that two accesses overlap, coarsely or exactly.
	// The detection layer injects its watchpoint encoding here.
	Matches MatchFn

	// ContextID returns the current task id, or kcsan.InterruptContext.
	ContextID func() int

	// Guard suppresses detection of the reporter's own accesses.
	Guard kcsan.Guard

	// TraceOff and TraceOn bracket the report to suspend interrupt-trace
	// bookkeeping that could be corrupted by recursion into the tracer.
	TraceOff, TraceOn func()

	// OnFatal escalates after a report was produced with PanicOnWarn set.
	// It is only ever invoked after the report lock has been released.
	OnFatal func(msg string)

	// DumpInfo returns the one-line context summary printed in the report
	// footer.
	DumpInfo func() string
}

// Reporter owns the rendezvous slot, the rate limiter, and the shared lock
// serializing all report activity. It is initialized once and lives for the
// process lifetime; tests may create independent instances.
type Reporter struct {
	cfg *config.Config

	// enabled gates all reporting. Toggled at runtime; the detection
	// layer keeps running, but events arriving while disabled are
	// dropped before touching any shared state.
	enabled atomicbitops.Bool

	out       io.Writer
	clock     Clock
	stacks    stack.Capturer
	symbols   stack.Symbolizer
	skipFrame func(pc uintptr) bool
	matches   MatchFn
	contextID func() int
	guard     kcsan.Guard
	traceOff  func()
	traceOn   func()
	onFatal   func(msg string)
	dumpInfo  func() string

	// mu protects other and limiter, and serializes printing. It spins
	// rather than parking, so the report path never depends on the
	// scheduler.
	mu sync.SpinMutex

	// other is the rendezvous slot: evidence from the context that
	// consumed a watchpoint, awaiting pickup by the watchpoint's owner.
	other accessInfo

	limiter rateLimiter
}

// New creates a Reporter for the given configuration.
func New(cfg *config.Config, opts Options) *Reporter {
	if cfg == nil {
		cfg = config.Default()
	}
	r := &Reporter{
		cfg:       cfg,
		out:       opts.Output,
		clock:     opts.Clock,
		stacks:    opts.Stacks,
		symbols:   opts.Symbols,
		skipFrame: opts.SkipFrame,
		matches:   opts.Matches,
		contextID: opts.ContextID,
		guard:     opts.Guard,
		traceOff:  opts.TraceOff,
		traceOn:   opts.TraceOn,
		onFatal:   opts.OnFatal,
		dumpInfo:  opts.DumpInfo,
	}
	if r.out == nil {
		r.out = os.Stderr
	}
	if r.clock == nil {
		r.clock = defaultClock()
	}
	if r.stacks == nil {
		r.stacks = stack.Host{}
	}
	if r.symbols == nil {
		r.symbols = stack.Host{}
	}
	if r.matches == nil {
		r.matches = DefaultMatch
	}
	if r.contextID == nil {
		pid := os.Getpid()
		r.contextID = func() int { return pid }
	}
	if r.guard == nil {
		r.guard = kcsan.NoopGuard()
	}
	if r.onFatal == nil {
		r.onFatal = func(msg string) { panic(msg) }
	}
	if r.dumpInfo == nil {
		r.dumpInfo = hostDumpInfo
	}
	r.limiter = newRateLimiter(cfg.ReportOnceInMS, r.clock)
	r.enabled.Store(true)
	return r
}

// SetEnabled turns reporting on or off at runtime.
func (r *Reporter) SetEnabled(enabled bool) {
	r.enabled.Store(enabled)
}

// Enabled returns whether reporting is on.
func (r *Reporter) Enabled() bool {
	return r.enabled.Load()
}

// Report is the entry point called by the detection layer for every race
// event. Its only effect is a possibly printed report; nothing is returned.
//
// ptr, size and access describe the access made by the calling context.
// valueChanged is the best-known "did the value change" flag; for a
// race-signal report it describes the counterpart's write. kind classifies
// how the race was discovered.
//
// Report panics if kind is not a valid classification; that is a contract
// violation by the caller, not a runtime condition.
func (r *Reporter) Report(ptr uintptr, size uint64, access kcsan.AccessType, valueChanged bool, cpuID int, kind kcsan.ReportKind) {
	if !r.enabled.Load() {
		return
	}

	// Suspend trace bookkeeping first: taking the report lock below may
	// itself recurse into the tracer's utilities.
	if r.traceOff != nil {
		r.traceOff()
	}
	r.guard.Disable()

	produced := false
	if r.prepare(ptr, size, access, cpuID, kind) {
		produced = r.printReport(ptr, size, access, valueChanged, cpuID, kind)
		r.release(kind)
	}

	r.guard.Enable()
	if r.traceOn != nil {
		r.traceOn()
	}

	// Escalation runs strictly after the lock is dropped; the hook may
	// want to print or flush and must not deadlock against the report
	// path.
	if produced && r.cfg.PanicOnWarn {
		r.onFatal("panic_on_warn set ...")
	}
}

type prepareOutcome int

const (
	// prepareAcquired: the lock is held and the caller must print,
	// then call release.
	prepareAcquired prepareOutcome = iota

	// prepareDone: the calling context's involvement is over; the lock
	// has been released and nothing is printed.
	prepareDone

	// prepareRetry: transient condition (slot busy, or occupied by an
	// unrelated race); the lock has been released, try again.
	prepareRetry
)

// prepare drives the rendezvous protocol until it resolves. It returns true
// with the lock held if the calling context ended up with complete evidence
// and must print, and false if its involvement is over.
//
// The retry loop spins; it terminates because the counterpart side's
// critical section is short and always eventually fills or clears the slot.
func (r *Reporter) prepare(ptr uintptr, size uint64, access kcsan.AccessType, cpuID int, kind kcsan.ReportKind) bool {
	if kind == kcsan.UnknownOrigin {
		// No counterpart evidence needed; just take the lock.
		r.mu.Lock()
		return true
	}

	for {
		switch r.prepareAttempt(ptr, size, access, cpuID, kind) {
		case prepareAcquired:
			return true
		case prepareDone:
			return false
		}
		sync.Goyield()
	}
}

// prepareAttempt performs one examination of the rendezvous slot under the
// lock. Split from prepare so tests can drive single protocol steps without
// unbounded spinning.
func (r *Reporter) prepareAttempt(ptr uintptr, size uint64, access kcsan.AccessType, cpuID int, kind kcsan.ReportKind) prepareOutcome {
	r.mu.Lock()

	switch kind {
	case kcsan.ConsumedWatchpoint:
		if r.other.ptr != 0 {
			// Slot still in use, retry.
			r.mu.Unlock()
			return prepareRetry
		}

		// The stack must be captured before the slot is published, and
		// both happen under the lock; the slot is immutable afterwards.
		entries := r.stacks.Capture(captureSkipPrepare, kcsan.MaxStackEntries)
		r.other.numStack = copy(r.other.stackEntries[:], entries)
		r.other.size = size
		r.other.access = access
		r.other.taskID = r.contextID()
		r.other.cpuID = cpuID
		r.other.ptr = ptr

		r.mu.Unlock()

		// The other context prints the summary; the slot may now be
		// consumed.
		return prepareDone

	case kcsan.RaceSignal:
		if r.other.ptr == 0 {
			// No evidence available yet, retry.
			r.mu.Unlock()
			return prepareRetry
		}

		// First check whether the slot holds the evidence we expect,
		// i.e. matches based on how the watchpoint was encoded.
		if !r.matches(false, r.other.ptr, r.other.size, ptr, size) {
			// Mismatching watchpoint; the slot belongs to an
			// unrelated race. Leave it alone and retry.
			r.mu.Unlock()
			return prepareRetry
		}

		if !r.matches(true, r.other.ptr, r.other.size, ptr, size) {
			// The actual accesses do not overlap: a false positive
			// introduced by the coarse watchpoint encoding. Discard
			// the evidence.
			encodingFalsePositives.Increment()
			r.release(kcsan.RaceSignal)
			return prepareDone
		}

		// Matching and usable evidence: keep the lock held; this
		// context consumes the slot to print the full report, and
		// unlocks in release.
		return prepareAcquired

	default:
		r.mu.Unlock()
		panic(fmt.Sprintf("kcsan: invalid report kind %d", int(kind)))
	}
}

// release clears the rendezvous slot if this report consumed it, and drops
// the lock.
func (r *Reporter) release(kind kcsan.ReportKind) {
	if kind == kcsan.RaceSignal {
		// Mark the slot for reuse.
		r.other = accessInfo{}
	}
	r.mu.Unlock()
}

// Stack capture skip counts: frames between the instrumentation layer's call
// to Report and the actual capture call.
const (
	// Report -> prepare -> prepareAttempt -> Capture.
	captureSkipPrepare = 3

	// Report -> printReport -> Capture.
	captureSkipPrint = 2
)

// hostDumpInfo is the default footer context line.
func hostDumpInfo() string {
	return fmt.Sprintf("PID: %d Comm: %s %s %s/%s",
		os.Getpid(), filepath.Base(os.Args[0]), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
