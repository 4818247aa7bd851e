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

// Package kcsan defines the types shared between the data-race detection
// layer and the report engine.
//
// The detection layer observes instrumented memory accesses and decides when
// two of them conflict; the report engine (package report) reconciles the two
// detections into a single printed report. This package holds the vocabulary
// both sides speak: access-type bits, report classifications, and the
// self-detection suppression guard.
package kcsan

import (
	"fmt"
)

// MaxStackEntries is the maximum number of stack entries recorded per access
// in a report.
const MaxStackEntries = 64

// InterruptContext is the context id used for accesses that did not happen
// in task context.
const InterruptContext = -1

// AccessType describes an instrumented memory access as a bitmask.
type AccessType int

const (
	// AccessWrite indicates the access is a write; reads have no bit set.
	AccessWrite AccessType = 1 << iota

	// AccessAtomic indicates the access is marked (atomic); such accesses
	// never race with each other, only with plain accesses.
	AccessAtomic

	// AccessAssert indicates the access is an assertion, not a real memory
	// operation; used by ASSERT_EXCLUSIVE-style annotations.
	AccessAssert

	// AccessScoped indicates the access check covers a scope rather than a
	// single instruction.
	AccessScoped
)

// IsWrite returns true if the access is a write.
func (t AccessType) IsWrite() bool {
	return t&AccessWrite != 0
}

// IsAtomic returns true if the access is marked.
func (t AccessType) IsAtomic() bool {
	return t&AccessAtomic != 0
}

// IsAssert returns true if the access is an assertion.
func (t AccessType) IsAssert() bool {
	return t&AccessAssert != 0
}

// String returns the human-readable access kind used in reports.
func (t AccessType) String() string {
	switch t &^ AccessScoped {
	case 0:
		return "read"
	case AccessAtomic:
		return "read (marked)"
	case AccessWrite:
		return "write"
	case AccessWrite | AccessAtomic:
		return "write (marked)"
	case AccessAssert:
		return "assert no accesses"
	case AccessAssert | AccessWrite:
		return "assert no writes"
	default:
		panic(fmt.Sprintf("unexpected access type %#x", int(t)))
	}
}

// ReportKind classifies how a race was discovered, and with it which side of
// the report protocol the calling context must drive.
type ReportKind int

const (
	// ConsumedWatchpoint means the calling context discovered that a
	// watchpoint it is servicing was consumed by another context. It must
	// publish its evidence for the counterpart and return; it never prints.
	ConsumedWatchpoint ReportKind = iota

	// RaceSignal means the calling context was signalled that its own
	// watchpoint was hit; the counterpart's evidence is expected in the
	// rendezvous slot. If the evidence matches, this context prints the
	// full report.
	RaceSignal

	// UnknownOrigin means the race was observed without a counterpart
	// context (e.g. a value changed under a watchpoint with no conflicting
	// access caught in the act).
	UnknownOrigin
)

// String returns a name for the report kind.
func (k ReportKind) String() string {
	switch k {
	case ConsumedWatchpoint:
		return "consumed-watchpoint"
	case RaceSignal:
		return "race-signal"
	case UnknownOrigin:
		return "unknown-origin"
	default:
		return fmt.Sprintf("invalid kind %d", int(k))
	}
}
