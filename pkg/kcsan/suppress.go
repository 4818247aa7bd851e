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

package kcsan

import (
	"kcsan.dev/kcsan/pkg/atomicbitops"
)

// Guard controls whether the detection layer should ignore accesses made by
// the current execution context. The report engine disables self-detection
// for the whole span of a report, since its own bookkeeping (locking, stack
// capture, symbolization) is itself instrumented code.
type Guard interface {
	// Disable suppresses detection of the current context's accesses.
	// Calls nest.
	Disable()

	// Enable undoes one Disable.
	Enable()
}

// SuppressCount is a nestable suppression counter implementing Guard. The
// detection layer owns one per execution context; detection is suppressed
// while the counter is positive.
//
// The zero value is an enabled (non-suppressed) counter.
type SuppressCount struct {
	n atomicbitops.Int32
}

// Disable implements Guard.Disable.
func (s *SuppressCount) Disable() {
	s.n.Add(1)
}

// Enable implements Guard.Enable.
//
// Preconditions: a matching Disable was called.
func (s *SuppressCount) Enable() {
	if s.n.Add(-1) < 0 {
		panic("kcsan: Enable without matching Disable")
	}
}

// Suppressed returns true if detection is currently suppressed.
func (s *SuppressCount) Suppressed() bool {
	return s.n.Load() > 0
}

// noopGuard ignores Disable/Enable. Used when the caller does not hook up a
// detection layer.
type noopGuard struct{}

func (noopGuard) Disable() {}
func (noopGuard) Enable()  {}

// NoopGuard returns a Guard that does nothing.
func NoopGuard() Guard {
	return noopGuard{}
}
