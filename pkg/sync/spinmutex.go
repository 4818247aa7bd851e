// Copyright 2026 The KCSAN Go Authors.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sync

import (
	"sync/atomic"
)

// SpinMutex is a mutual-exclusion lock that spins instead of parking the
// calling goroutine. It never interacts with the scheduler's wait queues, so
// it is safe to take from code that must not block, at the cost of burning
// cycles under contention.
//
// Critical sections protected by a SpinMutex must be short and must not
// themselves block.
//
// The zero value is an unlocked mutex.
type SpinMutex struct {
	_      NoCopy
	locked uint32
}

// TryLock attempts to acquire m without spinning. It returns true if the
// lock was acquired.
//
//go:nosplit
func (m *SpinMutex) TryLock() bool {
	return atomic.CompareAndSwapUint32(&m.locked, 0, 1)
}

// Lock acquires m, spinning until it is available.
func (m *SpinMutex) Lock() {
	for !m.TryLock() {
		Goyield()
	}
}

// Unlock releases m.
//
// Preconditions: m is locked.
//
//go:nosplit
func (m *SpinMutex) Unlock() {
	if !atomic.CompareAndSwapUint32(&m.locked, 1, 0) {
		panic("sync: unlock of unlocked SpinMutex")
	}
}
