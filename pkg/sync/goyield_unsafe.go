// Copyright 2026 The KCSAN Go Authors.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build go1.14
// +build go1.14

// Check go:linkname function signatures when updating Go version.

package sync

import (
	_ "unsafe" // for go:linkname
)

//go:linkname goyield runtime.goyield
func goyield()

// Goyield yields the processor to another goroutine on the same P, without
// going through the scheduler's global run queue. Unlike runtime.Gosched, it
// does not ask the scheduler for a full reschedule, making it suitable for
// short spin-retry loops.
func Goyield() {
	goyield()
}
