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

//go:build linux
// +build linux

package report

import (
	"golang.org/x/sys/unix"
)

// hostClock reads CLOCK_MONOTONIC directly, with one tick per millisecond.
type hostClock struct{}

// Now implements Clock.Now.
func (hostClock) Now() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		// CLOCK_MONOTONIC is always available on linux.
		panic(err)
	}
	// Offset by one so a tick of zero always means "never".
	return uint64(ts.Sec)*1000 + uint64(ts.Nsec)/1e6 + 1
}

// FromMillis implements Clock.FromMillis.
func (hostClock) FromMillis(ms uint64) uint64 {
	return ms
}

func defaultClock() Clock {
	return hostClock{}
}
