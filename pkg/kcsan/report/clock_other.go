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

//go:build !linux
// +build !linux

package report

import (
	"time"
)

// hostClock counts milliseconds since an arbitrary start, one tick per
// millisecond. time.Since uses the runtime's monotonic reading.
type hostClock struct {
	start time.Time
}

// Now implements Clock.Now.
func (c hostClock) Now() uint64 {
	// Offset by one so a tick of zero always means "never".
	return uint64(time.Since(c.start)/time.Millisecond) + 1
}

// FromMillis implements Clock.FromMillis.
func (hostClock) FromMillis(ms uint64) uint64 {
	return ms
}

func defaultClock() Clock {
	return hostClock{start: time.Now()}
}
