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
	"unsafe"
)

// reportTime records when a data race was last reported, to rate limit
// repeated reports of the same race.
type reportTime struct {
	// time is the tick of the last report. Zero means the entry has never
	// been used.
	time uint64

	// frame1 and frame2 are the top frames of the two racing contexts; if
	// only one context is known, frame2 is zero. The pair is unordered.
	frame1 uintptr
	frame2 uintptr
}

// The entry array must never be resized: the report path has to stay usable
// while the dynamic allocator itself is under test. A fixed budget caps the
// array instead.
const (
	reportTimesBudget = 4096
	reportTimesMax    = reportTimesBudget / int(unsafe.Sizeof(reportTime{}))
)

// rateLimiter answers whether a race identified by a frame pair was already
// reported within the configured window, recording the report if not.
//
// Callers must serialize access; the reporter consults it under its shared
// lock only.
type rateLimiter struct {
	// window is the rate-limit window in ticks; zero disables limiting.
	window uint64

	// size is the number of usable entries.
	size int

	times [reportTimesMax]reportTime
}

func newRateLimiter(windowMS uint64, clock Clock) rateLimiter {
	size := int(windowMS)
	if size > reportTimesMax {
		size = reportTimesMax
	}
	return rateLimiter{
		window: clock.FromMillis(windowMS),
		size:   size,
	}
}

// shouldRateLimit returns true if the race identified by (frame1, frame2)
// was reported less than one window ago. Otherwise it records the pair at
// tick now, evicting the least recently used entry, and returns false.
func (rl *rateLimiter) shouldRateLimit(now uint64, frame1, frame2 uintptr) bool {
	if rl.window == 0 {
		return false
	}

	useEntry := &rl.times[0]
	invalidBefore := now - rl.window

	// Check if a matching data race report exists.
	for i := 0; i < rl.size; i++ {
		rt := &rl.times[i]

		// Must always select an entry for use to store info as the array
		// cannot be resized; at the end of the scan, useEntry is the
		// oldest entry, which ideally also expired a window ago.
		if timeBefore(rt.time, useEntry.time) {
			useEntry = rt
		}

		// Entries are filled front to back, so the first never-used
		// entry ends the scan.
		if rt.time == 0 {
			break
		}

		// Check if entry expired.
		if timeBefore(rt.time, invalidBefore) {
			continue
		}

		// Reported recently, check if data race matches.
		if (rt.frame1 == frame1 && rt.frame2 == frame2) ||
			(rt.frame1 == frame2 && rt.frame2 == frame1) {
			return true
		}
	}

	useEntry.time = now
	useEntry.frame1 = frame1
	useEntry.frame2 = frame2
	return false
}
