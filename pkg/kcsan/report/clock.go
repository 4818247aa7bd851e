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

// Clock provides the monotonic tick counter used by the rate limiter. Ticks
// may wrap; comparisons use timeBefore.
type Clock interface {
	// Now returns the current tick count.
	Now() uint64

	// FromMillis converts a duration in milliseconds to ticks.
	FromMillis(ms uint64) uint64
}

// timeBefore returns true if tick a is before tick b, correctly handling
// wrap-around.
func timeBefore(a, b uint64) bool {
	return int64(a-b) < 0
}
