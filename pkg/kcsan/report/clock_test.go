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
	"testing"
)

func TestDefaultClockTicksNonZero(t *testing.T) {
	c := defaultClock()
	// Zero is the rate limiter's never-used sentinel; the host clock must
	// never return it.
	if c.Now() == 0 {
		t.Error("Now() returned the never-used sentinel")
	}
	if got := c.FromMillis(3000); got != 3000 {
		t.Errorf("FromMillis(3000) = %d, want 3000", got)
	}
}
