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
	"strings"
)

// skipReport applies the special rules that suppress a candidate report.
//
// The first call for a report always has valueChange=true, since the value
// written by an instrumented access is unknown until the counterpart is
// known. For the second call (the counterpart of a race-signal report) the
// accurate flag is used, so with value-change-only filtering enabled, writes
// that rewrote the same value are not reported, unless the top frame's
// symbol matches the allow list. The allow list keeps races in certain
// synchronization primitives visible even when values did not change.
func (r *Reporter) skipReport(valueChange bool, topFrame uintptr) bool {
	if r.cfg.ValueChangeOnly && !valueChange {
		name := r.symbols.Name(topFrame)
		allowed := false
		for _, sub := range r.cfg.ValueChangeAllow {
			if strings.Contains(name, sub) {
				allowed = true
				break
			}
		}
		if !allowed {
			return true
		}
	}

	return r.skipFrame != nil && r.skipFrame(topFrame)
}
