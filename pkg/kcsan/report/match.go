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

// MatchFn reports whether two accesses overlap. With exact=false the
// comparison happens at watchpoint-encoding granularity, i.e. the same
// comparison the detection layer used when it matched the watchpoint; with
// exact=true the raw addresses are compared. The two-stage check filters out
// false positives introduced by compact watchpoint address encoding.
//
// The encoding scheme belongs to the detection layer, which should inject
// its own MatchFn.
type MatchFn func(exact bool, a uintptr, aSize uint64, b uintptr, bSize uint64) bool

// coarseAddrMask drops the address bits that the default watchpoint encoding
// cannot represent.
const coarseAddrMask = ^uintptr(7)

// DefaultMatch is the MatchFn used when the detection layer does not supply
// one. Its coarse stage compares addresses at 8-byte granularity.
func DefaultMatch(exact bool, a uintptr, aSize uint64, b uintptr, bSize uint64) bool {
	if !exact {
		a &= coarseAddrMask
		b &= coarseAddrMask
	}
	return matchingAccess(a, aSize, b, bSize)
}

// matchingAccess returns true if [a, a+aSize) and [b, b+bSize) overlap.
func matchingAccess(a uintptr, aSize uint64, b uintptr, bSize uint64) bool {
	return (a <= b && b < a+uintptr(aSize)) || (b <= a && a < b+uintptr(bSize))
}
