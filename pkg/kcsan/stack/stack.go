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

// Package stack captures and symbolizes call stacks for race reports.
//
// The report engine only sees this package through small interfaces so that
// tests can substitute synthetic stacks and symbol tables.
package stack

import (
	"fmt"
	"runtime"
	"strings"
)

// Symbolizer resolves return addresses to printable symbols.
type Symbolizer interface {
	// Name returns the bare function name for pc, without offsets. Used
	// for bug titles and symbol comparison.
	Name(pc uintptr) string

	// Frame returns the full printable form of pc used in stack traces,
	// including the offset into the function.
	Frame(pc uintptr) string
}

// Capturer captures the calling context's stack.
type Capturer interface {
	// Capture returns up to max return addresses of the current call
	// stack, innermost first. skip leading frames belong to the capture
	// machinery itself and are omitted.
	Capture(skip, max int) []uintptr
}

// Host is the Symbolizer and Capturer backed by the Go runtime.
type Host struct{}

// Capture implements Capturer.Capture.
func (Host) Capture(skip, max int) []uintptr {
	pcs := make([]uintptr, max)
	// +2 to omit runtime.Callers and Capture itself.
	n := runtime.Callers(skip+2, pcs)
	out := make([]uintptr, n)
	for i := 0; i < n; i++ {
		// runtime.Callers returns the address after the call; step back
		// inside the call instruction so symbolization attributes the
		// frame to the caller.
		out[i] = pcs[i] - 1
	}
	return out
}

// Name implements Symbolizer.Name.
func (Host) Name(pc uintptr) string {
	f := runtime.FuncForPC(pc)
	if f == nil {
		return fmt.Sprintf("0x%x", pc)
	}
	name := f.Name()
	// Trim the package path; titles only want the last element.
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Frame implements Symbolizer.Frame.
func (Host) Frame(pc uintptr) string {
	f := runtime.FuncForPC(pc)
	if f == nil {
		return fmt.Sprintf("0x%x", pc)
	}
	file, line := f.FileLine(pc)
	if i := strings.LastIndexByte(file, '/'); i >= 0 {
		file = file[i+1:]
	}
	return fmt.Sprintf("%s+0x%x %s:%d", Host{}.Name(pc), pc-f.Entry(), file, line)
}

// SkipInternal returns the number of leading entries whose symbol name
// contains one of the given substrings. It is used to trim the detector's
// own machinery from the top of a trace so the report starts at user code.
// If every entry matches, the trace is left untrimmed; a report with
// internal frames beats an empty one.
func SkipInternal(entries []uintptr, sym Symbolizer, internal []string) int {
	skip := 0
outer:
	for ; skip < len(entries); skip++ {
		name := sym.Name(entries[skip])
		for _, sub := range internal {
			if strings.Contains(name, sub) {
				continue outer
			}
		}
		break
	}
	if skip == len(entries) {
		return 0
	}
	return skip
}

// CompareBySymbol compares two addresses by their resolved symbol names, for
// deterministic ordering of report titles.
func CompareBySymbol(sym Symbolizer, a, b uintptr) int {
	return strings.Compare(sym.Name(a), sym.Name(b))
}
