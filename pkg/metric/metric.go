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

// Package metric provides primitives for collecting metrics.
package metric

import (
	"errors"
	"fmt"
	"sort"

	"kcsan.dev/kcsan/pkg/atomicbitops"
	"kcsan.dev/kcsan/pkg/log"
	"kcsan.dev/kcsan/pkg/sync"
)

// ErrNameInUse indicates that another metric is already defined for
// the given name.
var ErrNameInUse = errors.New("metric name already in use")

// Uint64Metric encapsulates a uint64 that represents some kind of metric to
// be monitored.
type Uint64Metric struct {
	name        string
	description string
	value       atomicbitops.Uint64
}

var (
	// mu protects allMetrics.
	mu sync.RWMutex

	// allMetrics are the registered metrics.
	allMetrics = map[string]*Uint64Metric{}
)

// NewUint64Metric creates and registers a new cumulative metric with the
// given name.
//
// Metric names must be unique within the process.
func NewUint64Metric(name string, description string) (*Uint64Metric, error) {
	mu.Lock()
	defer mu.Unlock()

	if _, ok := allMetrics[name]; ok {
		return nil, ErrNameInUse
	}
	m := &Uint64Metric{
		name:        name,
		description: description,
	}
	allMetrics[name] = m
	return m, nil
}

// MustCreateNewUint64Metric calls NewUint64Metric and panics if it returns
// an error.
func MustCreateNewUint64Metric(name string, description string) *Uint64Metric {
	m, err := NewUint64Metric(name, description)
	if err != nil {
		panic(fmt.Sprintf("unable to create metric %q: %v", name, err))
	}
	return m
}

// Value returns the current value of the metric.
func (m *Uint64Metric) Value() uint64 {
	return m.value.Load()
}

// Increment increments the metric by 1.
func (m *Uint64Metric) Increment() {
	m.value.Add(1)
}

// IncrementBy increments the metric by v.
func (m *Uint64Metric) IncrementBy(v uint64) {
	m.value.Add(v)
}

// Snapshot returns the current values of all registered metrics, keyed by
// name.
func Snapshot() map[string]uint64 {
	mu.RLock()
	defer mu.RUnlock()

	vals := make(map[string]uint64, len(allMetrics))
	for name, m := range allMetrics {
		vals[name] = m.Value()
	}
	return vals
}

// EmitMetricUpdate emits the current values of all registered metrics to the
// log, in name order.
func EmitMetricUpdate() {
	vals := Snapshot()

	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		log.Infof("Metric %s: %d", name, vals[name])
	}
}
