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
	"kcsan.dev/kcsan/pkg/metric"
)

var (
	// encodingFalsePositives counts race-signal rendezvous where the
	// coarse address check passed but the exact check failed.
	encodingFalsePositives = metric.MustCreateNewUint64Metric("/kcsan/encoding_false_positives",
		"Races that matched a watchpoint only due to compact address encoding.")

	// reportsGenerated counts reports actually printed.
	reportsGenerated = metric.MustCreateNewUint64Metric("/kcsan/reports_generated",
		"Data-race reports printed.")

	// reportsFiltered counts reports suppressed by the report filter.
	reportsFiltered = metric.MustCreateNewUint64Metric("/kcsan/reports_filtered",
		"Candidate reports suppressed by filter rules.")

	// reportsRateLimited counts reports suppressed by the rate limiter.
	reportsRateLimited = metric.MustCreateNewUint64Metric("/kcsan/reports_rate_limited",
		"Candidate reports suppressed by rate limiting.")

	// racesUnknownOrigin counts reports printed for races with no known
	// counterpart context.
	racesUnknownOrigin = metric.MustCreateNewUint64Metric("/kcsan/races_unknown_origin",
		"Reports for races whose other side was not captured.")
)
