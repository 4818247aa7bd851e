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

package log

import (
	"time"

	"golang.org/x/time/rate"
)

// rateLimited drops messages arriving faster than the configured rate.
// Race diagnostics can repeat exactly as fast as the racing code does, so
// anything logged per suppressed report goes through one of these.
//
// The backing logger is resolved per call, so a limiter created at package
// init still honors a later SetTarget.
type rateLimited struct {
	logger func() Logger
	limit  *rate.Limiter
}

func (rl *rateLimited) Debugf(format string, v ...any) {
	if rl.limit.Allow() {
		rl.logger().Debugf(format, v...)
	}
}

func (rl *rateLimited) Infof(format string, v ...any) {
	if rl.limit.Allow() {
		rl.logger().Infof(format, v...)
	}
}

func (rl *rateLimited) Warningf(format string, v ...any) {
	if rl.limit.Allow() {
		rl.logger().Warningf(format, v...)
	}
}

func (rl *rateLimited) IsLogging(level Level) bool {
	return rl.logger().IsLogging(level)
}

// BasicRateLimitedLogger returns a Logger that logs to the global logger no
// more than once per the provided duration.
func BasicRateLimitedLogger(every time.Duration) Logger {
	return &rateLimited{
		logger: func() Logger { return Log() },
		limit:  rate.NewLimiter(rate.Every(every), 1),
	}
}

// RateLimitedLogger returns a Logger that logs to the provided logger no more
// than once per the provided duration.
func RateLimitedLogger(logger Logger, every time.Duration) Logger {
	return &rateLimited{
		logger: func() Logger { return logger },
		limit:  rate.NewLimiter(rate.Every(every), 1),
	}
}
