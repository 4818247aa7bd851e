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

// Package config holds the report engine configuration.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config configures report filtering and rate limiting. The zero value is
// not useful; start from Default.
type Config struct {
	// ReportOnceInMS is the rate-limit window in milliseconds. Races with
	// the same frame pair are reported at most once per window. Zero
	// disables rate limiting.
	ReportOnceInMS uint64 `toml:"report_once_in_ms"`

	// ValueChangeOnly suppresses reports of racing writes that did not
	// change the value, unless the top frame's symbol matches an entry in
	// ValueChangeAllow.
	ValueChangeOnly bool `toml:"value_change_only"`

	// ValueChangeAllow lists symbol substrings exempt from
	// ValueChangeOnly filtering.
	ValueChangeAllow []string `toml:"value_change_allow"`

	// PanicOnWarn escalates through the fatal hook after any report is
	// produced.
	PanicOnWarn bool `toml:"panic_on_warn"`

	// TrimFrames lists symbol substrings identifying the detector's own
	// machinery; leading stack entries matching one of them are trimmed
	// from reports.
	TrimFrames []string `toml:"trim_frames"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		ReportOnceInMS:   3000,
		ValueChangeOnly:  true,
		ValueChangeAllow: []string{"rcu_", "_rcu", "_srcu"},
		PanicOnWarn:      false,
		TrimFrames:       []string{"kcsan.", "csan_", "tsan_", "_once_size"},
	}
}

// Load reads a TOML config file, applying defaults for unset fields.
func Load(path string) (*Config, error) {
	c := Default()
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		return nil, fmt.Errorf("decoding config %q: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %q has unknown keys: %v", path, undecoded)
	}
	return c, nil
}
