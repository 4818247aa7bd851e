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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kcsan.toml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
report_once_in_ms = 500
value_change_only = false
panic_on_warn = true
`)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	want.ReportOnceInMS = 500
	want.ValueChangeOnly = false
	want.PanicOnWarn = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `report_once_in_ms = 100`)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(Default().ValueChangeAllow, got.ValueChangeAllow); diff != "" {
		t.Errorf("allow list mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Default().TrimFrames, got.TrimFrames); diff != "" {
		t.Errorf("trim list mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := writeConfig(t, `no_such_option = 1`)
	if _, err := Load(path); err == nil {
		t.Error("Load accepted unknown key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}
