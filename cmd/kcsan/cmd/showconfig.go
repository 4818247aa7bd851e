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

package cmd

import (
	"context"
	"flag"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/google/subcommands"
	"kcsan.dev/kcsan/pkg/kcsan/config"
)

// ShowConfig implements subcommands.Command for the "showconfig" command.
type ShowConfig struct{}

// Name implements subcommands.Command.Name.
func (*ShowConfig) Name() string {
	return "showconfig"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*ShowConfig) Synopsis() string {
	return "prints the resolved report engine configuration"
}

// Usage implements subcommands.Command.Usage.
func (*ShowConfig) Usage() string {
	return `showconfig [config file]`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*ShowConfig) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*ShowConfig) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	conf := config.Default()
	if f.NArg() > 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if f.NArg() == 1 {
		var err error
		if conf, err = config.Load(f.Arg(0)); err != nil {
			Fatalf("loading config: %v", err)
		}
	}

	if err := toml.NewEncoder(os.Stdout).Encode(conf); err != nil {
		Fatalf("encoding config: %v", err)
	}
	return subcommands.ExitSuccess
}
