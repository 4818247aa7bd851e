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

// Binary kcsan exercises and inspects the data-race report engine.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"kcsan.dev/kcsan/cmd/kcsan/cmd"
	"kcsan.dev/kcsan/pkg/log"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(new(cmd.Selftest), "")
	subcommands.Register(new(cmd.ShowConfig), "")

	debug := flag.Bool("debug", false, "enable debug logging")
	jsonLog := flag.Bool("json", false, "emit logs as JSON")
	flag.Parse()

	if *debug {
		log.SetLevel(log.Debug)
	}
	if *jsonLog {
		log.SetTarget(log.JSONEmitter{Writer: &log.Writer{Next: os.Stderr}})
	}

	os.Exit(int(subcommands.Execute(context.Background())))
}
