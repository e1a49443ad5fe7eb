// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"os"

	"github.com/dong-li-awx/revdroid/analysis/config"
	"github.com/dong-li-awx/revdroid/cmd/revdroid/catalog"
	"github.com/dong-li-awx/revdroid/cmd/revdroid/cycles"
	"github.com/dong-li-awx/revdroid/cmd/revdroid/misuse"
	"github.com/dong-li-awx/revdroid/cmd/revdroid/tools"
)

const usage = `RevDroid: permission misuse detection
Usage:
  revdroid [tool] [options] <model file | Go package path(s)>
Tools:
  - misuse: reports the sensitive calls that are not guarded against a missing permission
  - catalog: prints the sensitive methods of a permission mapping
  - cycles: prints the recursive components of the call graph of a program
Examples:
  Run the detection on an exported model: revdroid misuse -config config.yaml app.yaml
  Run the detection on Go packages: revdroid misuse -config config.yaml -go ./...`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "error: expected subcommand\n%s\n", usage)
		os.Exit(2)
	}

	// hardcode help flag
	if snd := os.Args[1]; snd == "-help" || snd == "--help" {
		fmt.Println(usage)
		return
	}

	// hardcode version flag
	if snd := os.Args[1]; snd == "-version" || snd == "--version" {
		fmt.Println(config.Version)
		return
	}

	args := os.Args[2:]
	switch cmd := os.Args[1]; cmd {
	case "misuse":
		flags, err := misuse.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := misuse.Run(flags); err != nil {
			errExit(err)
		}
	case "catalog":
		flags, err := catalog.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := catalog.Run(flags); err != nil {
			errExit(err)
		}
	case "cycles":
		flags, err := cycles.NewFlags(args)
		if err != nil {
			errExit(err)
		}
		if err := cycles.Run(flags); err != nil {
			errExit(err)
		}
	default:
		fmt.Fprintf(os.Stderr, "error: unexpected command: %v\n", cmd)
		fmt.Fprintf(os.Stderr, "usage:\n%s\n", usage)
		os.Exit(2)
	}
}

func errExit(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	hint := tools.HintForErrorMessage(err.Error())
	if hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(2)
}
