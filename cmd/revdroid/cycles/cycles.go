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

// Package cycles implements the front-end printing the recursive methods of a program model. Calls in those methods
// end the interprocedural search early when it comes back to a statement it already examined.
package cycles

import (
	"fmt"
	"io"
	"os"

	"github.com/dong-li-awx/revdroid/analysis/config"
	"github.com/dong-li-awx/revdroid/analysis/program"
	"github.com/dong-li-awx/revdroid/cmd/revdroid/tools"
	"github.com/dong-li-awx/revdroid/internal/formatutil"
	"github.com/dong-li-awx/revdroid/internal/funcutil"
	"github.com/dong-li-awx/revdroid/internal/graphutil"
)

// Usage for CLI
const Usage = `Print the recursive components of the call graph of a program model.
Usage:
  revdroid cycles [options] <model file>
  revdroid cycles [options] -go <package path(s)>
Examples:
  % revdroid cycles -all-cycles app.yaml
`

// Flags represents the parsed flags of the cycles tool
type Flags struct {
	tools.CommonFlags
	allCycles bool
	reachable bool
}

// NewFlags returns the parsed flags of the cycles tool with args.
func NewFlags(args []string) (Flags, error) {
	flags := tools.NewUnparsedCommonFlags("cycles")
	allCycles := flags.FlagSet.Bool("all-cycles", false, "print every elementary cycle of each component")
	reachable := flags.FlagSet.Bool("reachable", true, "only consider the methods reachable from the entry points")
	tools.SetUsage(flags.FlagSet, Usage)
	common, err := flags.Parse(args)
	if err != nil {
		return Flags{}, err
	}
	return Flags{CommonFlags: common, allCycles: *allCycles, reachable: *reachable}, nil
}

// Run loads the model designated by flags and prints its recursive components
func Run(flags Flags) error {
	cfg, err := tools.LoadConfig(flags.ConfigPath, flags.Verbose)
	if err != nil {
		return err
	}
	logger := config.NewLogGroup(cfg)
	model, err := tools.LoadModel(flags.CommonFlags, cfg, logger)
	if err != nil {
		return err
	}
	return Print(os.Stdout, model, flags.reachable, flags.allCycles)
}

// Print writes the recursive components of the call graph of model. When reachableOnly is set, the graph is
// restricted to the reachable methods. When allCycles is set, the elementary cycles are printed too.
func Print(w io.Writer, model *program.Arena, reachableOnly bool, allCycles bool) error {
	cg := graphutil.NewCallgraphIterator(model)
	if reachableOnly {
		cg = graphutil.Subgraph(cg, funcutil.Map(model.ReachableMethods(), func(m program.MethodID) int64 {
			return int64(m)
		}))
	}
	name := func(id int64) string {
		return formatutil.SanitizeRepr(model.Method(program.MethodID(id)).Sig)
	}

	components := graphutil.RecursiveComponents(cg)
	for i, component := range components {
		fmt.Fprintf(w, "%s\n", formatutil.Bold(fmt.Sprintf("component %d", i)))
		for _, id := range component {
			fmt.Fprintf(w, "  %s\n", name(id))
		}
		if !allCycles {
			continue
		}
		for _, cycle := range graphutil.FindAllElementaryCycles(graphutil.Subgraph(cg, component)) {
			fmt.Fprintf(w, "  %s", formatutil.Faint("cycle:"))
			for _, id := range cycle {
				fmt.Fprintf(w, " %s", name(id))
			}
			fmt.Fprintf(w, "\n")
		}
	}
	_, err := fmt.Fprintf(w, "%s\n", formatutil.Plural(len(components), "recursive component"))
	return err
}
