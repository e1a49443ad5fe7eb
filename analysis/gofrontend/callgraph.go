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

package gofrontend

import (
	"fmt"
	"strings"

	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/callgraph/cha"
	"golang.org/x/tools/go/callgraph/rta"
	"golang.org/x/tools/go/callgraph/static"
	"golang.org/x/tools/go/callgraph/vta"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// CallgraphAnalysisMode selects the algorithm computing the call graph
type CallgraphAnalysisMode uint64

const (
	StaticAnalysis         CallgraphAnalysisMode = iota // StaticAnalysis is under-approximating (fast)
	ClassHierarchyAnalysis                              // ClassHierarchyAnalysis is a coarse over-approximation (fast)
	RapidTypeAnalysis                                   // RapidTypeAnalysis starts from the main and init functions
	VariableTypeAnalysis                                // VariableTypeAnalysis refines the static call graph
)

var modeNames = map[string]CallgraphAnalysisMode{
	"static": StaticAnalysis,
	"cha":    ClassHierarchyAnalysis,
	"rta":    RapidTypeAnalysis,
	"vta":    VariableTypeAnalysis,
}

// ParseCallgraphAnalysisMode returns the mode named name (one of static, cha, rta or vta)
func ParseCallgraphAnalysisMode(name string) (CallgraphAnalysisMode, error) {
	mode, ok := modeNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unsupported callgraph analysis %q", name)
	}
	return mode, nil
}

func (mode CallgraphAnalysisMode) String() string {
	for name, m := range modeNames {
		if m == mode {
			return name
		}
	}
	return "unknown"
}

// ComputeCallgraph computes the call graph of prog using the provided mode.
func (mode CallgraphAnalysisMode) ComputeCallgraph(prog *ssa.Program) (*callgraph.Graph, error) {
	switch mode {
	case StaticAnalysis:
		// Build the callgraph using only static analysis.
		return static.CallGraph(prog), nil
	case ClassHierarchyAnalysis:
		// Build the callgraph using the Class Hierarchy Analysis
		// See the documentation, and
		// "Optimization of Object-Oriented Programs Using Static Class Hierarchy Analysis",
		// J. Dean, D. Grove, and C. Chambers, ECOOP'95.
		return cha.CallGraph(prog), nil
	case VariableTypeAnalysis:
		cg := static.CallGraph(prog)
		return vta.CallGraph(ssautil.AllFunctions(prog), cg), nil
	case RapidTypeAnalysis:
		// Build the callgraph using rapid type analysis
		// See the documentation, and
		// "Fast Analysis of C++ Virtual Function Calls", D.Bacon & P. Sweeney, OOPSLA'96
		roots := mainRoots(prog)
		if len(roots) == 0 {
			return nil, fmt.Errorf("rapid type analysis needs a main package")
		}
		return rta.Analyze(roots, true).CallGraph, nil
	default:
		return nil, fmt.Errorf("unsupported callgraph analysis mode %d", mode)
	}
}

// mainRoots returns the init and main functions of the main packages
func mainRoots(prog *ssa.Program) []*ssa.Function {
	var roots []*ssa.Function
	for _, m := range ssautil.MainPackages(prog.AllPackages()) {
		for _, name := range []string{"init", "main"} {
			if f := m.Func(name); f != nil {
				roots = append(roots, f)
			}
		}
	}
	return roots
}
