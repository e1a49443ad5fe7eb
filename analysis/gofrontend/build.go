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
	"sort"

	"github.com/dong-li-awx/revdroid/analysis/config"
	"github.com/dong-li-awx/revdroid/analysis/program"
	"golang.org/x/tools/go/callgraph"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// Options of the translation of a Go program to a program model
type Options struct {
	// Exclude lists files and directories whose functions are library code
	Exclude []string

	// Dir is the directory the packages are loaded from. The current directory is used if empty.
	Dir string

	// Platform is the GOOS the packages are loaded for
	Platform string

	// BuildTags are passed to the go command with -tags
	BuildTags string
}

type translator struct {
	prog    *ssa.Program
	cfg     *config.Config
	logger  *config.LogGroup
	opts    Options
	builder *program.Builder

	methods map[*ssa.Function]program.MethodID
	stmts   map[ssa.Instruction]program.StmtID

	recovers map[*ssa.Function]bool
}

// Build translates the SSA program prog and its call graph cg to a program model.
//
// Every function is a method; functions with blocks are concrete. The statements of a function are its instructions,
// block after block. Call instructions (call, go and defer) are invocations. A function whose entry block defers a
// function that recovers has an exception range from the defer to the end of its body, catching PanicType. The
// failure type of the config is a subtype of PanicType.
func Build(prog *ssa.Program, cg *callgraph.Graph, cfg *config.Config, logger *config.LogGroup,
	opts Options) (*program.Arena, error) {
	t := &translator{
		prog:     prog,
		cfg:      cfg,
		logger:   logger,
		opts:     opts,
		builder:  program.NewBuilder(),
		methods:  map[*ssa.Function]program.MethodID{},
		stmts:    map[ssa.Instruction]program.StmtID{},
		recovers: map[*ssa.Function]bool{},
	}
	if cfg.FailureType != PanicType {
		t.builder.AddSubtype(cfg.FailureType, PanicType)
	}

	functions := sortedFunctions(prog)
	for _, f := range functions {
		t.methods[f] = t.builder.AddMethod(FunctionSignature(f), len(f.Blocks) > 0, isLibrary(cfg, prog, f, opts.Exclude))
	}
	for _, f := range functions {
		if len(f.Blocks) > 0 {
			t.translateBody(f)
		}
	}
	t.addEdges(cg)

	for _, f := range mainRoots(prog) {
		t.builder.AddEntryPoint(t.methods[f])
	}

	arena, err := t.builder.Build()
	if err != nil {
		return nil, fmt.Errorf("invalid program model: %w", err)
	}
	logger.Debugf("program model: %d methods, %d statements, %d reachable methods",
		arena.NumMethods(), arena.NumStatements(), len(arena.ReachableMethods()))
	return arena, nil
}

// sortedFunctions returns all the functions of prog, in the order of their names
func sortedFunctions(prog *ssa.Program) []*ssa.Function {
	all := ssautil.AllFunctions(prog)
	functions := make([]*ssa.Function, 0, len(all))
	for f := range all {
		functions = append(functions, f)
	}
	sort.Slice(functions, func(i, j int) bool {
		si, sj := functions[i].String(), functions[j].String()
		if si != sj {
			return si < sj
		}
		return functions[i].Pos() < functions[j].Pos()
	})
	return functions
}

func (t *translator) doesRecover(f *ssa.Function) bool {
	r, ok := t.recovers[f]
	if !ok {
		r = doesRecover(f)
		t.recovers[f] = r
	}
	return r
}

func (t *translator) translateBody(f *ssa.Function) {
	m := t.methods[f]

	// index of the first instruction of each block
	start := make(map[*ssa.BasicBlock]int, len(f.Blocks))
	n := 0
	for _, b := range f.Blocks {
		start[b] = n
		n += len(b.Instrs)
	}

	for _, b := range f.Blocks {
		for i, instr := range b.Instrs {
			spec := program.StatementSpec{Line: t.prog.Fset.Position(instr.Pos()).Line}
			if i == len(b.Instrs)-1 {
				spec.Succs = []int{}
				for _, succ := range b.Succs {
					spec.Succs = append(spec.Succs, start[succ])
				}
			}
			if call, ok := instr.(ssa.CallInstruction); ok {
				spec.Invoke = true
				spec.Target = CalleeSignature(call.Common())
			}
			t.stmts[instr] = t.builder.AddStatement(m, spec)
		}
	}

	if idx, ok := recoveryStart(f, t.doesRecover); ok {
		t.logger.Tracef("%s recovers from panics after instruction %d", f, idx)
		t.builder.AddTrap(m, program.ExceptionRange{Begin: idx, End: n, CaughtType: PanicType})
	}
}

func (t *translator) addEdges(cg *callgraph.Graph) {
	if cg == nil {
		return
	}
	callers := make([]*ssa.Function, 0, len(cg.Nodes))
	for f := range cg.Nodes {
		if f != nil {
			callers = append(callers, f)
		}
	}
	sort.Slice(callers, func(i, j int) bool { return t.methods[callers[i]] < t.methods[callers[j]] })

	for _, f := range callers {
		for _, e := range cg.Nodes[f].Out {
			if e.Site == nil || e.Callee == nil || e.Callee.Func == nil {
				continue
			}
			s, ok := t.stmts[e.Site]
			if !ok {
				continue
			}
			callee, ok := t.methods[e.Callee.Func]
			if !ok || len(e.Callee.Func.Blocks) == 0 {
				// no body to search callers from
				continue
			}
			t.builder.AddEdge(s, callee)
		}
	}
}
