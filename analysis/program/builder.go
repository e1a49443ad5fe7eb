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

package program

import (
	"errors"
	"fmt"
	"sort"
)

// StatementSpec describes a statement added to a method body by the Builder
type StatementSpec struct {
	// Invoke is true for invocation statements, whose invoked signature is Target
	Invoke bool
	Target Signature

	// Succs are the body indices of the successors. Nil falls through to the next statement.
	Succs []int

	Line int
}

// Builder constructs an Arena. Errors are accumulated and returned by Build; the Builder must not be used after Build.
type Builder struct {
	arena *Arena
	errs  []error
	// edges[s] is the set of callees of s, to ignore duplicate edges
	edges map[StmtID]map[MethodID]bool
}

// NewBuilder returns a builder for an empty arena
func NewBuilder() *Builder {
	return &Builder{
		arena: &Arena{
			bySig:     map[string]MethodID{},
			hierarchy: NewTypeHierarchy(),
		},
		edges: map[StmtID]map[MethodID]bool{},
	}
}

func (b *Builder) errorf(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}

// AddMethod adds a method with an empty body and returns its id
func (b *Builder) AddMethod(sig Signature, concrete bool, library bool) MethodID {
	a := b.arena
	id := MethodID(len(a.methods))
	a.methods = append(a.methods, Method{ID: id, Sig: sig, Concrete: concrete, Library: library})
	a.callers = append(a.callers, nil)
	a.callSites = append(a.callSites, nil)
	a.traps = append(a.traps, nil)
	if _, ok := a.bySig[sig.Key()]; !ok {
		a.bySig[sig.Key()] = id
	}
	return id
}

// AddStatement appends a statement to the body of m and returns its id. It returns -1 if m is not a method of the
// arena being built.
func (b *Builder) AddStatement(m MethodID, spec StatementSpec) StmtID {
	a := b.arena
	method := a.Method(m)
	if method == nil {
		b.errorf("statement added to unknown method %d", m)
		return -1
	}
	if !method.Concrete {
		b.errorf("statement added to the body of non-concrete method %s", method.Sig)
		return -1
	}
	id := StmtID(len(a.stmts))
	a.stmts = append(a.stmts, Statement{
		ID:     id,
		Method: m,
		Index:  len(method.Body),
		Invoke: spec.Invoke,
		Target: spec.Target,
		Succs:  spec.Succs,
		Line:   spec.Line,
	})
	a.callees = append(a.callees, nil)
	method.Body = append(method.Body, id)
	if spec.Invoke {
		a.callSites[m] = append(a.callSites[m], id)
	}
	return id
}

// AddEdge adds a call edge from statement s to method callee. Edges into non-concrete methods are rejected.
// Adding the same edge twice has no effect.
func (b *Builder) AddEdge(s StmtID, callee MethodID) {
	a := b.arena
	st := a.Statement(s)
	m := a.Method(callee)
	switch {
	case st == nil:
		b.errorf("call edge from unknown statement %d", s)
	case m == nil:
		b.errorf("call edge to unknown method %d", callee)
	case !m.Concrete:
		b.errorf("call edge from statement %d of %s to non-concrete method %s",
			st.Index, a.methods[st.Method].Sig, m.Sig)
	default:
		if b.edges[s] == nil {
			b.edges[s] = map[MethodID]bool{}
		}
		if b.edges[s][callee] {
			return
		}
		b.edges[s][callee] = true
		a.callees[s] = append(a.callees[s], callee)
		a.callers[callee] = append(a.callers[callee], s)
	}
}

// AddTrap adds an exception handler range to m
func (b *Builder) AddTrap(m MethodID, r ExceptionRange) {
	if b.arena.Method(m) == nil {
		b.errorf("exception range added to unknown method %d", m)
		return
	}
	if r.Begin < 0 || r.End < r.Begin {
		b.errorf("invalid exception range [%d, %d) in %s", r.Begin, r.End, b.arena.methods[m].Sig)
		return
	}
	b.arena.traps[m] = append(b.arena.traps[m], r)
}

// AddSubtype records that type child directly extends type parent
func (b *Builder) AddSubtype(child, parent string) {
	b.arena.hierarchy.AddSubtype(child, parent)
}

// AddEntryPoint marks m as an entry point of the program
func (b *Builder) AddEntryPoint(m MethodID) {
	if b.arena.Method(m) == nil {
		b.errorf("unknown entry point %d", m)
		return
	}
	b.arena.entryPoints = append(b.arena.entryPoints, m)
}

// SetPermissions sets the permissions requested by the program
func (b *Builder) SetPermissions(permissions []string) {
	b.arena.permissions = permissions
}

// MethodBySignature returns the first method added with the signature key
func (b *Builder) MethodBySignature(key string) (MethodID, bool) {
	return b.arena.MethodBySignature(key)
}

// Build validates the arena, computes the reachable methods and the dominators, and returns the arena. All the errors
// encountered while building are returned together.
func (b *Builder) Build() (*Arena, error) {
	a := b.arena
	for i := range a.methods {
		m := &a.methods[i]
		for _, id := range m.Body {
			for _, succ := range a.stmts[id].Succs {
				if succ < 0 || succ >= len(m.Body) {
					b.errorf("statement %d of %s has successor %d out of the body", a.stmts[id].Index, m.Sig, succ)
				}
			}
		}
	}
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	for i := range a.callers {
		callers := a.callers[i]
		sort.Slice(callers, func(x, y int) bool { return callers[x] < callers[y] })
	}
	a.dominators = make([][]StmtID, len(a.stmts))
	for i := range a.methods {
		a.computeDominators(&a.methods[i])
	}
	a.computeReachable()
	return a, nil
}
