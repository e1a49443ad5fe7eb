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
	"sort"
)

// Arena is the Model built by a Builder. Methods and statements are stored in dense slices indexed by their ids, and
// all the relations between them are stored as ids. An Arena is read-only.
type Arena struct {
	methods []Method
	stmts   []Statement

	// callees[s] are the methods called by statement s
	callees [][]MethodID

	// callers[m] are the statements calling m, in increasing id order
	callers [][]StmtID

	// callSites[m] are the invocation statements of m, in body order
	callSites [][]StmtID

	traps [][]ExceptionRange

	// dominators[s] runs from the entry of the method down to s; nil when s is unreachable
	dominators [][]StmtID

	reachable   []MethodID
	entryPoints []MethodID
	bySig       map[string]MethodID
	hierarchy   *TypeHierarchy
	permissions []string
}

var _ Model = (*Arena)(nil)

// ReachableMethods returns the methods reachable from the entry points. When no entry point has been set, all
// methods are reachable.
func (a *Arena) ReachableMethods() []MethodID {
	return a.reachable
}

// Method returns the method with id m, or nil if there is none
func (a *Arena) Method(m MethodID) *Method {
	if m < 0 || int(m) >= len(a.methods) {
		return nil
	}
	return &a.methods[m]
}

// Statement returns the statement with id s, or nil if there is none
func (a *Arena) Statement(s StmtID) *Statement {
	if s < 0 || int(s) >= len(a.stmts) {
		return nil
	}
	return &a.stmts[s]
}

// CallSites returns the invocation statements of m, in body order
func (a *Arena) CallSites(m MethodID) []StmtID {
	if a.Method(m) == nil {
		return nil
	}
	return a.callSites[m]
}

// CallersOf returns the statements with a call edge to m, in increasing id order
func (a *Arena) CallersOf(m MethodID) []StmtID {
	if a.Method(m) == nil {
		return nil
	}
	return a.callers[m]
}

// Callees returns the methods that s has a call edge to
func (a *Arena) Callees(s StmtID) []MethodID {
	if a.Statement(s) == nil {
		return nil
	}
	return a.callees[s]
}

// EnclosingMethod returns the method whose body contains s
func (a *Arena) EnclosingMethod(s StmtID) MethodID {
	if st := a.Statement(s); st != nil {
		return st.Method
	}
	return -1
}

// Traps returns the exception handler ranges of m
func (a *Arena) Traps(m MethodID) []ExceptionRange {
	if a.Method(m) == nil {
		return nil
	}
	return a.traps[m]
}

// IsExceptionCaughtAt returns true if one of the handlers of m covers s and catches exceptionType or a supertype of
// exceptionType
func (a *Arena) IsExceptionCaughtAt(exceptionType string, s StmtID, m MethodID) bool {
	st := a.Statement(s)
	if st == nil || st.Method != m {
		return false
	}
	for _, trap := range a.traps[m] {
		if trap.Contains(st.Index) && a.hierarchy.IsSubtype(exceptionType, trap.CaughtType) {
			return true
		}
	}
	return false
}

// DominatorsOf returns the dominators of s in m, starting with the entry statement and ending with s
func (a *Arena) DominatorsOf(s StmtID, m MethodID) []StmtID {
	st := a.Statement(s)
	if st == nil || st.Method != m {
		return nil
	}
	return a.dominators[s]
}

// Methods returns all the methods of the arena, in id order
func (a *Arena) Methods() []MethodID {
	ids := make([]MethodID, len(a.methods))
	for i := range a.methods {
		ids[i] = MethodID(i)
	}
	return ids
}

// NumMethods returns the number of methods
func (a *Arena) NumMethods() int {
	return len(a.methods)
}

// NumStatements returns the number of statements
func (a *Arena) NumStatements() int {
	return len(a.stmts)
}

// EntryPoints returns the entry points the reachable methods were computed from
func (a *Arena) EntryPoints() []MethodID {
	return a.entryPoints
}

// MethodBySignature returns the first method whose signature key is key
func (a *Arena) MethodBySignature(key string) (MethodID, bool) {
	m, ok := a.bySig[key]
	return m, ok
}

// Hierarchy returns the type hierarchy used to match exception types
func (a *Arena) Hierarchy() *TypeHierarchy {
	return a.hierarchy
}

// Permissions returns the permissions requested by the program, if the model contains them
func (a *Arena) Permissions() []string {
	return a.permissions
}

// computeReachable sets the reachable methods to the closure of the entry points over the call edges, or to all
// the methods when there are no entry points.
func (a *Arena) computeReachable() {
	if len(a.entryPoints) == 0 {
		a.reachable = a.Methods()
		return
	}
	seen := make([]bool, len(a.methods))
	var stack []MethodID
	for _, e := range a.entryPoints {
		if !seen[e] {
			seen[e] = true
			stack = append(stack, e)
		}
	}
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range a.callSites[m] {
			for _, callee := range a.callees[s] {
				if !seen[callee] {
					seen[callee] = true
					stack = append(stack, callee)
				}
			}
		}
	}
	a.reachable = nil
	for i, ok := range seen {
		if ok {
			a.reachable = append(a.reachable, MethodID(i))
		}
	}
	sort.Slice(a.reachable, func(i, j int) bool { return a.reachable[i] < a.reachable[j] })
}
