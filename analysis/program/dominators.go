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
	"github.com/dong-li-awx/revdroid/internal/funcutil"
	"gonum.org/v1/gonum/graph/flow"
	"gonum.org/v1/gonum/graph/simple"
)

// successors returns the body indices following index i in a body of n statements
func successors(st *Statement, n int) []int {
	if st.Succs == nil {
		if st.Index+1 < n {
			return []int{st.Index + 1}
		}
		return nil
	}
	return st.Succs
}

// methodCFG returns the statement-level control flow graph of m. Node ids are body indices.
func (a *Arena) methodCFG(m *Method) *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	for i := range m.Body {
		g.AddNode(simple.Node(i))
	}
	for _, id := range m.Body {
		st := &a.stmts[id]
		for _, succ := range successors(st, len(m.Body)) {
			// self loops do not change dominance, and simple graphs do not accept them
			if succ != st.Index {
				g.SetEdge(simple.Edge{F: simple.Node(st.Index), T: simple.Node(succ)})
			}
		}
	}
	return g
}

// computeDominators computes the dominator lists of all the statements of m. The entry of the method is its first
// statement.
func (a *Arena) computeDominators(m *Method) {
	if len(m.Body) == 0 {
		return
	}
	tree := flow.Dominators(simple.Node(0), a.methodCFG(m))
	for i, id := range m.Body {
		var chain []StmtID
		if i == 0 {
			chain = []StmtID{id}
		} else {
			idom := tree.DominatorOf(int64(i))
			if idom == nil {
				// unreachable from the entry
				continue
			}
			chain = []StmtID{id}
			for n := idom; n != nil; n = tree.DominatorOf(n.ID()) {
				chain = append(chain, m.Body[n.ID()])
			}
		}
		// entry first
		funcutil.Reverse(chain)
		a.dominators[id] = chain
	}
}
