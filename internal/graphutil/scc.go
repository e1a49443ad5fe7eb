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

package graphutil

import "golang.org/x/exp/slices"

// tarjan holds the state of Tarjan's strongly connected component algorithm
type tarjan[T comparable] struct {
	successors func(T) []T
	stack      []T
	onStack    map[T]bool
	index      map[T]int
	lowlink    map[T]int
	next       int
	sccs       [][]T
}

func (t *tarjan[T]) visit(v T) {
	t.index[v] = t.next
	t.lowlink[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true
	for _, w := range t.successors(v) {
		if _, visited := t.index[w]; !visited {
			t.visit(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.index[w])
		}
	}
	if t.lowlink[v] != t.index[v] {
		return
	}
	var scc []T
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	t.sccs = append(t.sccs, scc)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// StronglyConnectedComponents is an implementation of Tarjan's strongly connected component (SCC) algorithm
// for generic nodes T.
// Successors returns a slice containing the targets of directed edges out from the given node.
// The order within an SCC is arbitrary. SCCs are toposorted so that successors appear first: callees come before
// their callers.
func StronglyConnectedComponents[T comparable](nodes []T, successors func(T) []T) [][]T {
	t := &tarjan[T]{
		successors: successors,
		onStack:    map[T]bool{},
		index:      map[T]int{},
		lowlink:    map[T]int{},
	}
	for _, v := range nodes {
		if _, visited := t.index[v]; !visited {
			t.visit(v)
		}
	}
	return t.sccs
}

// RecursiveComponents returns the strongly connected components of the method call graph that contain a cycle,
// callees first. The methods of a component are sorted.
func RecursiveComponents(cg CGraph) [][]int64 {
	var res [][]int64
	for _, scc := range StronglyConnectedComponents(cg.Keys, cg.successors) {
		if len(scc) == 1 && !cg.Edges[scc[0]][scc[0]] {
			continue
		}
		slices.Sort(scc)
		res = append(res, scc)
	}
	return res
}
