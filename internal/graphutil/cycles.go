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

import (
	"sort"

	"github.com/yourbasic/graph"
	"golang.org/x/exp/slices"
)

// FindAllElementaryCycles finds all elementary cycles in the graph CGraph. Each cycle starts and ends with its least
// node.
// This uses Donald B. Johnson's algorithm presented in
// "Finding All The Elementary Circuits of a Directed Graph", 1975
//
//	cg : the graph with cycles
func FindAllElementaryCycles(cg CGraph) [][]int64 {
	s := &state{}
	i := 0
	for i < len(cg.Keys) {
		sub := Subgraph(cg, cg.Keys[i:])
		start, component, ok := leastCyclicComponent(sub)
		if !ok {
			break
		}
		s.reset()
		s.circuit(start, start, Subgraph(sub, component))
		i = sort.Search(len(cg.Keys), func(j int) bool { return cg.Keys[j] > start })
	}
	return s.cycles
}

// leastCyclicComponent returns the strongly connected component of g containing a cycle and its least node, with
// that node. A single node is cyclic when it has an edge to itself.
func leastCyclicComponent(g CGraph) (int64, []int64, bool) {
	var best []int64
	var bestNode int64
	for _, component := range graph.StrongComponents(g) {
		if len(component) == 0 {
			continue
		}
		if _, in := g.IDMap[int64(component[0])]; !in {
			continue
		}
		if len(component) == 1 && !g.Edges[int64(component[0])][int64(component[0])] {
			continue
		}
		nodes := make([]int64, len(component))
		for j, n := range component {
			nodes[j] = int64(n)
		}
		slices.Sort(nodes)
		if best == nil || nodes[0] < bestNode {
			best = nodes
			bestNode = nodes[0]
		}
	}
	return bestNode, best, best != nil
}

type state struct {
	blocked map[int64]bool
	blist   map[int64]map[int64]bool
	stack   []int64
	cycles  [][]int64
}

func (s *state) reset() {
	s.blocked = map[int64]bool{}
	s.blist = map[int64]map[int64]bool{}
	s.stack = []int64{}
}

func (s *state) unblock(u int64) {
	s.blocked[u] = false
	for w := range s.blist[u] {
		delete(s.blist[u], w)
		if s.blocked[w] {
			s.unblock(w)
		}
	}
}

func (s *state) circuit(v int64, start int64, g CGraph) bool {
	found := false
	s.stack = append(s.stack, v)
	s.blocked[v] = true
	for _, w := range g.successors(v) {
		if w == start {
			cycle := make([]int64, len(s.stack), len(s.stack)+1)
			copy(cycle, s.stack)
			s.cycles = append(s.cycles, append(cycle, w))
			found = true
		} else if !s.blocked[w] {
			if s.circuit(w, start, g) {
				found = true
			}
		}
	}

	if found {
		s.unblock(v)
	} else {
		for _, w := range g.successors(v) {
			if s.blist[w] == nil {
				s.blist[w] = map[int64]bool{}
			}
			s.blist[w][v] = true
		}
	}
	s.stack = s.stack[:len(s.stack)-1]
	return found
}
