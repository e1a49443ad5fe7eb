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

// Package graphutil adapts the method call graph of a program model to the graph libraries, and implements the
// graph algorithms the tools need on top of them.
package graphutil

import (
	"sort"

	"github.com/dong-li-awx/revdroid/analysis/program"
	"gonum.org/v1/gonum/graph"
)

// CGraph is an abstraction over the method call graph of a program model to work with existing graph libraries.
// It implements the methods to satisfy yourbasic's graph.Iterator and Gonum's graph.Directed. Node ids are method ids.
type CGraph struct {
	// The order of the graph, the number of methods of the model
	order int

	// The model the CGraph was constructed from
	Model *program.Arena

	// IDMap maps from node IDs to CNodes
	IDMap map[int64]CNode

	// Keys are all the node IDs, sorted
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means some statement of method x calls method y
	Edges map[int64]map[int64]bool
}

var _ graph.Directed = CGraph{}

// NewCallgraphIterator returns the method call graph of the model. Every method of the model is a node.
func NewCallgraphIterator(a *program.Arena) CGraph {
	n := a.NumMethods()
	idmap := make(map[int64]CNode, n)
	edges := make(map[int64]map[int64]bool, n)
	keys := make([]int64, n)
	for i, m := range a.Methods() {
		id := int64(m)
		keys[i] = id
		idmap[id] = CNode{MethodID: m, Method: a.Method(m)}
		edges[id] = map[int64]bool{}
		for _, s := range a.CallSites(m) {
			for _, callee := range a.Callees(s) {
				edges[id][int64(callee)] = true
			}
		}
	}

	return CGraph{
		order: n,
		Model: a,
		IDMap: idmap,
		Edges: edges,
		Keys:  keys,
	}
}

// Subgraph returns a new graph that is the original graph with only the nodes in include. Only the edges that have
// both the origin and destination nodes in the include nodes are kept in the resulting graph.
// The subgraph's order and Model are the same as in origin, meaning that node indices will stay consistent
// across subgraphs.
func Subgraph(original CGraph, include []int64) CGraph {
	idmap := make(map[int64]CNode, len(include))
	edges := make(map[int64]map[int64]bool, len(include))
	keys := make([]int64, len(include))

	for j, i := range include {
		keys[j] = i
		idmap[i] = original.IDMap[i]
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if _, ok := idmap[e]; ok {
				edges[i][e] = true
			}
		}
	}

	return CGraph{
		order: original.Order(),
		Model: original.Model,
		IDMap: idmap,
		Edges: edges,
		Keys:  keys,
	}
}

// Order implements the order of the graph.Iterator interface for the CGraph
func (c CGraph) Order() int {
	return c.order
}

// Visit implements the graph.Iterator interface for the CGraph. Successors are visited in increasing order.
func (c CGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	if _, ok := c.IDMap[int64(v)]; !ok {
		return false
	}
	for _, w := range c.successors(int64(v)) {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// successors returns the sorted successors of v
func (c CGraph) successors(v int64) []int64 {
	succs := make([]int64, 0, len(c.Edges[v]))
	for w := range c.Edges[v] {
		succs = append(succs, w)
	}
	sort.Slice(succs, func(i, j int) bool { return succs[i] < succs[j] })
	return succs
}

// *************** Graph interface implementation **********************

// Node implements the Graph interface
func (c CGraph) Node(v int64) graph.Node {
	n, ok := c.IDMap[v]
	if !ok {
		return nil
	}
	return n
}

// Nodes returns the set of nodes in the graph
func (c CGraph) Nodes() graph.Nodes {
	return newNodeSet(c.IDMap, c.Keys)
}

// From returns the set of nodes called by the node with id
func (c CGraph) From(id int64) graph.Nodes {
	return newNodeSet(c.IDMap, c.successors(id))
}

// To returns the set of nodes calling the node with id
func (c CGraph) To(id int64) graph.Nodes {
	var keys []int64
	for _, k := range c.Keys {
		if c.Edges[k][id] {
			keys = append(keys, k)
		}
	}
	return newNodeSet(c.IDMap, keys)
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (c CGraph) HasEdgeBetween(xid, yid int64) bool {
	return c.Edges[xid][yid] || c.Edges[yid][xid]
}

// HasEdgeFromTo returns whether the method uid calls the method vid
func (c CGraph) HasEdgeFromTo(uid, vid int64) bool {
	return c.Edges[uid][vid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (c CGraph) Edge(uid, vid int64) graph.Edge {
	if c.Edges[uid][vid] {
		return CEdge{from: c.IDMap[uid], to: c.IDMap[vid]}
	}
	return nil
}

// *************** Nodes implementation **********************

// CNode is a method of the model that implements the graph.Node interface
type CNode struct {
	MethodID program.MethodID
	Method   *program.Method
}

// ID returns the id of the node
func (n CNode) ID() int64 {
	return int64(n.MethodID)
}

func (n CNode) String() string {
	if n.Method == nil {
		return ""
	}
	return n.Method.Sig.Key()
}

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	// nodes is the set of nodes in the iterator
	nodes map[int64]CNode

	// ids is the set of node ids in the iterator
	ids []int64

	// cur is the current index of the iterator. The current node is nodes[ids[cur]]
	// invariant: -1 <= cur < len(ids), and cur is -1 before the first call to Next
	cur int
}

func newNodeSet(nodes map[int64]CNode, ids []int64) *NodeSet {
	return &NodeSet{nodes: nodes, ids: ids, cur: -1}
}

// Next moves the current node to the next, and returns true if such a node exists. Otherwise, returns false
// and the current node has not changed.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the number of nodes remaining in the iterator
func (ns *NodeSet) Len() int {
	return len(ns.ids) - ns.cur - 1
}

// Reset returns the iterator to its start
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node return the current node in the set
func (ns *NodeSet) Node() graph.Node {
	if ns.cur < 0 || ns.cur >= len(ns.ids) {
		return nil
	}
	return ns.nodes[ns.ids[ns.cur]]
}

// *************** Edge implementation **********************

// CEdge implements the graph.Edge interface
type CEdge struct {
	from CNode
	to   CNode
}

// From returns the origin of the edge
func (e CEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e CEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e CEdge) ReversedEdge() graph.Edge {
	return CEdge{from: e.to, to: e.from}
}
