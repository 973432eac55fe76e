// Copyright the atomizer authors. All Rights Reserved.
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

// Package graphutil adapts adjacency-set graphs to the yourbasic/graph
// iterator and the gonum graph interfaces, so that existing graph algorithms
// can run over analysis results.
package graphutil

import (
	"sort"

	"gonum.org/v1/gonum/graph"
)

// DGraph is a directed graph over dense integer node identifiers
// [0, order). It implements the yourbasic graph.Iterator interface and
// Gonum's graph.Graph interface.
type DGraph struct {
	// The order of the graph
	order int

	// Keys are all the node IDs, in increasing order
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed
	// edge between x and y
	Edges map[int64]map[int64]bool
}

// NewDGraph returns a graph of the given order with no edges.
func NewDGraph(order int) *DGraph {
	keys := make([]int64, order)
	edges := make(map[int64]map[int64]bool, order)
	for i := 0; i < order; i++ {
		keys[i] = int64(i)
		edges[int64(i)] = map[int64]bool{}
	}
	return &DGraph{order: order, Keys: keys, Edges: edges}
}

// AddEdge inserts the directed edge (x, y). Inserting the same edge twice
// has no effect.
func (c *DGraph) AddEdge(x, y int64) {
	c.Edges[x][y] = true
}

// Order implements the order of the graph.Iterator interface for the DGraph
func (c *DGraph) Order() int {
	return c.order
}

// Visit implements the graph.Iterator interface for the DGraph
func (c *DGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	outs := make([]int64, 0, len(c.Edges[int64(v)]))
	for w := range c.Edges[int64(v)] {
		outs = append(outs, w)
	}
	sort.Slice(outs, func(i, j int) bool { return outs[i] < outs[j] })
	for _, w := range outs {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** Graph interface implementation **********************

// Node implements the Graph interface
func (c *DGraph) Node(v int64) graph.Node {
	if v < 0 || v >= int64(c.order) {
		return nil
	}
	return DNode(v)
}

// Nodes returns the set of nodes in the graph
func (c *DGraph) Nodes() graph.Nodes {
	ids := make([]int64, len(c.Keys))
	copy(ids, c.Keys)
	return &NodeSet{ids: ids, cur: 0}
}

// From returns the set of nodes reachable from the id
func (c *DGraph) From(id int64) graph.Nodes {
	var ids []int64
	for out := range c.Edges[id] {
		ids = append(ids, out)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return &NodeSet{ids: ids, cur: 0}
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between
// the two node identifiers
func (c *DGraph) HasEdgeBetween(xid, yid int64) bool {
	return c.Edges[xid][yid] || c.Edges[yid][xid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (c *DGraph) Edge(uid, vid int64) graph.Edge {
	if c.Edges[uid][vid] {
		return DEdge{from: DNode(uid), to: DNode(vid)}
	}
	return nil
}

// *************** Nodes implementation **********************

// DNode is an integer node identifier that implements the graph.Node interface
type DNode int64

// ID returns the id of the node
func (n DNode) ID() int64 {
	return int64(n)
}

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	// ids is the set of node ids in the iterator
	ids []int64

	// cur is the current index of the iterator.
	// invariant: 0 <= cur < len(ids)
	cur int
}

// Next moves the current node to the next, and returns true if such a node
// exists. Otherwise, returns false and the current node has not changed.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the length of the node set
func (ns *NodeSet) Len() int {
	return len(ns.ids)
}

// Reset resets the id of the current node in the set
func (ns *NodeSet) Reset() {
	ns.cur = 0
}

// Node returns the current node in the set
func (ns *NodeSet) Node() graph.Node {
	if ns.cur >= len(ns.ids) {
		return nil
	}
	return DNode(ns.ids[ns.cur])
}

// *************** Edge implementation **********************

// DEdge implements the graph.Edge interface
type DEdge struct {
	from DNode
	to   DNode
}

// From returns the origin of the edge
func (e DEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e DEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e DEdge) ReversedEdge() graph.Edge {
	return DEdge{from: e.to, to: e.from}
}
