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

package atomic

import (
	"go/types"

	"github.com/mc-imperial/atomizer/internal/funcutil"
	"github.com/mc-imperial/atomizer/internal/graphutil"
	"golang.org/x/exp/slices"
)

// EquivalenceGraph is the persistent result of the equivalence builder: for
// each declaration, a mapping from indirection level to the set of
// (declaration, level) pairs known to co-vary with it. Edges are always
// inserted symmetrically and insertion is idempotent.
//
// The graph is also the arena of declaration handles: every declaration
// observed during a traversal is interned exactly once and owns a row, even
// when that row stays empty.
type EquivalenceGraph struct {
	decls []*Decl
	byObj map[types.Object]*Decl
	rows  map[*Decl]map[int]map[DWI]bool
}

// NewEquivalenceGraph returns an empty graph.
func NewEquivalenceGraph() *EquivalenceGraph {
	return &EquivalenceGraph{
		byObj: map[types.Object]*Decl{},
		rows:  map[*Decl]map[int]map[DWI]bool{},
	}
}

// Intern returns the handle for obj, creating it (and its empty row) on
// first observation.
func (g *EquivalenceGraph) Intern(obj types.Object) *Decl {
	if d, ok := g.byObj[obj]; ok {
		return d
	}
	d := &Decl{
		id:   len(g.decls),
		obj:  obj,
		name: obj.Name(),
		pos:  obj.Pos(),
	}
	g.decls = append(g.decls, d)
	g.byObj[obj] = d
	g.rows[d] = map[int]map[DWI]bool{}
	return d
}

// Lookup returns the handle for obj, or nil if obj was never observed.
func (g *EquivalenceGraph) Lookup(obj types.Object) *Decl {
	return g.byObj[obj]
}

// Decls returns all interned declarations in observation order.
func (g *EquivalenceGraph) Decls() []*Decl {
	return g.decls
}

// AddEquivalence inserts the symmetric edge a ~ b. Inserting an edge twice
// has no effect.
func (g *EquivalenceGraph) AddEquivalence(a, b DWI) {
	g.insertOneWay(a, b)
	g.insertOneWay(b, a)
}

func (g *EquivalenceGraph) insertOneWay(from, to DWI) {
	row := g.rows[from.Decl]
	if row[from.Level] == nil {
		row[from.Level] = map[DWI]bool{}
	}
	row[from.Level][to] = true
}

// Levels returns the indirection levels of d's row that have at least one
// edge, in increasing order.
func (g *EquivalenceGraph) Levels(d *Decl) []int {
	return funcutil.SortedKeys(g.rows[d])
}

// Edges returns the DWIs connected to (d, level), ordered by declaration
// index and then by level, so iteration is deterministic.
func (g *EquivalenceGraph) Edges(d *Decl, level int) []DWI {
	set := g.rows[d][level]
	edges := make([]DWI, 0, len(set))
	for e := range set {
		edges = append(edges, e)
	}
	slices.SortFunc(edges, func(a, b DWI) bool {
		if a.Decl.id != b.Decl.id {
			return a.Decl.id < b.Decl.id
		}
		return a.Level < b.Level
	})
	return edges
}

// Size returns the number of directed edges stored in the graph. Symmetric
// pairs count twice.
func (g *EquivalenceGraph) Size() int {
	n := 0
	for _, row := range g.rows {
		for _, set := range row {
			n += len(set)
		}
	}
	return n
}

// DeclGraph projects the level-indexed equivalence relation down to a plain
// directed graph over declaration indices, for diagnostic statistics. Since
// equivalence edges are symmetric the projection is symmetric too.
func (g *EquivalenceGraph) DeclGraph() *graphutil.DGraph {
	dg := graphutil.NewDGraph(len(g.decls))
	for _, d := range g.decls {
		for _, row := range g.rows[d] {
			for e := range row {
				dg.AddEdge(int64(d.id), int64(e.Decl.id))
			}
		}
	}
	return dg
}
