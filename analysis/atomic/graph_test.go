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
	"testing"

	"github.com/mc-imperial/atomizer/internal/graphutil"
)

func TestAddEquivalenceIsSymmetric(t *testing.T) {
	g := NewEquivalenceGraph()
	d := syntheticDecls(g, "a", "b")
	g.AddEquivalence(DWI{d["a"], 0}, DWI{d["b"], 1})
	checkEdge(t, g, DWI{d["a"], 0}, DWI{d["b"], 1})
}

func TestAddEquivalenceIsIdempotent(t *testing.T) {
	g := NewEquivalenceGraph()
	d := syntheticDecls(g, "a", "b")
	g.AddEquivalence(DWI{d["a"], 0}, DWI{d["b"], 1})
	if n := g.Size(); n != 2 {
		t.Fatalf("expected 2 directed edges, got %d", n)
	}
	g.AddEquivalence(DWI{d["a"], 0}, DWI{d["b"], 1})
	g.AddEquivalence(DWI{d["b"], 1}, DWI{d["a"], 0})
	if n := g.Size(); n != 2 {
		t.Errorf("re-inserting an edge changed the size to %d", n)
	}
}

func TestInternIsStable(t *testing.T) {
	g := NewEquivalenceGraph()
	d := syntheticDecls(g, "a")
	if g.Intern(d["a"].Obj()) != d["a"] {
		t.Errorf("interning the same object twice returned two handles")
	}
	if g.Lookup(d["a"].Obj()) != d["a"] {
		t.Errorf("lookup did not return the interned handle")
	}
}

func TestEveryDeclOwnsARow(t *testing.T) {
	g := NewEquivalenceGraph()
	d := syntheticDecls(g, "a", "b", "isolated")
	g.AddEquivalence(DWI{d["a"], 0}, DWI{d["b"], 0})
	if len(g.Decls()) != 3 {
		t.Fatalf("expected 3 declarations, got %d", len(g.Decls()))
	}
	if levels := g.Levels(d["isolated"]); len(levels) != 0 {
		t.Errorf("isolated declaration has levels %v", levels)
	}
}

func TestEdgesAreOrdered(t *testing.T) {
	g := NewEquivalenceGraph()
	d := syntheticDecls(g, "a", "b", "c")
	g.AddEquivalence(DWI{d["a"], 0}, DWI{d["c"], 2})
	g.AddEquivalence(DWI{d["a"], 0}, DWI{d["b"], 0})
	g.AddEquivalence(DWI{d["a"], 0}, DWI{d["c"], 1})
	want := []DWI{{d["b"], 0}, {d["c"], 1}, {d["c"], 2}}
	got := g.Edges(d["a"], 0)
	if len(got) != len(want) {
		t.Fatalf("expected %d edges, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestDeclGraphStats(t *testing.T) {
	g := NewEquivalenceGraph()
	d := syntheticDecls(g, "a", "b", "c")
	g.AddEquivalence(DWI{d["a"], 0}, DWI{d["b"], 0})
	stats := graphutil.Check(g.DeclGraph())
	if stats.Size != 2 {
		t.Errorf("expected 2 directed edges in the projection, got %d", stats.Size)
	}
	if stats.Isolated != 1 {
		t.Errorf("expected 1 isolated node, got %d", stats.Isolated)
	}
	if stats.Components != 2 {
		t.Errorf("expected 2 components, got %d", stats.Components)
	}
}
