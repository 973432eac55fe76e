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
	"errors"
	"testing"
)

func TestBuilderAssignmentAndComparison(t *testing.T) {
	_, g := buildGraph(t, `package p

func f() bool {
	x := 5
	y := x
	return x == y
}
`)
	x := declNamed(t, g, "x")
	y := declNamed(t, g, "y")
	checkEdge(t, g, DWI{y, 0}, DWI{x, 0})
	checkEdge(t, g, DWI{x, 0}, DWI{y, 0})
}

func TestBuilderAddressOfAndDereference(t *testing.T) {
	_, g := buildGraph(t, `package p

func f() {
	var x int
	var p *int
	p = &x
	*p = x
}
`)
	x := declNamed(t, g, "x")
	p := declNamed(t, g, "p")
	checkEdge(t, g, DWI{p, 0}, DWI{x, -1})
	checkEdge(t, g, DWI{p, 1}, DWI{x, 0})
}

func TestBuilderIndexing(t *testing.T) {
	_, g := buildGraph(t, `package p

func f(a []int, i int, x int) {
	a[i] = x
}
`)
	a := declNamed(t, g, "a")
	x := declNamed(t, g, "x")
	checkEdge(t, g, DWI{a, 1}, DWI{x, 0})
}

func TestBuilderFieldAccess(t *testing.T) {
	_, g := buildGraph(t, `package p

type object struct {
	count int
	limit int
}

func f(o object, n int) int {
	o.count = n
	return o.count
}
`)
	count := declNamed(t, g, "count")
	limit := declNamed(t, g, "limit")
	n := declNamed(t, g, "n")
	f := declNamed(t, g, "f")
	checkEdge(t, g, DWI{count, 0}, DWI{n, 0})
	checkEdge(t, g, DWI{f, 0}, DWI{count, 0})
	if levels := g.Levels(limit); len(levels) != 0 {
		t.Errorf("field limit was never assigned but has edges at levels %v", levels)
	}
}

func TestBuilderCallsRelateArgumentsToParameters(t *testing.T) {
	_, g := buildGraph(t, `package p

func id(q int) int {
	return q
}

func g(x int) int {
	y := id(x)
	return y
}
`)
	id := declNamed(t, g, "id")
	q := declNamed(t, g, "q")
	x := declNamed(t, g, "x")
	y := declNamed(t, g, "y")
	fn := declNamed(t, g, "g")
	checkEdge(t, g, DWI{q, 0}, DWI{x, 0})
	checkEdge(t, g, DWI{id, 0}, DWI{q, 0})
	checkEdge(t, g, DWI{y, 0}, DWI{id, 0})
	checkEdge(t, g, DWI{fn, 0}, DWI{y, 0})
}

func TestBuilderVariadicArgumentsLandInsideTheParameter(t *testing.T) {
	_, g := buildGraph(t, `package p

func sum(vals ...int) int {
	total := 0
	for _, v := range vals {
		total += v
	}
	return total
}

func h(x int) int {
	return sum(x)
}
`)
	vals := declNamed(t, g, "vals")
	x := declNamed(t, g, "x")
	v := declNamed(t, g, "v")
	checkEdge(t, g, DWI{vals, 1}, DWI{x, 0})
	checkEdge(t, g, DWI{v, 0}, DWI{vals, 1})
}

func TestBuilderConversionPassesAliasesThrough(t *testing.T) {
	_, g := buildGraph(t, `package p

type count int

func f(x int) count {
	return count(x)
}
`)
	f := declNamed(t, g, "f")
	x := declNamed(t, g, "x")
	checkEdge(t, g, DWI{f, 0}, DWI{x, 0})
}

func TestBuilderCompositeLiterals(t *testing.T) {
	_, g := buildGraph(t, `package p

type pair struct {
	first  int
	second int
}

var x = 5
var s = pair{x, 2}
var keyed = pair{second: x}
var xs = []int{x}
`)
	x := declNamed(t, g, "x")
	first := declNamed(t, g, "first")
	second := declNamed(t, g, "second")
	xs := declNamed(t, g, "xs")
	checkEdge(t, g, DWI{first, 0}, DWI{x, 0})
	checkEdge(t, g, DWI{second, 0}, DWI{x, 0})
	checkEdge(t, g, DWI{xs, 1}, DWI{x, 0})
}

func TestBuilderRejectsMapLiterals(t *testing.T) {
	unit := parseUnit(t, `package p

var m = map[string]int{"a": 1}
`)
	_, err := BuildEquivalences(unit, testLogger())
	if !errors.Is(err, ErrUnsupportedInput) {
		t.Fatalf("expected an unsupported input error, got %v", err)
	}
}

func TestBuilderCoversEveryDeclaration(t *testing.T) {
	_, g := buildGraph(t, `package p

type object struct {
	count int
}

var unused int

func f(a int, b int) int {
	c := a
	return c + b
}
`)
	for _, name := range []string{"count", "unused", "f", "a", "b", "c"} {
		declNamed(t, g, name)
	}
}
