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
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/dave/dst/decorator"
	"github.com/mc-imperial/atomizer/analysis/config"
)

// testLogger returns a log group that only prints errors, to keep test
// output readable.
func testLogger() *config.LogGroup {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	return config.NewLogGroup(cfg)
}

// parseUnit parses, type checks and decorates a single-file translation
// unit given as source text. The sources used in tests are import-free so
// that no importer is needed.
func parseUnit(t *testing.T, src string) *Unit {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "input.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("failed to parse source: %v", err)
	}
	info := &types.Info{
		Types:      map[ast.Expr]types.TypeAndValue{},
		Defs:       map[*ast.Ident]types.Object{},
		Uses:       map[*ast.Ident]types.Object{},
		Selections: map[*ast.SelectorExpr]*types.Selection{},
		Implicits:  map[ast.Node]types.Object{},
		Scopes:     map[ast.Node]*types.Scope{},
	}
	conf := types.Config{}
	if _, err := conf.Check("p", fset, []*ast.File{file}, info); err != nil {
		t.Fatalf("failed to type check source: %v", err)
	}
	dec := decorator.NewDecorator(fset)
	if _, err := dec.DecorateFile(file); err != nil {
		t.Fatalf("failed to decorate source: %v", err)
	}
	return &Unit{
		Fset:        fset,
		Files:       []*ast.File{file},
		Info:        info,
		Dec:         dec,
		Primary:     file,
		PrimaryPath: "input.go",
	}
}

func buildGraph(t *testing.T, src string) (*Unit, *EquivalenceGraph) {
	t.Helper()
	unit := parseUnit(t, src)
	g, err := BuildEquivalences(unit, testLogger())
	if err != nil {
		t.Fatalf("failed to build equivalences: %v", err)
	}
	return unit, g
}

func declNamed(t *testing.T, g *EquivalenceGraph, name string) *Decl {
	t.Helper()
	for _, d := range g.Decls() {
		if d.Name() == name {
			return d
		}
	}
	t.Fatalf("no declaration named %s", name)
	return nil
}

func hasEdge(g *EquivalenceGraph, from, to DWI) bool {
	for _, e := range g.Edges(from.Decl, from.Level) {
		if e == to {
			return true
		}
	}
	return false
}

// checkEdge asserts the symmetric edge a ~ b is present, in both directions.
func checkEdge(t *testing.T, g *EquivalenceGraph, a, b DWI) {
	t.Helper()
	if !hasEdge(g, a, b) {
		t.Errorf("missing edge %s ~ %s", a, b)
	}
	if !hasEdge(g, b, a) {
		t.Errorf("missing reverse edge %s ~ %s", b, a)
	}
}

// syntheticDecls interns one fresh integer variable per name, for tests that
// exercise the graph and propagation without a parsed unit.
func syntheticDecls(g *EquivalenceGraph, names ...string) map[string]*Decl {
	decls := map[string]*Decl{}
	for _, name := range names {
		decls[name] = g.Intern(types.NewVar(token.NoPos, nil, name, types.Typ[types.Int]))
	}
	return decls
}

// newUpgrades builds an upgrade set directly, for rewriter tests.
func newUpgrades(pairs ...DWI) *UpgradeSet {
	up := &UpgradeSet{levels: map[*Decl]int{}, clamped: map[*Decl]bool{}}
	for _, p := range pairs {
		up.assign(p.Decl, p.Level, false)
	}
	return up
}
