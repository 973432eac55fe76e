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
	"fmt"
	"io"
	"math/rand"

	"github.com/dave/dst/decorator"
	"github.com/mc-imperial/atomizer/analysis/config"
	"github.com/mc-imperial/atomizer/internal/funcutil"
	"github.com/mc-imperial/atomizer/internal/graphutil"
)

// Result holds everything one analysis run produced. The rewritten primary
// file is not written anywhere until Render is called: there is no partial
// success, output exists only once the whole pipeline has succeeded.
type Result struct {
	Unit     *Unit
	Graph    *EquivalenceGraph
	Seed     *Decl
	Upgrades *UpgradeSet
}

// Analyze runs the full pipeline on one translation unit: build the
// equivalence graph, select the seed declaration, propagate the upgrade,
// and attach the qualifier decorations. rng is only consumed when the
// config names no seed declaration.
func Analyze(cfg *config.Config, unit *Unit, rng *rand.Rand, log *config.LogGroup) (*Result, error) {
	graph, err := BuildEquivalences(unit, log)
	if err != nil {
		return nil, err
	}
	logGraph(graph, log)

	seed, err := SelectSeed(graph, unit, cfg.DeclName, rng)
	if err != nil {
		return nil, err
	}
	log.Infof("initially upgrading %s", seed.Name())

	upgrades, err := Propagate(graph, seed, log)
	if err != nil {
		return nil, err
	}
	upgraded := funcutil.Map(upgrades.Decls(), func(d *Decl) DWI {
		level, _ := upgrades.Level(d)
		return DWI{d, level}
	})
	log.Infof("upgrades: %v", upgraded)

	if err := Rewrite(unit, upgrades, cfg.Qualifier, log); err != nil {
		return nil, err
	}
	return &Result{
		Unit:     unit,
		Graph:    graph,
		Seed:     seed,
		Upgrades: upgrades,
	}, nil
}

// logGraph dumps the declarations and equivalence edges found by the
// builder, in observation order, plus equivalence-class statistics.
func logGraph(graph *EquivalenceGraph, log *config.LogGroup) {
	if !log.LogsDebug() {
		return
	}
	for _, d := range graph.Decls() {
		log.Debugf("%s", d.Name())
		for _, level := range graph.Levels(d) {
			for _, edge := range graph.Edges(d, level) {
				log.Debugf("   %s ~ %s", DWI{d, level}, edge)
			}
		}
	}
	stats := graphutil.Check(graph.DeclGraph())
	log.Debugf("%d declarations, %d equivalence edges, %d classes, %d isolated",
		len(graph.Decls()), stats.Size, stats.Components, stats.Isolated)
}

// Render prints the rewritten primary file to w.
func (r *Result) Render(w io.Writer) error {
	file, err := r.Unit.PrimaryDst()
	if err != nil {
		return err
	}
	if err := decorator.Fprint(w, file); err != nil {
		return fmt.Errorf("failed to print rewritten unit: %w", err)
	}
	return nil
}
