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
	"math/rand"
)

// SelectSeed picks the declaration the upgrade starts from. A non-empty
// name selects the first declaration with that name, in observation order.
// Otherwise a declaration located in the unit's primary file is drawn
// uniformly at random from rng; the generator is supplied by the caller so
// runs are reproducible given the same seed value.
func SelectSeed(g *EquivalenceGraph, unit *Unit, name string, rng *rand.Rand) (*Decl, error) {
	decls := g.Decls()
	if len(decls) == 0 {
		return nil, fmt.Errorf("the translation unit contains no declarations")
	}
	if name != "" {
		for _, d := range decls {
			if d.Name() == name {
				return d, nil
			}
		}
		return nil, fmt.Errorf("did not find a declaration named %s", name)
	}

	anyPrimary := false
	for _, d := range decls {
		if unit.IsPrimary(d.Pos()) {
			anyPrimary = true
			break
		}
	}
	if !anyPrimary {
		return nil, fmt.Errorf("the primary file %s contains no declarations", unit.PrimaryPath)
	}
	// Draw until a primary-file declaration comes up, as many times as it
	// takes. The number of draws consumed is part of the reproducible
	// behavior for a given seed.
	for {
		d := decls[rng.Intn(len(decls))]
		if unit.IsPrimary(d.Pos()) {
			return d, nil
		}
	}
}
