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

	"github.com/mc-imperial/atomizer/analysis/config"
)

// UpgradeSet is the output of propagation: the minimal consistent set of
// declarations that must receive the qualifier, each at exactly one
// indirection level, in discovery order.
type UpgradeSet struct {
	levels map[*Decl]int

	// clamped marks declarations whose level was reached through an
	// address-of edge and normalized to the base storage. Their assignments
	// are weaker than directly derived ones; see Propagate.
	clamped map[*Decl]bool

	order []*Decl
}

// Level returns the required indirection level assigned to d, if any.
func (u *UpgradeSet) Level(d *Decl) (int, bool) {
	level, ok := u.levels[d]
	return level, ok
}

// Decls returns the upgraded declarations in the order propagation
// discovered them. The seed comes first.
func (u *UpgradeSet) Decls() []*Decl {
	return u.order
}

// Len returns the number of upgraded declarations.
func (u *UpgradeSet) Len() int {
	return len(u.order)
}

func (u *UpgradeSet) assign(d *Decl, level int, clamped bool) {
	u.levels[d] = level
	if clamped {
		u.clamped[d] = true
	}
	u.order = append(u.order, d)
}

// Propagate computes the upgrade set reachable from seed with a
// breadth-first worklist over the equivalence graph. Each declaration is
// enqueued at most once, which guarantees termination.
//
// For the worklist item (D, L) and a row entry at level E, the reconciled
// level L−E tells how deep inside the entry's indirection the upgrade sits;
// entries with a negative reconciled level cannot transmit the requirement.
// An eligible edge (D2, L2) requires D2 at level L + (L2 − E). A negative
// requirement means the upgrade crossed an address-of edge down to D2's base
// storage: it is normalized to level 0 and recorded, and conflicting
// re-derivations along such weakened paths are tolerated. Any other
// conflicting level assignment is an internal consistency violation.
func Propagate(g *EquivalenceGraph, seed *Decl, log *config.LogGroup) (*UpgradeSet, error) {
	up := &UpgradeSet{
		levels:  map[*Decl]int{},
		clamped: map[*Decl]bool{},
	}
	up.assign(seed, 0, false)
	worklist := []DWI{{seed, 0}}
	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]
		log.Debugf("propagating upgrade %s %d", cur.Decl.Name(), cur.Level)
		for _, entry := range g.Levels(cur.Decl) {
			reconciled := cur.Level - entry
			if reconciled < 0 {
				continue
			}
			for _, edge := range g.Edges(cur.Decl, entry) {
				required := cur.Level + (edge.Level - entry)
				clamped := up.clamped[cur.Decl]
				if required < 0 {
					required = 0
					clamped = true
				}
				if have, ok := up.Level(edge.Decl); ok {
					if have != required && !clamped && !up.clamped[edge.Decl] {
						return nil, fmt.Errorf("%w: %s requires indirection level %d but was already assigned %d",
							ErrInconsistent, edge.Decl.Name(), required, have)
					}
					continue
				}
				up.assign(edge.Decl, required, clamped)
				worklist = append(worklist, DWI{edge.Decl, required})
			}
		}
	}
	return up, nil
}
