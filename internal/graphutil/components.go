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

package graphutil

import (
	"sort"

	"github.com/yourbasic/graph"
)

// Stats summarizes a graph for diagnostic output.
type Stats struct {
	// Size is the number of edges in the graph
	Size int

	// Isolated is the number of nodes with no incident edges
	Isolated int

	// Components is the number of strongly connected components. On a
	// symmetric graph these coincide with the connected components.
	Components int
}

// Check computes diagnostic statistics for the graph.
func Check(g *DGraph) Stats {
	stats := graph.Check(g)
	return Stats{
		Size:       stats.Size,
		Isolated:   stats.Isolated,
		Components: len(Components(g)),
	}
}

// Components partitions the graph's nodes into strongly connected
// components. Each component is sorted, and components are ordered by their
// smallest member, so the result is deterministic.
func Components(g *DGraph) [][]int {
	components := graph.StrongComponents(g)
	for _, component := range components {
		sort.Ints(component)
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i][0] < components[j][0]
	})
	return components
}
