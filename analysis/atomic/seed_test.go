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
	"math/rand"
	"strings"
	"testing"
)

const seedTestSrc = `package p

var x = 1
var y = 2
var z = 3
`

func TestSelectSeedByName(t *testing.T) {
	unit, g := buildGraph(t, seedTestSrc)
	seed, err := SelectSeed(g, unit, "y", nil)
	if err != nil {
		t.Fatalf("seed selection failed: %v", err)
	}
	if seed.Name() != "y" {
		t.Errorf("expected seed y, got %s", seed.Name())
	}
}

func TestSelectSeedNameNotFound(t *testing.T) {
	unit, g := buildGraph(t, seedTestSrc)
	_, err := SelectSeed(g, unit, "nothere", nil)
	if err == nil {
		t.Fatal("expected an error for a missing declaration name")
	}
	if !strings.Contains(err.Error(), "nothere") {
		t.Errorf("the error should name the missing declaration: %v", err)
	}
}

func TestSelectSeedRandomIsDeterministic(t *testing.T) {
	unit, g := buildGraph(t, seedTestSrc)
	first, err := SelectSeed(g, unit, "", rand.New(rand.NewSource(17)))
	if err != nil {
		t.Fatalf("seed selection failed: %v", err)
	}
	second, err := SelectSeed(g, unit, "", rand.New(rand.NewSource(17)))
	if err != nil {
		t.Fatalf("seed selection failed: %v", err)
	}
	if first != second {
		t.Errorf("the same generator seed selected %s and %s", first.Name(), second.Name())
	}
	if !unit.IsPrimary(first.Pos()) {
		t.Errorf("the random seed %s is not in the primary file", first.Name())
	}
}

func TestSelectSeedEmptyUnit(t *testing.T) {
	unit, g := buildGraph(t, "package p\n")
	_, err := SelectSeed(g, unit, "", rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("expected an error on a unit with no declarations")
	}
}
