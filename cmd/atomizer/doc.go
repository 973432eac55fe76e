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

// atomizer: upgrade one declaration in a Go file to carry an atomicity
// qualifier, together with every declaration the data flow forces to
// co-vary with it.
//
// The tool loads a single Go file (with its package context), builds an
// equivalence relation over (declaration, indirection level) pairs, picks
// a seed declaration (by name, or at random), propagates the qualifier
// along the relation, and writes a rewritten copy of the file where each
// upgraded declaration has the qualifier token inserted at the type layer
// matching its indirection level.
//
// Usage:
//
//	atomizer [-config config.yaml] [-name decl] [-seed n] [-verbose] -o output.go file.go
//
// With -name the named declaration is the seed; otherwise the seed is
// chosen uniformly at random among the file's own declarations, using
// -seed (or the config file's seed) for reproducibility.
package main
