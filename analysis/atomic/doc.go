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

/*
Package atomic infers which declarations of a translation unit must carry an
atomicity qualifier once one seed declaration is chosen, and rewrites the
unit accordingly.

The pipeline has four stages, run by [Analyze]:

 1. [BuildEquivalences] walks every expression bottom-up, computing for each
    expression the set of (declaration, indirection level) pairs it may
    denote, and records a symmetric equivalence edge whenever a value visibly
    moves between two storage locations (assignment, initialization,
    argument passing, return, comparison).
 2. [SelectSeed] picks the initial declaration, by name or uniformly at
    random among the declarations located in the unit's primary file.
 3. [Propagate] runs a breadth-first worklist over the equivalence graph,
    computing the one indirection level at which every reachable declaration
    must be qualified.
 4. [Rewrite] descends each upgraded declaration's written type to the layer
    the level selects and attaches the qualifier token there as a dst
    decoration; [Result.Render] prints the patched primary file.

The analysis is a best-effort syntactic co-assignment heuristic, not a
verified type system: field identity is tracked per declaration rather than
per instance, and no points-to analysis is performed.
*/
package atomic
