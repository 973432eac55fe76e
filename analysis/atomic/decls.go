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
	"go/ast"
	"go/token"
	"go/types"
	"strings"
)

// Decl is the interned handle of one declaration (variable, parameter,
// field, or function return slot) observed during a traversal. Handles are
// created by the equivalence graph's arena and are unique per types.Object,
// so they can be compared and used as map keys without holding onto the AST.
type Decl struct {
	id   int
	obj  types.Object
	name string
	pos  token.Pos

	// typ is the written type of the declaration, when the unit contains
	// one. Declarations with inferred types and declarations interned from
	// outside the loaded unit have no type syntax.
	typ ast.Expr

	// def is the defining identifier, when the unit contains one.
	def *ast.Ident
}

// Index returns the arena index of the declaration. Indices are assigned in
// observation order, starting at 0.
func (d *Decl) Index() int { return d.id }

// Name returns the declared name.
func (d *Decl) Name() string { return d.name }

// Obj returns the types.Object this handle was interned for.
func (d *Decl) Obj() types.Object { return d.obj }

// Pos returns the declaration's position.
func (d *Decl) Pos() token.Pos { return d.pos }

func (d *Decl) String() string { return d.name }

// setSyntax records the defining identifier and written type of the
// declaration. Observing syntax twice for the same declaration is a bug in
// the traversal.
func (d *Decl) setSyntax(def *ast.Ident, typ ast.Expr) {
	if d.def != nil {
		panic(fmt.Sprintf("declaration %s at %v observed twice", d.name, d.pos))
	}
	d.def = def
	d.typ = typ
}

// DWI is a declaration together with an indirection level: level 0 denotes
// the declaration's own storage, positive levels a value N dereferences
// away, and negative levels arise transiently when an address is taken.
// The DWI, not the bare declaration, is the unit of equivalence and of
// qualifier propagation.
type DWI struct {
	Decl  *Decl
	Level int
}

func (w DWI) String() string {
	if w.Level < 0 {
		return strings.Repeat("&", -w.Level) + w.Decl.Name()
	}
	return strings.Repeat("*", w.Level) + w.Decl.Name()
}
