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

	"github.com/dave/dst"
	"github.com/mc-imperial/atomizer/analysis/config"
)

// rewriter attaches the qualifier token to the type layer each upgrade's
// indirection level selects. Insertions go through the dst decorator; the
// rewriter performs no I/O itself.
type rewriter struct {
	unit      *Unit
	qualifier string
	log       *config.LogGroup

	// decorated dedupes insertion points: two declarations sharing one type
	// expression (var a, b int) must not stack two tokens on it.
	decorated map[dst.Node]bool
}

// Rewrite attaches the qualifier to every declaration in the upgrade set.
// Declarations interned from outside the loaded unit have no syntax to
// rewrite and are skipped with a warning; everything else either succeeds
// or fails the run.
func Rewrite(unit *Unit, up *UpgradeSet, qualifier string, log *config.LogGroup) error {
	r := &rewriter{
		unit:      unit,
		qualifier: qualifier,
		log:       log,
		decorated: map[dst.Node]bool{},
	}
	for _, d := range up.Decls() {
		level, _ := up.Level(d)
		if err := r.rewriteDecl(d, level); err != nil {
			return err
		}
	}
	return nil
}

func (r *rewriter) rewriteDecl(d *Decl, level int) error {
	if level < 0 {
		return fmt.Errorf("%w: declaration %s upgraded at negative indirection level %d",
			ErrInconsistent, d.Name(), level)
	}
	if d.def == nil {
		r.log.Warnf("declaration %s is outside the loaded unit, not rewriting", d.Name())
		return nil
	}
	if d.typ == nil {
		// Inferred type: there is no written type to descend into. The
		// base-storage upgrade can still be marked on the identifier.
		if level == 0 {
			return r.decorate(d.def)
		}
		return fmt.Errorf("%w: declaration %s has no written type to qualify at indirection level %d",
			ErrUnsupportedInput, d.Name(), level)
	}
	return r.descend(d.typ, level)
}

// descend walks the written type from the outside in. A function layer
// stands for its return slot and is passed through; the qualifier always
// targets a value type, never a signature layer. When the remaining level
// reaches 0, the token is attached immediately before the current layer
// (Go declarators are prefix, so this is the position the qualified layer
// starts at). Pointer and array layers consume one level each.
func (r *rewriter) descend(typ ast.Expr, level int) error {
	switch t := typ.(type) {
	case *ast.FuncType:
		if t.Results == nil || len(t.Results.List) == 0 {
			return fmt.Errorf("%w: function type with no results cannot be qualified", ErrUnsupportedInput)
		}
		return r.descend(t.Results.List[0].Type, level)
	case *ast.ParenExpr:
		return r.descend(t.X, level)
	}
	if level == 0 {
		return r.decorate(typ)
	}
	switch t := typ.(type) {
	case *ast.StarExpr:
		return r.descend(t.X, level-1)
	case *ast.ArrayType:
		return r.descend(t.Elt, level-1)
	default:
		return fmt.Errorf("%w: cannot descend into type layer %T with %d indirection levels remaining",
			ErrUnsupportedInput, typ, level)
	}
}

// decorate attaches the qualifier token as a start decoration of the dst
// node corresponding to the given ast node.
func (r *rewriter) decorate(node ast.Node) error {
	dstNode, ok := r.unit.Dec.Dst.Nodes[node]
	if !ok {
		return fmt.Errorf("%w: no decorated node for %T at %v", ErrInconsistent, node, node.Pos())
	}
	if r.decorated[dstNode] {
		return nil
	}
	r.decorated[dstNode] = true
	dstNode.Decorations().Start.Append(r.qualifier)
	return nil
}
