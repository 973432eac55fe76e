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

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"
)

// Unit is one loaded translation unit: the primary file under analysis plus
// the other files of its package, fully type checked, together with the dst
// decorator that maps every ast node to its decorated counterpart. The
// analysis only reads the unit; rewriting attaches decorations through Dec.
type Unit struct {
	Fset  *token.FileSet
	Files []*ast.File
	Info  *types.Info

	// Dec maps ast nodes to dst nodes. Every file in Files must have been
	// decorated through it.
	Dec *decorator.Decorator

	// Primary is the file the qualifier campaign is anchored to: random
	// seeds are drawn from it and it is the only file written out.
	Primary     *ast.File
	PrimaryPath string
}

// IsPrimary reports whether pos lies in the unit's primary file.
func (u *Unit) IsPrimary(pos token.Pos) bool {
	return pos.IsValid() && u.Fset.Position(pos).Filename == u.PrimaryPath
}

// PrimaryDst returns the decorated syntax tree of the primary file.
func (u *Unit) PrimaryDst() (*dst.File, error) {
	n, ok := u.Dec.Dst.Nodes[u.Primary]
	if !ok {
		return nil, fmt.Errorf("primary file %s was not decorated", u.PrimaryPath)
	}
	f, ok := n.(*dst.File)
	if !ok {
		return nil, fmt.Errorf("decorated node for %s is %T, not a file", u.PrimaryPath, n)
	}
	return f, nil
}
