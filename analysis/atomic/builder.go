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

	"github.com/mc-imperial/atomizer/analysis/config"
	"golang.org/x/tools/go/types/typeutil"
)

// builder walks the translation unit bottom-up, computing for every
// expression the set of DWIs it may denote and recording equivalence edges
// whenever a value visibly moves from one storage location to another.
type builder struct {
	unit  *Unit
	info  *types.Info
	graph *EquivalenceGraph
	log   *config.LogGroup

	// aliases is the per-expression side table of alias sets. An entry is
	// written once, when the expression has been fully processed.
	aliases map[ast.Expr][]DWI

	// fn tracks the enclosing function declarations, innermost last, so a
	// return statement knows which declaration it assigns to. Function
	// literals push a nil entry: they have no declaration to relate to.
	fn []*Decl
}

// BuildEquivalences traverses the unit and returns its equivalence graph.
func BuildEquivalences(unit *Unit, log *config.LogGroup) (*EquivalenceGraph, error) {
	b := &builder{
		unit:    unit,
		info:    unit.Info,
		graph:   NewEquivalenceGraph(),
		log:     log,
		aliases: map[ast.Expr][]DWI{},
	}
	for _, file := range unit.Files {
		for _, decl := range file.Decls {
			var err error
			switch d := decl.(type) {
			case *ast.FuncDecl:
				err = b.funcDecl(d)
			case *ast.GenDecl:
				err = b.genDecl(d)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return b.graph, nil
}

// declare interns the object defined by ident and records its written type
// syntax. typ may be nil for inferred types.
func (b *builder) declare(ident *ast.Ident, typ ast.Expr) *Decl {
	obj := b.info.Defs[ident]
	if obj == nil {
		return nil
	}
	d := b.graph.Intern(obj)
	d.setSyntax(ident, typ)
	return d
}

func (b *builder) funcDecl(fd *ast.FuncDecl) error {
	fn := b.declare(fd.Name, fd.Type)
	b.declareSignature(fd.Recv, fd.Type)
	if fd.Body == nil {
		return nil
	}
	b.fn = append(b.fn, fn)
	err := b.walkStmt(fd.Body)
	b.fn = b.fn[:len(b.fn)-1]
	return err
}

// declareSignature interns the receiver, parameters and named results of a
// function, with each field's written type.
func (b *builder) declareSignature(recv *ast.FieldList, ftyp *ast.FuncType) {
	fieldLists := []*ast.FieldList{recv, ftyp.Params, ftyp.Results}
	for _, fl := range fieldLists {
		if fl == nil {
			continue
		}
		for _, field := range fl.List {
			for _, name := range field.Names {
				b.declare(name, field.Type)
			}
		}
	}
}

func (b *builder) genDecl(gd *ast.GenDecl) error {
	for _, spec := range gd.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			if st, ok := s.Type.(*ast.StructType); ok {
				for _, field := range st.Fields.List {
					for _, name := range field.Names {
						b.declare(name, field.Type)
					}
				}
			}
		case *ast.ValueSpec:
			decls := make([]*Decl, len(s.Names))
			for i, name := range s.Names {
				decls[i] = b.declare(name, s.Type)
			}
			for i, d := range decls {
				if d == nil {
					continue
				}
				init := initializerFor(s.Values, i)
				if init == nil {
					continue
				}
				if err := b.handleAssignment(DWI{d, 0}, init); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// initializerFor matches the i-th declared name to its initializer: one per
// name, or the single multi-valued expression shared by all names.
func initializerFor(values []ast.Expr, i int) ast.Expr {
	switch {
	case i < len(values):
		return values[i]
	case len(values) == 1:
		return values[0]
	default:
		return nil
	}
}

func (b *builder) enclosingFunc() *Decl {
	if len(b.fn) == 0 {
		return nil
	}
	return b.fn[len(b.fn)-1]
}

//gocyclo:ignore
func (b *builder) walkStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ast.BlockStmt:
		for _, inner := range s.List {
			if err := b.walkStmt(inner); err != nil {
				return err
			}
		}
	case *ast.ExprStmt:
		_, err := b.evalExpr(s.X)
		return err
	case *ast.AssignStmt:
		return b.assignStmt(s)
	case *ast.ReturnStmt:
		fn := b.enclosingFunc()
		for _, result := range s.Results {
			if fn == nil {
				if _, err := b.evalExpr(result); err != nil {
					return err
				}
				continue
			}
			if err := b.handleAssignment(DWI{fn, 0}, result); err != nil {
				return err
			}
		}
	case *ast.DeclStmt:
		if gd, ok := s.Decl.(*ast.GenDecl); ok {
			return b.genDecl(gd)
		}
	case *ast.IfStmt:
		if err := b.walkStmt(s.Init); err != nil {
			return err
		}
		if _, err := b.evalExpr(s.Cond); err != nil {
			return err
		}
		if err := b.walkStmt(s.Body); err != nil {
			return err
		}
		return b.walkStmt(s.Else)
	case *ast.ForStmt:
		if err := b.walkStmt(s.Init); err != nil {
			return err
		}
		if s.Cond != nil {
			if _, err := b.evalExpr(s.Cond); err != nil {
				return err
			}
		}
		if err := b.walkStmt(s.Post); err != nil {
			return err
		}
		return b.walkStmt(s.Body)
	case *ast.RangeStmt:
		return b.rangeStmt(s)
	case *ast.SwitchStmt:
		return b.switchStmt(s)
	case *ast.TypeSwitchStmt:
		if err := b.walkStmt(s.Init); err != nil {
			return err
		}
		if err := b.walkStmt(s.Assign); err != nil {
			return err
		}
		return b.walkStmt(s.Body)
	case *ast.SelectStmt:
		for _, clause := range s.Body.List {
			comm := clause.(*ast.CommClause)
			if err := b.walkStmt(comm.Comm); err != nil {
				return err
			}
			for _, inner := range comm.Body {
				if err := b.walkStmt(inner); err != nil {
					return err
				}
			}
		}
	case *ast.SendStmt:
		if _, err := b.evalExpr(s.Chan); err != nil {
			return err
		}
		_, err := b.evalExpr(s.Value)
		return err
	case *ast.IncDecStmt:
		_, err := b.evalExpr(s.X)
		return err
	case *ast.GoStmt:
		_, err := b.evalExpr(s.Call)
		return err
	case *ast.DeferStmt:
		_, err := b.evalExpr(s.Call)
		return err
	case *ast.LabeledStmt:
		return b.walkStmt(s.Stmt)
	}
	return nil
}

func (b *builder) assignStmt(s *ast.AssignStmt) error {
	switch s.Tok {
	case token.DEFINE:
		for i, lhs := range s.Lhs {
			rhs := initializerFor(s.Rhs, i)
			ident, ok := lhs.(*ast.Ident)
			if !ok || rhs == nil {
				continue
			}
			// A name already declared in the same scope is re-assigned, not
			// re-defined.
			if d := b.declare(ident, nil); d != nil {
				if err := b.handleAssignment(DWI{d, 0}, rhs); err != nil {
					return err
				}
				continue
			}
			if err := b.makeEquivalent(lhs, rhs); err != nil {
				return err
			}
		}
	case token.ASSIGN:
		for i, lhs := range s.Lhs {
			rhs := initializerFor(s.Rhs, i)
			if rhs == nil {
				continue
			}
			if err := b.makeEquivalent(lhs, rhs); err != nil {
				return err
			}
		}
	default:
		// Compound assignments (+=, |=, ...) do not move a value between
		// storage locations as-is; only evaluate the operands.
		for _, e := range s.Lhs {
			if _, err := b.evalExpr(e); err != nil {
				return err
			}
		}
		for _, e := range s.Rhs {
			if _, err := b.evalExpr(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// rangeStmt relates the range value variable to the ranged operand at one
// deeper indirection level: each element of xs is one subscript away from
// xs' own storage.
func (b *builder) rangeStmt(s *ast.RangeStmt) error {
	operand, err := b.evalExpr(s.X)
	if err != nil {
		return err
	}
	if s.Key != nil {
		if _, err := b.evalExpr(s.Key); err != nil {
			return err
		}
	}
	if s.Value != nil {
		var targets []DWI
		if ident, ok := s.Value.(*ast.Ident); ok && s.Tok == token.DEFINE {
			if d := b.declare(ident, nil); d != nil {
				targets = []DWI{{d, 0}}
			}
		}
		if targets == nil {
			targets, err = b.evalExpr(s.Value)
			if err != nil {
				return err
			}
		}
		for _, t := range targets {
			for _, o := range operand {
				b.graph.AddEquivalence(t, DWI{o.Decl, o.Level + 1})
			}
		}
	}
	return b.walkStmt(s.Body)
}

// switchStmt treats every case expression as a comparison against the tag.
func (b *builder) switchStmt(s *ast.SwitchStmt) error {
	if err := b.walkStmt(s.Init); err != nil {
		return err
	}
	if s.Tag != nil {
		if _, err := b.evalExpr(s.Tag); err != nil {
			return err
		}
	}
	for _, clause := range s.Body.List {
		cc := clause.(*ast.CaseClause)
		for _, e := range cc.List {
			if s.Tag != nil {
				if err := b.makeEquivalent(s.Tag, e); err != nil {
					return err
				}
			} else if _, err := b.evalExpr(e); err != nil {
				return err
			}
		}
		for _, inner := range cc.Body {
			if err := b.walkStmt(inner); err != nil {
				return err
			}
		}
	}
	return nil
}

// evalExpr computes the alias set of e, bottom-up, recording equivalence
// edges for the comparisons, calls and assignments found along the way. The
// result is memoized; an expression's set is never mutated after it has
// been fully processed.
//
//gocyclo:ignore
func (b *builder) evalExpr(e ast.Expr) ([]DWI, error) {
	if dwis, ok := b.aliases[e]; ok {
		return dwis, nil
	}
	dwis, err := b.evalExprUncached(e)
	if err != nil {
		return nil, err
	}
	b.aliases[e] = dwis
	if len(dwis) > 0 {
		b.log.Tracef("%s denotes %v", exprKind(e), dwis)
	}
	return dwis, nil
}

func (b *builder) evalExprUncached(e ast.Expr) ([]DWI, error) {
	switch expr := e.(type) {
	case *ast.Ident:
		return b.identAliases(expr), nil

	case *ast.SelectorExpr:
		if _, err := b.evalExpr(expr.X); err != nil {
			return nil, err
		}
		if sel, ok := b.info.Selections[expr]; ok {
			if sel.Kind() == types.FieldVal {
				// Field identity, not the containing instance, is tracked.
				return []DWI{{b.graph.Intern(sel.Obj()), 0}}, nil
			}
			return nil, nil
		}
		// Package-qualified identifier.
		return b.identAliases(expr.Sel), nil

	case *ast.StarExpr:
		sub, err := b.evalExpr(expr.X)
		if err != nil {
			return nil, err
		}
		return shiftLevels(sub, 1), nil

	case *ast.IndexExpr:
		if _, err := b.evalExpr(expr.Index); err != nil {
			return nil, err
		}
		sub, err := b.evalExpr(expr.X)
		if err != nil {
			return nil, err
		}
		return shiftLevels(sub, 1), nil

	case *ast.UnaryExpr:
		sub, err := b.evalExpr(expr.X)
		if err != nil {
			return nil, err
		}
		if expr.Op == token.AND {
			return shiftLevels(sub, -1), nil
		}
		return nil, nil

	case *ast.ParenExpr:
		return b.evalExpr(expr.X)

	case *ast.SliceExpr:
		for _, bound := range []ast.Expr{expr.Low, expr.High, expr.Max} {
			if bound == nil {
				continue
			}
			if _, err := b.evalExpr(bound); err != nil {
				return nil, err
			}
		}
		// Slicing re-views the same storage.
		return b.evalExpr(expr.X)

	case *ast.TypeAssertExpr:
		return b.evalExpr(expr.X)

	case *ast.CallExpr:
		return b.callExpr(expr)

	case *ast.BinaryExpr:
		return nil, b.binaryExpr(expr)

	case *ast.CompositeLit:
		// A composite literal outside assignment position contributes no
		// aliases, but its elements must still be processed.
		for _, elt := range expr.Elts {
			v := elt
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				v = kv.Value
			}
			if _, err := b.evalExpr(v); err != nil {
				return nil, err
			}
		}
		return nil, nil

	case *ast.FuncLit:
		b.declareSignature(nil, expr.Type)
		b.fn = append(b.fn, nil)
		err := b.walkStmt(expr.Body)
		b.fn = b.fn[:len(b.fn)-1]
		return nil, err
	}
	return nil, nil
}

// identAliases resolves an identifier reference: a variable or function
// reference denotes its declaration at level 0.
func (b *builder) identAliases(ident *ast.Ident) []DWI {
	obj := b.info.Uses[ident]
	if obj == nil {
		obj = b.info.Defs[ident]
	}
	switch obj.(type) {
	case *types.Var, *types.Func:
		return []DWI{{b.graph.Intern(obj), 0}}
	}
	return nil
}

// callExpr handles conversions (pass-through), statically known callees
// (the call denotes the callee's return slot, and each argument is assigned
// to its parameter) and dynamic calls (no aliases).
func (b *builder) callExpr(call *ast.CallExpr) ([]DWI, error) {
	if tv, ok := b.info.Types[call.Fun]; ok && tv.IsType() {
		// A conversion passes its operand's aliases through unchanged.
		return b.evalExpr(call.Args[0])
	}
	if _, err := b.evalExpr(call.Fun); err != nil {
		return nil, err
	}
	fn, _ := typeutil.Callee(b.info, call).(*types.Func)
	if fn == nil {
		for _, arg := range call.Args {
			if _, err := b.evalExpr(arg); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	callee := b.graph.Intern(fn)
	sig := fn.Type().(*types.Signature)
	params := sig.Params()
	for i, arg := range call.Args {
		target, ok := parameterTarget(b.graph, params, sig.Variadic(), i)
		if !ok {
			if _, err := b.evalExpr(arg); err != nil {
				return nil, err
			}
			continue
		}
		if err := b.handleAssignment(target, arg); err != nil {
			return nil, err
		}
	}
	return []DWI{{callee, 0}}, nil
}

// parameterTarget matches the i-th argument to a parameter DWI. Arguments
// absorbed by a variadic parameter land one indirection level inside it.
func parameterTarget(g *EquivalenceGraph, params *types.Tuple, variadic bool, i int) (DWI, bool) {
	n := params.Len()
	if n == 0 {
		return DWI{}, false
	}
	if variadic && i >= n-1 {
		return DWI{g.Intern(params.At(n - 1)), 1}, true
	}
	if i >= n {
		return DWI{}, false
	}
	return DWI{g.Intern(params.At(i)), 0}, true
}

// binaryExpr records a symmetric equivalence between the operands of a
// comparison; all other binary operators only evaluate their operands. A
// comparison itself denotes nothing.
func (b *builder) binaryExpr(expr *ast.BinaryExpr) error {
	switch expr.Op {
	case token.EQL, token.LSS, token.GTR, token.LEQ, token.GEQ:
		return b.makeEquivalent(expr.X, expr.Y)
	default:
		if _, err := b.evalExpr(expr.X); err != nil {
			return err
		}
		_, err := b.evalExpr(expr.Y)
		return err
	}
}

// makeEquivalent records a symmetric equivalence between every pair in the
// cross product of the two expressions' alias sets.
func (b *builder) makeEquivalent(e1, e2 ast.Expr) error {
	dwis1, err := b.evalExpr(e1)
	if err != nil {
		return err
	}
	dwis2, err := b.evalExpr(e2)
	if err != nil {
		return err
	}
	for _, a := range dwis1 {
		for _, b2 := range dwis2 {
			b.graph.AddEquivalence(a, b2)
		}
	}
	return nil
}

// handleAssignment records that the value of e flows into target. Composite
// literals recurse structurally; any other expression contributes an edge
// per alias.
func (b *builder) handleAssignment(target DWI, e ast.Expr) error {
	if lit, ok := stripParens(e).(*ast.CompositeLit); ok {
		return b.assignCompositeLit(target, lit)
	}
	dwis, err := b.evalExpr(e)
	if err != nil {
		return err
	}
	for _, other := range dwis {
		b.graph.AddEquivalence(target, other)
	}
	return nil
}

// assignCompositeLit matches a composite literal to the shape of the target
// declaration's type: struct elements are assigned to their fields, array
// and slice elements to the declaration itself at one deeper indirection
// level. Any other shape is unsupported input.
func (b *builder) assignCompositeLit(target DWI, lit *ast.CompositeLit) error {
	switch t := target.Decl.Obj().Type().Underlying().(type) {
	case *types.Struct:
		return b.assignStructLit(t, lit)
	case *types.Array, *types.Slice:
		for _, elt := range lit.Elts {
			v := elt
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				// Indexed element; the index is constant and denotes nothing.
				v = kv.Value
			}
			if err := b.handleAssignment(DWI{target.Decl, target.Level + 1}, v); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: composite literal initializes %s of type %s, which is neither a struct nor an array",
			ErrUnsupportedInput, target.Decl.Name(), target.Decl.Obj().Type())
	}
}

func (b *builder) assignStructLit(st *types.Struct, lit *ast.CompositeLit) error {
	for i, elt := range lit.Elts {
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			key, ok := kv.Key.(*ast.Ident)
			if !ok {
				return fmt.Errorf("%w: struct literal with non-identifier key", ErrUnsupportedInput)
			}
			field := b.info.Uses[key]
			if field == nil {
				return fmt.Errorf("%w: struct literal key %s does not resolve to a field", ErrUnsupportedInput, key.Name)
			}
			if err := b.handleAssignment(DWI{b.graph.Intern(field), 0}, kv.Value); err != nil {
				return err
			}
			continue
		}
		if i >= st.NumFields() {
			return fmt.Errorf("%w: struct literal with more elements than fields", ErrUnsupportedInput)
		}
		if err := b.handleAssignment(DWI{b.graph.Intern(st.Field(i)), 0}, elt); err != nil {
			return err
		}
	}
	return nil
}

func shiftLevels(dwis []DWI, delta int) []DWI {
	shifted := make([]DWI, len(dwis))
	for i, w := range dwis {
		shifted[i] = DWI{w.Decl, w.Level + delta}
	}
	return shifted
}

func stripParens(e ast.Expr) ast.Expr {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

func exprKind(e ast.Expr) string {
	return fmt.Sprintf("%T", e)
}
