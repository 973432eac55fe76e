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

// Package analysis loads translation units for the atomizer analyses.
package analysis

import (
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/dave/dst/decorator"
	"github.com/mc-imperial/atomizer/analysis/atomic"
	"golang.org/x/tools/go/packages"
)

// PkgLoadMode is the default loading mode in the analyses. We load all
// possible information.
const PkgLoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedTypes |
	packages.NeedSyntax |
	packages.NeedTypesInfo |
	packages.NeedTypesSizes

// LoadUnit loads, parses and type checks the package containing the Go file
// at path, and returns it as a translation unit with that file as the
// primary file. Upstream parse or type errors abort the load: no analysis
// runs on a broken unit.
func LoadUnit(path string) (*atomic.Unit, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s: %w", path, err)
	}

	fset := token.NewFileSet()
	cfg := &packages.Config{
		Mode:  PkgLoadMode,
		Tests: false,
		Fset:  fset,
	}
	pkgs, err := packages.Load(cfg, "file="+abs)
	if err != nil {
		return nil, fmt.Errorf("could not load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no package contains %s", abs)
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		msgs := make([]string, len(pkg.Errors))
		for i, pkgErr := range pkg.Errors {
			msgs[i] = pkgErr.Error()
		}
		return nil, fmt.Errorf("the translation unit contains errors: %s", strings.Join(msgs, "; "))
	}

	dec := decorator.NewDecorator(fset)
	var primary *ast.File
	for _, file := range pkg.Syntax {
		if _, err := dec.DecorateFile(file); err != nil {
			return nil, fmt.Errorf("could not decorate %s: %w", fset.Position(file.Pos()).Filename, err)
		}
		if fset.Position(file.Pos()).Filename == abs {
			primary = file
		}
	}
	if primary == nil {
		return nil, fmt.Errorf("%s is not part of the loaded package %s", abs, pkg.PkgPath)
	}

	return &atomic.Unit{
		Fset:        fset,
		Files:       pkg.Syntax,
		Info:        pkg.TypesInfo,
		Dec:         dec,
		Primary:     primary,
		PrimaryPath: abs,
	}, nil
}
