// Package directive parses springdox directives from Go source files.
//
// Directives are line comments in the doc comment of a type declaration:
//
//	//springdox:model
//	//springdox:discriminator kind
//	//springdox:subtypes Cat Dog
//
// The model directive marks a type as a documentation root for the CLI.
// The discriminator directive names the property used for subtype dispatch,
// and the subtypes directive lists the types (declared in the same package)
// that specialize the annotated one.
package directive

import (
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

const prefix = "//springdox:"

// Directive represents a parsed springdox directive.
type Directive struct {
	Kind     Kind           // model, discriminator or subtypes
	Args     []string       // directive arguments
	TypeName string         // name of the annotated type
	Pos      token.Position // source location
}

// Kind represents the type of directive.
type Kind string

const (
	KindModel         Kind = "model"
	KindDiscriminator Kind = "discriminator"
	KindSubtypes      Kind = "subtypes"
)

// Result contains all directives found in a package.
type Result struct {
	// Types maps a type name to the directives in its doc comment.
	Types map[string][]Directive

	// Models lists the types marked //springdox:model, in source order.
	Models []string

	// PackagePath is the import path of the parsed package.
	PackagePath string

	// Dir is the directory containing the package.
	Dir string
}

// Parse scans a Go package for springdox directives.
//
// The pattern follows go command semantics:
//   - "." for current directory
//   - Import path like "github.com/foo/bar"
//   - Absolute or relative directory path
//
// Returns an error if:
//   - The package cannot be loaded or matches several packages
//   - A directive is unknown or has the wrong number of arguments
//   - A directive is not part of a type declaration's doc comment
func Parse(pattern string) (*Result, error) {
	return ParseDir(pattern, "")
}

// ParseDir is like Parse but allows specifying a working directory.
// If dir is empty, the current directory is used.
func ParseDir(pattern, dir string) (*Result, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:  dir,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %q", pattern)
	}
	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found matching %q; specify a single package", pattern)
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("package errors: %v", pkg.Errors[0])
	}

	result := &Result{
		Types:       make(map[string][]Directive),
		PackagePath: pkg.PkgPath,
	}
	if len(pkg.GoFiles) > 0 {
		result.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	for _, f := range pkg.Syntax {
		directives, err := ParseFile(pkg.Fset, f)
		if err != nil {
			return nil, err
		}
		for _, d := range directives {
			result.Types[d.TypeName] = append(result.Types[d.TypeName], d)
			if d.Kind == KindModel {
				result.Models = append(result.Models, d.TypeName)
			}
		}
	}
	return result, nil
}

// ParseFile extracts the directives attached to type declarations in f.
func ParseFile(fset *token.FileSet, f *ast.File) ([]Directive, error) {
	var directives []Directive
	attached := make(map[*ast.CommentGroup]bool)

	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := TypeDoc(gen, ts)
			if doc == nil {
				continue
			}
			attached[doc] = true
			ds, err := FromComment(fset, doc, ts.Name.Name)
			if err != nil {
				return nil, err
			}
			directives = append(directives, ds...)
		}
	}

	// Directives anywhere else are mistakes.
	for _, cg := range f.Comments {
		if attached[cg] {
			continue
		}
		for _, c := range cg.List {
			if strings.HasPrefix(c.Text, prefix) {
				return nil, fmt.Errorf("%s: %s directive must be part of a type declaration's doc comment",
					fset.Position(c.Pos()), strings.Fields(c.Text)[0])
			}
		}
	}
	return directives, nil
}

// TypeDoc returns the doc comment of a type spec. A lone spec in an
// unparenthesized declaration takes the declaration's comment.
func TypeDoc(gen *ast.GenDecl, ts *ast.TypeSpec) *ast.CommentGroup {
	if ts.Doc != nil {
		return ts.Doc
	}
	if len(gen.Specs) == 1 {
		return gen.Doc
	}
	return nil
}

// FromComment parses the directives in a doc comment for the type typeName.
func FromComment(fset *token.FileSet, cg *ast.CommentGroup, typeName string) ([]Directive, error) {
	if cg == nil {
		return nil, nil
	}
	var directives []Directive
	for _, c := range cg.List {
		if !strings.HasPrefix(c.Text, prefix) {
			continue
		}
		parts := strings.Fields(strings.TrimPrefix(c.Text, prefix))
		if len(parts) == 0 {
			continue
		}

		pos := fset.Position(c.Pos())
		d := Directive{Kind: Kind(parts[0]), Args: parts[1:], TypeName: typeName, Pos: pos}
		switch d.Kind {
		case KindModel:
			if len(d.Args) != 0 {
				return nil, fmt.Errorf("%s: //springdox:model takes no arguments", pos)
			}
		case KindDiscriminator:
			if len(d.Args) != 1 {
				return nil, fmt.Errorf("%s: //springdox:discriminator takes exactly one property name", pos)
			}
		case KindSubtypes:
			if len(d.Args) == 0 {
				return nil, fmt.Errorf("%s: //springdox:subtypes needs at least one type name", pos)
			}
		default:
			return nil, fmt.Errorf("%s: unknown directive //springdox:%s", pos, parts[0])
		}
		directives = append(directives, d)
	}
	return directives, nil
}

// Discriminator returns the discriminator property named by directives, if any.
func Discriminator(directives []Directive) string {
	for _, d := range directives {
		if d.Kind == KindDiscriminator {
			return d.Args[0]
		}
	}
	return ""
}

// Subtypes returns the subtype names listed by directives, in order.
func Subtypes(directives []Directive) []string {
	var names []string
	for _, d := range directives {
		if d.Kind == KindSubtypes {
			names = append(names, d.Args...)
		}
	}
	return names
}
