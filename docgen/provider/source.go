// Package provider implements the metadata sources the schema engine reads
// from. SourceProvider analyzes Go source with go/packages and knows doc
// comments and directives; ReflectionProvider works on runtime types.
package provider

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"

	"github.com/springdox/springdox/docgen/ir"
	"github.com/springdox/springdox/docgen/schema"
	"github.com/springdox/springdox/internal/directive"
)

// ErrTypeNotFound is returned when a type name matches nothing in the loaded packages.
var ErrTypeNotFound = errors.New("type not found")

// SourceProvider extracts type metadata by analyzing Go source code.
//
// Call Load before any other method. The provider is safe for concurrent use
// once loaded.
type SourceProvider struct {
	// Dir is the directory in which package patterns are resolved.
	// Empty means the current directory.
	Dir string

	mu    sync.Mutex
	fset  *token.FileSet
	roots []*packages.Package
	all   map[string]*types.Package

	// structs and named are filled as types are converted, so every
	// descriptor handed out can be described again later.
	structs map[string]*types.Struct
	named   map[string]*types.Named

	typeDocs  map[token.Pos]*ast.CommentGroup
	fieldDocs map[token.Pos]string

	// converting guards named slices and maps that refer to themselves.
	converting map[*types.Named]bool
}

// Load type-checks the packages matching patterns.
func (p *SourceProvider) Load(ctx context.Context, patterns ...string) error {
	if len(patterns) == 0 {
		return fmt.Errorf("no packages specified")
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     p.Dir,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}
	if len(pkgs) == 0 {
		return fmt.Errorf("no packages found")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.fset = pkgs[0].Fset
	p.roots = pkgs
	p.all = make(map[string]*types.Package)
	p.structs = make(map[string]*types.Struct)
	p.named = make(map[string]*types.Named)
	p.typeDocs = make(map[token.Pos]*ast.CommentGroup)
	p.fieldDocs = make(map[token.Pos]string)
	p.converting = make(map[*types.Named]bool)

	for _, pkg := range pkgs {
		p.addPackage(pkg.Types)
		for _, f := range pkg.Syntax {
			p.indexDocs(f)
		}
	}
	return nil
}

// addPackage indexes tp and, transitively, the packages it imports. Only the
// loaded packages have syntax; dependencies are known by their types alone.
func (p *SourceProvider) addPackage(tp *types.Package) {
	if tp == nil || p.all[tp.Path()] != nil {
		return
	}
	p.all[tp.Path()] = tp
	for _, imp := range tp.Imports() {
		p.addPackage(imp)
	}
}

// indexDocs records the doc comments of type declarations and struct fields,
// keyed by the position of the declared identifier.
func (p *SourceProvider) indexDocs(f *ast.File) {
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			if doc := directive.TypeDoc(gen, ts); doc != nil {
				p.typeDocs[ts.Name.Pos()] = doc
			}
		}
	}

	ast.Inspect(f, func(n ast.Node) bool {
		st, ok := n.(*ast.StructType)
		if !ok || st.Fields == nil {
			return true
		}
		for _, field := range st.Fields.List {
			doc := field.Doc
			if doc == nil {
				doc = field.Comment
			}
			if doc == nil {
				continue
			}
			text := strings.TrimSpace(doc.Text())
			if len(field.Names) == 0 {
				typ := field.Type
				if star, ok := typ.(*ast.StarExpr); ok {
					typ = star.X
				}
				p.fieldDocs[embeddedPos(typ)] = text
				continue
			}
			for _, name := range field.Names {
				p.fieldDocs[name.Pos()] = text
			}
		}
		return true
	})
}

// embeddedPos returns the position go/types gives an embedded field: that of
// the type name, after any package qualifier.
func embeddedPos(expr ast.Expr) token.Pos {
	switch e := expr.(type) {
	case *ast.SelectorExpr:
		return e.Sel.Pos()
	case *ast.IndexExpr:
		return embeddedPos(e.X)
	case *ast.IndexListExpr:
		return embeddedPos(e.X)
	}
	return expr.Pos()
}

// Lookup returns the descriptor of a named type. name is either a simple name
// declared in one of the loaded packages or a qualified "import/path.Name".
func (p *SourceProvider) Lookup(name string) (*ir.TypeDescriptor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.all == nil {
		return nil, fmt.Errorf("lookup %s: packages not loaded", name)
	}

	if i := strings.LastIndex(name, "."); i > 0 && i > strings.LastIndex(name, "/") {
		pkgPath, simple := name[:i], name[i+1:]
		pkg, ok := p.all[pkgPath]
		if !ok {
			return nil, fmt.Errorf("lookup %s: package %s not loaded: %w", name, pkgPath, ErrTypeNotFound)
		}
		tn, ok := pkg.Scope().Lookup(simple).(*types.TypeName)
		if !ok {
			return nil, fmt.Errorf("lookup %s: %w", name, ErrTypeNotFound)
		}
		return p.convert(tn.Type(), anonOwner{}), nil
	}

	var found []*types.TypeName
	for _, pkg := range p.roots {
		if tn, ok := pkg.Types.Scope().Lookup(name).(*types.TypeName); ok {
			found = append(found, tn)
		}
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("lookup %s: %w", name, ErrTypeNotFound)
	case 1:
		return p.convert(found[0].Type(), anonOwner{}), nil
	}
	paths := make([]string, len(found))
	for i, tn := range found {
		paths[i] = tn.Pkg().Path() + "." + tn.Name()
	}
	return nil, fmt.Errorf("lookup %s: ambiguous, matches %s", name, strings.Join(paths, ", "))
}

// Members implements schema.TypeSource.
func (p *SourceProvider) Members(d *ir.TypeDescriptor) ([]ir.Member, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, err := p.structFor(d)
	if err != nil {
		return nil, err
	}

	members := make([]ir.Member, 0, st.NumFields())
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if !field.Exported() && !field.Embedded() {
			continue
		}
		t := field.Type()
		_, nullable := types.Unalias(t).(*types.Pointer)
		members = append(members, ir.Member{
			Name:     field.Name(),
			Type:     p.convert(t, anonOwner{pkg: d.Package(), name: d.Name() + field.Name(), args: d.Args()}),
			Tag:      reflect.StructTag(st.Tag(i)),
			Doc:      p.fieldDocs[field.Pos()],
			Embedded: field.Embedded(),
			Nullable: nullable,
		})
	}
	return members, nil
}

// structFor finds the struct behind d. Types never converted by this provider
// are looked up by name, which works for non-generic types only.
func (p *SourceProvider) structFor(d *ir.TypeDescriptor) (*types.Struct, error) {
	if st, ok := p.structs[d.Key()]; ok {
		return st, nil
	}
	if d.NumArgs() == 0 {
		if tn := p.typeName(d.Package(), d.Name()); tn != nil {
			p.convert(tn.Type(), anonOwner{})
			if st, ok := p.structs[d.Key()]; ok {
				return st, nil
			}
		}
	}
	return nil, fmt.Errorf("members of %s: %w", d, ErrTypeNotFound)
}

// EnumConstants implements schema.TypeSource. Constants are returned in
// source order.
func (p *SourceProvider) EnumConstants(d *ir.TypeDescriptor) ([]ir.EnumConstant, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	named, ok := p.named[d.QualifiedName()]
	if !ok {
		tn := p.typeName(d.Package(), d.Name())
		if tn == nil {
			return nil, fmt.Errorf("enum constants of %s: %w", d, ErrTypeNotFound)
		}
		if named, ok = tn.Type().(*types.Named); !ok {
			return nil, fmt.Errorf("enum constants of %s: not a defined type", d)
		}
	}

	var out []ir.EnumConstant
	for _, c := range enumConsts(named) {
		out = append(out, ir.EnumConstant{Name: c.Name(), Value: constantValue(c.Val())})
	}
	return out, nil
}

// TypeMetadata implements schema.TypeSource. The description is the type's
// doc comment; the discriminator and subtypes come from directives.
func (p *SourceProvider) TypeMetadata(d *ir.TypeDescriptor) (ir.TypeMetadata, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tn := p.typeName(d.Package(), d.Name())
	if tn == nil {
		// Synthetic names of anonymous structs have no declaration.
		return ir.TypeMetadata{}, nil
	}
	doc := p.typeDocs[tn.Pos()]
	if doc == nil {
		return ir.TypeMetadata{}, nil
	}

	md := ir.TypeMetadata{Description: strings.TrimSpace(doc.Text())}
	directives, err := directive.FromComment(p.fset, doc, tn.Name())
	if err != nil {
		return md, err
	}
	md.Discriminator = directive.Discriminator(directives)
	for _, name := range directive.Subtypes(directives) {
		sub, ok := tn.Pkg().Scope().Lookup(name).(*types.TypeName)
		if !ok {
			return md, fmt.Errorf("subtype %s of %s: %w", name, d, ErrTypeNotFound)
		}
		md.SubTypes = append(md.SubTypes, p.convert(sub.Type(), anonOwner{}))
	}
	return md, nil
}

func (p *SourceProvider) typeName(pkgPath, name string) *types.TypeName {
	pkg, ok := p.all[pkgPath]
	if !ok {
		return nil
	}
	tn, _ := pkg.Scope().Lookup(name).(*types.TypeName)
	return tn
}

// convert maps a go/types type onto a descriptor. owner names the synthetic
// model of an anonymous struct found in a field.
func (p *SourceProvider) convert(t types.Type, owner anonOwner) *ir.TypeDescriptor {
	t = types.Unalias(t)
	switch tt := t.(type) {
	case *types.Pointer:
		return p.convert(tt.Elem(), owner)

	case *types.Named:
		return p.convertNamed(tt)

	case *types.Basic:
		return convertBasic(tt)

	case *types.Slice:
		return ir.Slice(p.convert(tt.Elem(), owner))

	case *types.Array:
		return ir.Array(p.convert(tt.Elem(), owner))

	case *types.Map:
		return ir.Map(p.convert(tt.Key(), owner), p.convert(tt.Elem(), owner))

	case *types.Interface, *types.TypeParam:
		return ir.Interface("", "")

	case *types.Struct:
		return p.anonStruct(tt, owner)
	}
	return ir.Unknown(types.TypeString(t, shortQualifier))
}

func (p *SourceProvider) convertNamed(named *types.Named) *ir.TypeDescriptor {
	obj := named.Obj()
	if obj.Pkg() == nil {
		// error and comparable
		return ir.Interface("", "")
	}
	pkgPath, name := obj.Pkg().Path(), obj.Name()

	if schema.IsBaseName(pkgPath, name) {
		if types.IsInterface(named) {
			return ir.Interface(pkgPath, name)
		}
		return ir.Named(pkgPath, name)
	}

	switch u := named.Underlying().(type) {
	case *types.Basic:
		if len(enumConsts(named)) > 0 {
			d := ir.Enum(pkgPath, name)
			p.named[d.QualifiedName()] = named
			return d
		}
		return convertBasic(u)

	case *types.Interface:
		return ir.Interface(pkgPath, name)

	case *types.Struct:
		var args []*ir.TypeDescriptor
		if targs := named.TypeArgs(); targs.Len() > 0 {
			for i := 0; i < targs.Len(); i++ {
				args = append(args, p.convert(targs.At(i), anonOwner{}))
			}
		} else if tparams := named.TypeParams(); tparams.Len() > 0 {
			for i := 0; i < tparams.Len(); i++ {
				args = append(args, ir.Interface("", ""))
			}
		}
		d := ir.Named(pkgPath, name, args...)
		p.structs[d.Key()] = u
		p.named[d.QualifiedName()] = named
		return d
	}

	// Named slices, maps and funcs document as their underlying shape.
	if p.converting[named] {
		return ir.Unknown(name)
	}
	p.converting[named] = true
	defer delete(p.converting, named)
	return p.convert(named.Underlying(), anonOwner{pkg: pkgPath, name: name, declared: true})
}

// anonStruct returns the synthetic descriptor of an anonymous struct. It is
// named after its owner and carries the owner's type arguments; a numeric
// suffix keeps it apart from declared types and other anonymous structs.
func (p *SourceProvider) anonStruct(st *types.Struct, owner anonOwner) *ir.TypeDescriptor {
	if owner.name == "" {
		owner.name = "Anonymous"
	}
	if owner.pkg == "" {
		owner.pkg = p.anonPackage(st)
	}
	name := owner.name
	for i := 2; ; i++ {
		d := ir.Named(owner.pkg, name, owner.args...)
		prev, seen := p.structs[d.Key()]
		if seen && types.Identical(prev, st) {
			return d
		}
		if !seen && (owner.declared || p.typeName(owner.pkg, name) == nil) {
			p.structs[d.Key()] = st
			return d
		}
		owner.declared = false
		name = owner.name + strconv.Itoa(i)
	}
}

// anonPackage returns the package declaring an anonymous struct, taken from
// its first field.
func (p *SourceProvider) anonPackage(st *types.Struct) string {
	for i := 0; i < st.NumFields(); i++ {
		if pkg := st.Field(i).Pkg(); pkg != nil {
			return pkg.Path()
		}
	}
	return ""
}

func convertBasic(b *types.Basic) *ir.TypeDescriptor {
	info := b.Info()
	switch {
	case info&types.IsComplex != 0, b.Kind() == types.UnsafePointer, b.Kind() == types.Invalid:
		return ir.Unknown(b.Name())
	case info&types.IsUntyped != 0:
		return ir.Primitive(types.Typ[types.Default(b).(*types.Basic).Kind()].Name())
	}
	// Typ is indexed by kind, which maps byte to uint8 and rune to int32.
	return ir.Primitive(types.Typ[b.Kind()].Name())
}

// enumConsts returns the package-level constants of exactly the named type,
// in source order.
func enumConsts(named *types.Named) []*types.Const {
	if _, ok := named.Underlying().(*types.Basic); !ok {
		return nil
	}
	pkg := named.Obj().Pkg()
	if pkg == nil {
		return nil
	}

	var consts []*types.Const
	scope := pkg.Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if ok && types.Identical(c.Type(), named) {
			consts = append(consts, c)
		}
	}
	sort.Slice(consts, func(i, j int) bool { return consts[i].Pos() < consts[j].Pos() })
	return consts
}

// constantValue converts a constant.Value to string, int64, float64 or bool.
func constantValue(v constant.Value) any {
	switch v.Kind() {
	case constant.String:
		return constant.StringVal(v)
	case constant.Int:
		i64, _ := constant.Int64Val(v)
		return i64
	case constant.Float:
		f64, _ := constant.Float64Val(v)
		return f64
	case constant.Bool:
		return constant.BoolVal(v)
	default:
		return v.String()
	}
}

func shortQualifier(pkg *types.Package) string { return pkg.Name() }
