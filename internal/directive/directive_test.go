package directive

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	// Disable go.work so temp directories work as standalone modules
	t.Setenv("GOWORK", "off")
	tests := []struct {
		name       string
		files      map[string]string
		wantModels []string
		wantDisc   map[string]string
		wantSubs   map[string][]string
		wantErr    string
	}{
		{
			name: "model roots",
			files: map[string]string{
				"types.go": `package api

// User is a person.
//
//springdox:model
type User struct{}

//springdox:model
type Post struct{}

type internal struct{}
`,
			},
			wantModels: []string{"User", "Post"},
		},
		{
			name: "hierarchy",
			files: map[string]string{
				"pets.go": `package pets

// Pet is any animal.
//
//springdox:model
//springdox:discriminator kind
//springdox:subtypes Cat Dog
type Pet struct {
	Kind string
}

type (
	// Cat purrs.
	//springdox:subtypes Lion
	Cat struct{ Pet }
	Dog struct{ Pet }
	Lion struct{ Cat }
)
`,
			},
			wantModels: []string{"Pet"},
			wantDisc:   map[string]string{"Pet": "kind"},
			wantSubs:   map[string][]string{"Pet": {"Cat", "Dog"}, "Cat": {"Lion"}},
		},
		{
			name: "unknown directive",
			files: map[string]string{
				"main.go": `package main

//springdox:bogus
type T struct{}
`,
			},
			wantErr: "unknown directive //springdox:bogus",
		},
		{
			name: "discriminator needs a property",
			files: map[string]string{
				"main.go": `package main

//springdox:discriminator
type T struct{}
`,
			},
			wantErr: "takes exactly one property name",
		},
		{
			name: "directive on a function",
			files: map[string]string{
				"main.go": `package main

//springdox:model
func setup() {}
`,
			},
			wantErr: "must be part of a type declaration's doc comment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module test\n\ngo 1.21\n"), 0644); err != nil {
				t.Fatal(err)
			}
			for name, content := range tt.files {
				if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
					t.Fatal(err)
				}
			}

			result, err := ParseDir(".", dir)

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %q", tt.wantErr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !reflect.DeepEqual(result.Models, tt.wantModels) {
				t.Errorf("Models = %v, want %v", result.Models, tt.wantModels)
			}
			for typ, want := range tt.wantDisc {
				if got := Discriminator(result.Types[typ]); got != want {
					t.Errorf("Discriminator(%s) = %q, want %q", typ, got, want)
				}
			}
			for typ, want := range tt.wantSubs {
				if got := Subtypes(result.Types[typ]); !reflect.DeepEqual(got, want) {
					t.Errorf("Subtypes(%s) = %v, want %v", typ, got, want)
				}
			}
			if result.PackagePath != "test" {
				t.Errorf("PackagePath = %q, want %q", result.PackagePath, "test")
			}
		})
	}
}

func TestFromComment(t *testing.T) {
	src := `package p

// Shape is drawable.
//springdox:discriminator type
//springdox:subtypes Circle
//springdox:subtypes Square
type Shape struct{}
`
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "shape.go", src, parser.ParseComments)
	if err != nil {
		t.Fatal(err)
	}

	directives, err := ParseFile(fset, f)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(directives) != 3 {
		t.Fatalf("got %d directives, want 3", len(directives))
	}
	if directives[0].TypeName != "Shape" || directives[0].Pos.Line != 4 {
		t.Errorf("first directive = %+v", directives[0])
	}
	if got := Subtypes(directives); !reflect.DeepEqual(got, []string{"Circle", "Square"}) {
		t.Errorf("Subtypes = %v", got)
	}

	// Directives are not part of the rendered doc text.
	gen := f.Decls[0].(*ast.GenDecl)
	if got := TypeDoc(gen, gen.Specs[0].(*ast.TypeSpec)).Text(); got != "Shape is drawable.\n" {
		t.Errorf("doc text = %q", got)
	}
}
