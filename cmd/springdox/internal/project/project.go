// Package project builds a docket from the command line: it loads a Go
// package from source and selects its root and parameter types.
package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/springdox/springdox"
	"github.com/springdox/springdox/docgen/provider"
	"github.com/springdox/springdox/docgen/swagger2"
	"github.com/springdox/springdox/internal/directive"
)

// Options are the flags shared by the commands that build documents.
type Options struct {
	Package string   `help:"Package to scan (default: current directory)." short:"p" default:"."`
	Dir     string   `help:"Directory in which the package pattern is resolved."`
	Types   []string `help:"Root types (default: types marked //springdox:model)." short:"t" name:"type"`
	Params  []string `help:"Request types whose fields are documented as parameters." name:"param"`
	Config  string   `help:"YAML docket configuration." short:"c"`
	Group   string   `help:"Documentation group." default:"default"`
	Title   string   `help:"API title." default:"API"`
	Version string   `help:"API version." name:"api-version" default:"1.0"`
}

// Open loads the package and returns its docket and the configured output
// format, which is empty when no configuration sets one.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (*springdox.Docket, string, error) {
	found, err := directive.ParseDir(opts.Package, opts.Dir)
	if err != nil {
		return nil, "", fmt.Errorf("scan %s: %w", opts.Package, err)
	}

	src := &provider.SourceProvider{Dir: opts.Dir}
	if err := src.Load(ctx, opts.Package); err != nil {
		return nil, "", err
	}

	var (
		d      *springdox.Docket
		format string
	)
	if opts.Config != "" {
		cfg, err := springdox.LoadConfig(opts.Config)
		if err != nil {
			return nil, "", err
		}
		if cfg.Group == "" {
			cfg.Group = opts.Group
		}
		if d, err = cfg.Docket(src); err != nil {
			return nil, "", err
		}
		format = cfg.Format
	} else {
		d = springdox.NewDocket(opts.Group, src).
			WithInfo(swagger2.Info{Title: opts.Title, Version: opts.Version})
	}
	d.WithLogger(logger)

	roots := opts.Types
	if len(roots) == 0 {
		roots = found.Models
	}
	if len(roots) == 0 && len(opts.Params) == 0 {
		return nil, "", fmt.Errorf("no types in %s: pass --type or mark types with //springdox:model", found.PackagePath)
	}
	for _, name := range roots {
		t, err := src.Lookup(qualify(found.PackagePath, name))
		if err != nil {
			return nil, "", err
		}
		d.WithModels(t)
	}
	for _, name := range opts.Params {
		t, err := src.Lookup(qualify(found.PackagePath, name))
		if err != nil {
			return nil, "", err
		}
		d.WithParameters(t)
	}
	return d, format, nil
}

// qualify prefixes a simple type name with the scanned package path.
func qualify(pkgPath, name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return pkgPath + "." + name
}
