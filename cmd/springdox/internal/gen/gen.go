package gen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/springdox/springdox"
	"github.com/springdox/springdox/cmd/springdox/internal/project"
	"github.com/springdox/springdox/docgen/sink"
)

type Cmd struct {
	project.Options

	Out       string `arg:"" help:"Output directory for generated documents." type:"path"`
	Format    string `help:"Document format (json or yaml)." short:"f"`
	NoReplace bool   `help:"Fail instead of replacing existing documents."`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	ctx := context.Background()

	d, format, err := project.Open(ctx, c.Options, logger)
	if err != nil {
		return err
	}
	if c.Format != "" {
		format = c.Format
	}
	if format == "" {
		format = "json"
	}

	out := sink.NewFilesystemSink(c.Out)
	out.Overwrite = !c.NoReplace

	paths, err := springdox.WriteAll(ctx, out, format, d)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(filepath.Join(c.Out, filepath.FromSlash(p)))
	}
	return nil
}
