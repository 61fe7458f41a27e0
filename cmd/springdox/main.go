package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/springdox/springdox/cmd/springdox/internal/gen"
	"github.com/springdox/springdox/cmd/springdox/internal/serve"
)

type CLI struct {
	Verbose bool `help:"Log resolution details." short:"v"`

	Version VersionCmd `cmd:"" help:"Print version information."`
	Gen     gen.Cmd    `cmd:"" help:"Generate Swagger documents from Go types."`
	Serve   serve.Cmd  `cmd:"" help:"Serve Swagger documents over HTTP."`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("springdox"),
		kong.Description("Generate Swagger 2.0 documentation from Go types."),
		kong.UsageOnError(),
	)

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
