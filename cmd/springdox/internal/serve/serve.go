package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/springdox/springdox"
	"github.com/springdox/springdox/cmd/springdox/internal/project"
	"github.com/springdox/springdox/middleware"
)

type Cmd struct {
	project.Options

	Addr    string   `help:"Address to listen on." default:"localhost:9000"`
	Origins []string `help:"Origins allowed to fetch documents (default: all)." name:"allow-origin"`
}

func (c *Cmd) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d, _, err := project.Open(ctx, c.Options, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           c.handler(d, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	fmt.Printf("springdox serving http://%s%s?group=%s\n", c.Addr, springdox.DocsPath, d.Group())
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (c *Cmd) handler(d *springdox.Docket, logger *slog.Logger) http.Handler {
	return springdox.NewDocsHandler(d).
		WithLogger(logger).
		WithMiddleware(middleware.Logging(logger)).
		WithMiddleware(middleware.CORS(&middleware.CORSConfig{AllowOrigins: c.Origins})).
		Handler()
}
