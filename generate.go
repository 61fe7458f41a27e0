package springdox

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/springdox/springdox/docgen/ir"
	"github.com/springdox/springdox/docgen/sink"
)

// GenerateAll builds the documents of dockets concurrently. The result is in
// docket order. The first error cancels the remaining groups.
func GenerateAll(ctx context.Context, dockets ...*Docket) ([]*ir.Document, error) {
	docs := make([]*ir.Document, len(dockets))
	g, ctx := errgroup.WithContext(ctx)
	for i, d := range dockets {
		g.Go(func() error {
			doc, err := d.Document(ctx)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// WriteAll renders every docket in format and writes each document to s
// under sink.DocumentPath. It returns the written paths in docket order.
func WriteAll(ctx context.Context, s sink.Sink, format string, dockets ...*Docket) ([]string, error) {
	paths := make([]string, len(dockets))
	g, ctx := errgroup.WithContext(ctx)
	for i, d := range dockets {
		g.Go(func() error {
			out, err := d.Render(ctx, format)
			if err != nil {
				return err
			}
			path := sink.DocumentPath(d.Group(), format)
			if err := s.WriteFile(ctx, path, out); err != nil {
				return fmt.Errorf("group %s: %w", d.Group(), err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
