// Package generator runs the documentation pipeline: input files are read in
// order, their lines classified, and the resulting blocks rendered as one
// HTML document.
package generator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mvp-joe/docgen/internal/classify"
	"github.com/mvp-joe/docgen/internal/render"
	"github.com/mvp-joe/docgen/internal/source"
	"github.com/rs/zerolog"
)

// Options configure a Generator.
type Options struct {
	Document   render.Document
	Classifier classify.Options
	Source     source.Options
}

// Stats summarizes one run.
type Stats struct {
	render.Stats
	Files       int
	SourceLines int // raw lines read
	Private     int // private markers skipped
	Duration    time.Duration
}

// Generator produces documents. It holds no per-run state and may be reused.
type Generator struct {
	opts     Options
	progress ProgressReporter
}

// New creates a generator. A nil progress reporter reports nothing.
func New(opts Options, progress ProgressReporter) *Generator {
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}
	return &Generator{opts: opts, progress: progress}
}

// Generate renders the documentation found in paths and writes the document
// to w. The document is assembled in memory and written only when every
// input was read, so a failed run writes nothing. The logger is taken from
// ctx (zerolog.Ctx).
func (g *Generator) Generate(ctx context.Context, paths []string, w io.Writer) (*Stats, error) {
	start := time.Now()
	logger := zerolog.Ctx(ctx)

	src, err := source.Open(paths, g.opts.Source)
	if err != nil {
		return nil, err
	}
	files := src.Files()
	g.progress.OnDiscoveryComplete(len(files))
	logger.Debug().Int("files", len(files)).Msg("inputs resolved")

	var buf bytes.Buffer
	renderer := render.New(&buf, g.opts.Document, *logger)
	classifier := classify.New(g.opts.Classifier)
	stats := &Stats{Files: len(files)}

	if err := renderer.Begin(files); err != nil {
		return nil, err
	}

	g.progress.OnFileProcessingStart(len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := src.Scan(ctx, file, func(line source.Line) error {
			stats.SourceLines++
			unit, ok := classifier.Next(line.Text, classify.Position{File: line.File, Line: line.No})
			if !ok {
				return nil
			}
			return renderer.Add(unit)
		})
		if err != nil {
			return nil, err
		}
		g.progress.OnFileProcessed(file)
	}

	if err := renderer.Finish(); err != nil {
		return nil, err
	}

	if _, err := buf.WriteTo(w); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}

	stats.Stats = renderer.Stats()
	stats.Private = classifier.Private()
	stats.Duration = time.Since(start)
	g.progress.OnComplete(stats)

	logger.Info().
		Int("files", stats.Files).
		Int("blocks", stats.Blocks).
		Int("structs", stats.Structs).
		Int("private", stats.Private).
		Int("dropped", stats.Discarded).
		Dur("duration", stats.Duration).
		Msg("document generated")

	return stats, nil
}
