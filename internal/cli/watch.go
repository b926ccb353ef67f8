package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mvp-joe/docgen/internal/config"
	"github.com/mvp-joe/docgen/internal/generator"
	"github.com/mvp-joe/docgen/internal/source"
	"github.com/mvp-joe/docgen/internal/watcher"
	"github.com/rs/zerolog"
)

// runWatch writes the document once, then again after every batch of input
// changes until interrupted. Failed regenerations are logged and the
// previous document is kept.
func runWatch(ctx context.Context, gen *generator.Generator, cfg *config.Config, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watchLoop(ctx, gen, cfg, args, watcher.DefaultDebounce)
}

func watchLoop(ctx context.Context, gen *generator.Generator, cfg *config.Config, args []string, debounce time.Duration) error {
	logger := zerolog.Ctx(ctx)

	if _, err := writeFile(ctx, gen, args, cfg.Output.Path); err != nil {
		return fmt.Errorf("initial generation failed: %w", err)
	}

	src, err := source.Open(args, cfg.SourceOptions())
	if err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(src.Dirs(), cfg.SourceExtensions(),
		watcher.WithFiles(src.Files()),
		watcher.WithDebounce(debounce),
		watcher.WithLogger(*logger))
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer fw.Stop()

	err = fw.Start(ctx, func(files []string) {
		logger.Info().Strs("changed", files).Msg("regenerating")
		stats, err := writeFile(ctx, gen, args, cfg.Output.Path)
		if err != nil {
			if ctx.Err() == nil {
				logger.Error().Err(err).Msg("regeneration failed, keeping previous document")
			}
			return
		}
		logger.Info().Int("blocks", stats.Blocks).Str("output", cfg.Output.Path).Msg("document updated")
	})
	if err != nil {
		return err
	}

	logger.Info().Strs("dirs", src.Dirs()).Msg("watching for changes")
	<-ctx.Done()
	return nil
}
