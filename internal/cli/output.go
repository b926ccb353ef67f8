package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvp-joe/docgen/internal/generator"
)

// writeFile generates the document and replaces path with it atomically.
// A failed run leaves any previous document in place.
func writeFile(ctx context.Context, gen *generator.Generator, args []string, path string) (*generator.Stats, error) {
	var buf bytes.Buffer
	stats, err := gen.Generate(ctx, args, &buf)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".docgen-*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := buf.WriteTo(tmp); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return nil, fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return nil, fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return stats, nil
}
