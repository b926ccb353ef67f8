package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mvp-joe/docgen/internal/render"
	"github.com/spf13/cobra"
)

func newAssetsCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "assets DIR",
		Short: "Write the default stylesheet and script into DIR",
		Long: `The generated document links style.css and head.js by default.
Assets writes docgen's versions of both files next to the document.
Existing files are kept unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := writeAssets(args[0], force)
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing files")

	return cmd
}

// writeAssets copies the embedded assets into dir and returns the paths
// written.
func writeAssets(dir string, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	var written []string
	err := fs.WalkDir(render.Assets, "assets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		target := filepath.Join(dir, d.Name())
		if !force {
			if _, err := os.Stat(target); err == nil {
				return nil
			}
		}

		data, err := render.Assets.ReadFile(path)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		written = append(written, target)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}
