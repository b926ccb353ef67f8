package watcher

import "context"

// FileWatcher monitors input files for changes with debouncing.
type FileWatcher interface {
	// Start begins watching the input directories, calling callback with
	// debounced file changes.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error
}
