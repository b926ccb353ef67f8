// Package source resolves input paths to an ordered file list and reads the
// files line by line, in list order.
package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrOpen indicates an input that is missing or unreadable.
	ErrOpen = errors.New("cannot open input")

	// ErrNoInputs indicates an empty input list.
	ErrNoInputs = errors.New("no input files")
)

// maxLineSize bounds a single source line.
const maxLineSize = 1024 * 1024

// Options control directory expansion.
type Options struct {
	// Include patterns select files inside directory arguments.
	Include []string
	// Ignore patterns skip files and directories inside directory arguments.
	Ignore []string
}

// Line is one line of an input file without its line terminator.
type Line struct {
	File string
	No   int
	Text string
}

// Source is a resolved, verified list of input files.
type Source struct {
	files []string
	roots []string // directory arguments
}

// Open resolves paths into files. File arguments are kept in the given order;
// directory arguments expand in place to their matching files in lexical
// order. Every file is opened once up front so an unreadable input fails the
// run before anything is produced.
func Open(paths []string, opts Options) (*Source, error) {
	if len(paths) == 0 {
		return nil, ErrNoInputs
	}

	d, err := newDiscovery(opts.Include, opts.Ignore)
	if err != nil {
		return nil, err
	}

	var files, roots []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOpen, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		roots = append(roots, p)
		found, err := d.discover(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrOpen, err)
		}
		files = append(files, found...)
	}

	for _, f := range files {
		if err := checkReadable(f); err != nil {
			return nil, err
		}
	}

	return &Source{files: files, roots: roots}, nil
}

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOpen, err)
	}
	return f.Close()
}

// Files returns the resolved files in reading order.
func (s *Source) Files() []string {
	return s.files
}

// Dirs returns the distinct directories to watch for changes: the directory
// arguments, then the directories holding the resolved files.
func (s *Source) Dirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	candidates := append([]string(nil), s.roots...)
	for _, f := range s.files {
		candidates = append(candidates, filepath.Dir(f))
	}
	for _, dir := range candidates {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// Scan calls fn for every line of path. It stops at the first error from fn
// and checks ctx between lines.
func (s *Source) Scan(ctx context.Context, path string, fn func(Line) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOpen, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	no := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		no++
		line := Line{File: path, No: no, Text: strings.TrimSuffix(scanner.Text(), "\r")}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}
