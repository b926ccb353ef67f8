package source

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

type discovery struct {
	include []compiledPattern
	ignore  []compiledPattern
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	var out []compiledPattern
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		out = append(out, compiledPattern{pattern: pattern, glob: g})
	}
	return out, nil
}

func newDiscovery(include, ignore []string) (*discovery, error) {
	d := &discovery{}
	var err error
	if d.include, err = compilePatterns(include); err != nil {
		return nil, err
	}
	if d.ignore, err = compilePatterns(ignore); err != nil {
		return nil, err
	}
	return d, nil
}

// ValidatePatterns reports the first pattern that does not compile.
func ValidatePatterns(patterns []string) error {
	_, err := compilePatterns(patterns)
	return err
}

// discover walks root and returns matching files in lexical order.
func (d *discovery) discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if entry.IsDir() {
			if d.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.shouldIgnore(relPath) || !matchesAnyPattern(relPath, d.include) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

// shouldIgnore checks if a path matches any ignore pattern.
func (d *discovery) shouldIgnore(relPath string) bool {
	if matchesAnyPattern(relPath, d.ignore) {
		return true
	}
	// A directory "build" matches the pattern "build/**".
	return matchesAnyPattern(relPath+"/**", d.ignore)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// Files directly under the root also match "**/" patterns, so "**/*.hh"
	// picks up both "roj.hh" and "lib/roj.hh".
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if !strings.HasPrefix(cp.pattern, "**/") {
				continue
			}
			if g, err := glob.Compile(strings.TrimPrefix(cp.pattern, "**/"), '/'); err == nil && g.Match(path) {
				return true
			}
		}
	}

	return false
}

// Extensions returns the file extensions named by simple "*.ext" patterns,
// with the leading dot.
func Extensions(patterns []string) []string {
	seen := make(map[string]bool)
	var exts []string
	for _, pattern := range patterns {
		ext := extractExtension(pattern)
		if ext != "" && !seen[ext] {
			seen[ext] = true
			exts = append(exts, ext)
		}
	}
	return exts
}

// extractExtension extracts the file extension from a glob pattern.
// Examples: "**/*.hh" -> ".hh", "*.c" -> ".c"
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
