// Package loader reads SPL source files from disk.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
)

// Source is a single loaded source file: its path and raw text.
type Source struct {
	Path    string
	Content string
}

// ReadFiles loads each path into memory, normalizing the recorded path to
// forward slashes so diagnostics are stable across platforms.
func ReadFiles(paths []string) ([]Source, error) {
	var out []Source
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		out = append(out, Source{Path: filepath.ToSlash(p), Content: string(b)})
	}
	return out, nil
}
