// Package source provides the file readers used to resolve @import targets.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Reader returns the contents of the document at path.
type Reader interface {
	ReadFile(path string) (string, error)
}

// ReaderFunc adapts a function to Reader.
type ReaderFunc func(path string) (string, error)

func (f ReaderFunc) ReadFile(path string) (string, error) {
	return f(path)
}

// Empty returns a reader that yields an empty document for every path.
func Empty() Reader {
	return ReaderFunc(func(string) (string, error) { return "", nil })
}

// Map is an in-memory set of documents keyed by path. Keys are compared after
// cleaning, so "./a.resume" and "a.resume" name the same document.
type Map map[string]string

func (m Map) ReadFile(p string) (string, error) {
	if src, ok := m[p]; ok {
		return src, nil
	}
	clean := path.Clean(p)
	for k, src := range m {
		if path.Clean(k) == clean {
			return src, nil
		}
	}
	return "", fmt.Errorf("read %s: %w", p, fs.ErrNotExist)
}

// Dir reads documents from disk below a base directory.
type Dir struct {
	base string
}

// NewDir returns a reader confined to base.
func NewDir(base string) *Dir {
	return &Dir{base: base}
}

// ReadFile resolves p relative to the working directory, as the parser joins
// import paths with its root directory itself. Paths that resolve outside the
// base directory are rejected.
func (d *Dir) ReadFile(p string) (string, error) {
	full, err := d.resolve(p)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", p, err)
	}
	return string(data), nil
}

func (d *Dir) resolve(p string) (string, error) {
	base, err := filepath.Abs(d.base)
	if err != nil {
		return "", fmt.Errorf("resolve base %s: %w", d.base, err)
	}
	full, err := filepath.Abs(filepath.FromSlash(p))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}
	rel, err := filepath.Rel(base, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("read %s: outside %s: %w", p, d.base, fs.ErrPermission)
	}
	return full, nil
}
