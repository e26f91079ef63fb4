package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/resumelang/internal/ast"
	"github.com/dgallion1/resumelang/internal/parser"
	"github.com/dgallion1/resumelang/internal/source"
)

// docFlags are shared by every command that reads a document.
type docFlags struct {
	root       string
	bestEffort bool
	maxDepth   int
}

// load parses the document at path. Imports resolve against flags.root,
// or the document's directory when it is empty.
func (f docFlags) load(path string, log *slog.Logger) (*ast.Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	root := f.root
	if root == "" {
		root = filepath.Dir(path)
	}
	mode := parser.ModeStrict
	if f.bestEffort {
		mode = parser.ModeBestEffort
	}

	p := parser.New(
		parser.WithRootDir(filepath.ToSlash(root)),
		parser.WithReader(source.NewDir(root)),
		parser.WithLogger(log.With("document", path)),
		parser.WithMode(mode),
		parser.WithMaxImportDepth(f.maxDepth),
	)
	tree, err := p.Parse(string(data))
	if err != nil {
		return tree, fmt.Errorf("parse %s: %w", path, err)
	}
	return tree, nil
}
