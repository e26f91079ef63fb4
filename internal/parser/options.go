package parser

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/resumelang/internal/ast"
	"github.com/dgallion1/resumelang/internal/markup"
	"github.com/dgallion1/resumelang/internal/source"
	"github.com/dgallion1/resumelang/internal/transform"
)

// Mode selects how a parse reacts to a fatal error.
type Mode int

const (
	// ModeStrict stops at the first error and returns it with the partial tree.
	ModeStrict Mode = iota
	// ModeBestEffort stops the failing document, logs the error and returns
	// the partial tree without an error. An importing document keeps going.
	ModeBestEffort
)

func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeBestEffort:
		return "best_effort"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses "strict" or "best_effort".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return ModeStrict, nil
	case "best_effort", "best-effort", "besteffort":
		return ModeBestEffort, nil
	default:
		return ModeStrict, fmt.Errorf("unknown parse mode: %s", s)
	}
}

// DefaultMaxImportDepth bounds nested @import chains.
const DefaultMaxImportDepth = 32

// Observer receives parse events, e.g. for metrics.
type Observer interface {
	ParseFinished(mode Mode, root *ast.Root, d time.Duration, err error)
	ImportResolved(path string, err error)
}

// Option configures a Parser.
type Option func(*config)

type config struct {
	rootDir  string
	reader   source.Reader
	renderer markup.Renderer
	pipeline transform.Pipeline
	log      *slog.Logger
	mode     Mode
	maxDepth int
	observer Observer
}

func defaultConfig() config {
	return config{
		rootDir:  ".",
		reader:   source.Empty(),
		renderer: markup.New(),
		pipeline: transform.Default(),
		log:      slog.New(slog.DiscardHandler),
		mode:     ModeStrict,
		maxDepth: DefaultMaxImportDepth,
	}
}

// WithRootDir sets the directory @import paths are joined with.
func WithRootDir(dir string) Option {
	return func(c *config) {
		if dir != "" {
			c.rootDir = dir
		}
	}
}

// WithReader sets the collaborator that loads imported documents.
func WithReader(r source.Reader) Option {
	return func(c *config) {
		if r != nil {
			c.reader = r
		}
	}
}

// WithRenderer sets the collaborator that renders rich-text bodies.
func WithRenderer(r markup.Renderer) Option {
	return func(c *config) {
		if r != nil {
			c.renderer = r
		}
	}
}

// WithPipeline replaces the literal transform pipeline.
func WithPipeline(p transform.Pipeline) Option {
	return func(c *config) {
		c.pipeline = p
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(c *config) {
		if log != nil {
			c.log = log
		}
	}
}

func WithMode(m Mode) Option {
	return func(c *config) {
		c.mode = m
	}
}

// WithMaxImportDepth bounds nested imports. Values below 1 keep the default.
func WithMaxImportDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}
