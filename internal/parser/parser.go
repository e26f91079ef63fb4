// Package parser compiles resume language source into an AST.
//
// The language is line oriented:
//
//	section Basic
//	  label Name: "Jane Doe"
//	  label Website: url "Home" https://example.com
//	  text Summary:
//	  Markdown body, closed by a line holding only `end`.
//	  end
//	end
//	@import "./education"
//
// Parsing is a single synchronous pass. Imports are resolved inline through
// the configured source.Reader and spliced into the importing scope.
package parser

import (
	"time"

	"github.com/dgallion1/resumelang/internal/ast"
)

// Parser holds immutable configuration and may be shared between goroutines.
type Parser struct {
	cfg config
}

// New returns a parser configured by opts.
func New(opts ...Option) *Parser {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Parser{cfg: cfg}
}

// Parse compiles src with a parser configured by opts.
func Parse(src string, opts ...Option) (*ast.Root, error) {
	return New(opts...).Parse(src)
}

// Parse compiles src. The returned root is never nil: on error it holds
// everything built before the failure.
func (p *Parser) Parse(src string) (*ast.Root, error) {
	start := time.Now()
	root, err := p.parse(src, nil)
	if p.cfg.observer != nil {
		p.cfg.observer.ParseFinished(p.cfg.mode, root, time.Since(start), err)
	}
	return root, err
}

// Mode reports the configured error policy.
func (p *Parser) Mode() Mode {
	return p.cfg.mode
}

// parse builds one document and applies the error policy.
func (p *Parser) parse(src string, chain []string) (*ast.Root, error) {
	root, err := p.build(src, chain)
	return root, p.settle(err, chain, root)
}

// build runs the builder over src. chain lists the import paths that led
// here. The error is returned whatever the mode.
func (p *Parser) build(src string, chain []string) (*ast.Root, error) {
	b := newBuilder(p, src, chain)
	err := b.run()
	return b.root, err
}

// settle drops err in best-effort mode after logging it.
func (p *Parser) settle(err error, chain []string, partial *ast.Root) error {
	if err == nil || p.cfg.mode != ModeBestEffort {
		return err
	}
	p.cfg.log.Warn("parse stopped early",
		"error", err,
		"depth", len(chain),
		"nodes", len(partial.Children),
	)
	return nil
}
