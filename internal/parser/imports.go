package parser

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/dgallion1/resumelang/internal/transform"
)

// Extension is the suffix every imported document carries.
const Extension = ".resume"

// NormalizeImportPath unquotes p and gives it exactly one .resume suffix.
func NormalizeImportPath(p string) string {
	p = transform.UnquoteString(p)
	return strings.TrimSuffix(p, Extension) + Extension
}

// JoinImportPath joins an import path with the root directory. A leading
// "./" on the root is kept so readers keyed by relative paths still match.
func JoinImportPath(rootDir, p string) string {
	joined := rootDir + "/" + p
	for _, pair := range [][2]string{{"/./", "/"}, {"//", "/"}} {
		for strings.Contains(joined, pair[0]) {
			joined = strings.ReplaceAll(joined, pair[0], pair[1])
		}
	}
	return joined
}

// resolveImport reads, parses and splices the document named by directive.
func (b *builder) resolveImport(directive string) error {
	if !strings.HasPrefix(strings.TrimSpace(directive), `"`) {
		return &ImportError{Directive: directive, Chain: b.chain, Err: ErrMalformedImport}
	}

	target := JoinImportPath(b.p.cfg.rootDir, NormalizeImportPath(directive))
	log := b.log.With("import_path", target)

	if err := b.checkChain(target); err != nil {
		b.observeImport(target, err)
		return &ImportError{Directive: directive, Path: target, Chain: b.chain, Err: err}
	}

	src, err := b.p.cfg.reader.ReadFile(target)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrImportRead, err)
		b.observeImport(target, err)
		return &ImportError{Directive: directive, Path: target, Chain: b.chain, Err: err}
	}

	log.Debug("resolving import", "bytes", len(src))
	chain := append(slices.Clone(b.chain), target)
	child, err := b.p.build(src, chain)
	b.observeImport(target, err)

	// Partial children are kept even when the import failed.
	b.appendNode(child.Children...)
	if err != nil {
		// In best-effort mode the importing document carries on.
		return b.p.settle(&ImportError{Directive: directive, Path: target, Chain: b.chain, Err: err}, chain, child)
	}
	return nil
}

func (b *builder) checkChain(target string) error {
	if len(b.chain) >= b.p.cfg.maxDepth {
		return fmt.Errorf("%w: limit %d", ErrImportDepth, b.p.cfg.maxDepth)
	}
	clean := path.Clean(target)
	for _, seen := range b.chain {
		if path.Clean(seen) == clean {
			return fmt.Errorf("%w: %s", ErrImportCycle, strings.Join(append(slices.Clone(b.chain), target), " -> "))
		}
	}
	return nil
}

func (b *builder) observeImport(target string, err error) {
	if b.p.cfg.observer != nil {
		b.p.cfg.observer.ImportResolved(target, err)
	}
}
