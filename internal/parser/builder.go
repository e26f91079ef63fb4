package parser

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/resumelang/internal/ast"
	"github.com/dgallion1/resumelang/internal/cursor"
	"github.com/dgallion1/resumelang/internal/transform"
)

type keyword int

const (
	kwSection keyword = iota + 1
	kwText
	kwEnd
	kwLabel
	kwURL
	kwDate
	kwImport
)

var keywords = map[string]keyword{
	"section": kwSection,
	"text":    kwText,
	"end":     kwEnd,
	"label":   kwLabel,
	"url":     kwURL,
	"date":    kwDate,
	"@import": kwImport,
}

// maxKeywordLen is the byte length of the longest keyword.
const maxKeywordLen = len("section")

// builder dispatches keywords for one document. Statement bodies are read
// directly off the cursor; only the text between statements goes through
// the collector.
type builder struct {
	p     *Parser
	log   *slog.Logger
	cur   *cursor.Cursor
	chain []string

	root  *ast.Root
	stack []*ast.Node // open sections, innermost last

	// collector holds unclassified runes between statements. It stops
	// growing once it is longer than any keyword, since it can no longer
	// match one.
	collector []byte
}

func newBuilder(p *Parser, src string, chain []string) *builder {
	return &builder{
		p:     p,
		log:   p.cfg.log.With("depth", len(chain)),
		cur:   cursor.New(src),
		chain: chain,
		root:  &ast.Root{},
	}
}

func (b *builder) run() error {
	for {
		r := b.cur.Next()
		if r == cursor.EOF {
			return nil
		}
		if err := b.scan(r); err != nil {
			return err
		}
	}
}

// scan accumulates runes between statements and dispatches keywords.
func (b *builder) scan(r rune) error {
	if len(b.collector) < maxKeywordLen {
		candidate := utf8.AppendRune(b.collector, r)
		if kw, ok := keywords[string(candidate)]; ok {
			b.collector = b.collector[:0]
			return b.dispatch(kw, string(candidate))
		}
	}
	if unicode.IsSpace(r) {
		return nil
	}
	if len(b.collector) <= maxKeywordLen {
		b.collector = utf8.AppendRune(b.collector, r)
	}
	return nil
}

func (b *builder) dispatch(kw keyword, word string) error {
	switch kw {
	case kwSection:
		b.openSection(strings.TrimSpace(b.cur.ReadUntil('\n')))
	case kwLabel:
		id := b.cur.ReadUntil(':')
		b.addLabel(id, b.cur.ReadUntil('\n'))
	case kwText:
		b.addRichText(b.cur.ReadUntil(':'))
	case kwImport:
		return b.resolveImport(b.cur.ReadUntil('\n'))
	case kwEnd:
		b.closeSection()
	case kwURL, kwDate:
		// Only meaningful inside a literal.
		b.log.Debug("ignoring literal keyword outside a statement", "keyword", word)
	}
	return nil
}

// insertion returns the node new statements attach to, or nil for the root.
func (b *builder) insertion() *ast.Node {
	if len(b.stack) == 0 {
		return nil
	}
	return b.stack[len(b.stack)-1]
}

func (b *builder) appendNode(nodes ...*ast.Node) {
	if top := b.insertion(); top != nil {
		top.Append(nodes...)
		return
	}
	b.root.Append(nodes...)
}

func (b *builder) openSection(id string) {
	n := ast.NewSection(id)
	b.appendNode(n)
	b.stack = append(b.stack, n)
}

// closeSection pops the insertion point. Closing at the root is a no-op.
func (b *builder) closeSection() {
	if len(b.stack) == 0 {
		b.log.Debug("unmatched end at root")
		return
	}
	b.stack = b.stack[:len(b.stack)-1]
}

// addLabel appends a label. A label with no colon before end of input has
// an empty value.
func (b *builder) addLabel(rawID, rawValue string) {
	id := b.p.cfg.pipeline.Run(rawID)
	value := transform.ToLabelValue(b.p.cfg.pipeline.Run(rawValue))
	b.appendNode(ast.NewLabel(id, value))
}
