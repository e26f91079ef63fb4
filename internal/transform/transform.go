// Package transform reinterprets raw literal text as strings, dates and urls.
package transform

import (
	"strings"
	"time"
	"unicode"

	"github.com/dgallion1/resumelang/internal/ast"
)

// Stage transforms a string literal. Returning a typed literal ends the pipeline.
type Stage func(string) ast.Literal

// Pipeline runs stages in order until one yields a typed node.
type Pipeline []Stage

// Default returns the standard pipeline: unquote, date, url.
func Default() Pipeline {
	return Pipeline{Unquote, Date, URL}
}

// Run applies the pipeline to raw.
func (p Pipeline) Run(raw string) ast.Literal {
	lit := ast.Str(raw)
	for _, stage := range p {
		if lit.IsNode() {
			return lit
		}
		lit = stage(lit.String())
	}
	return lit
}

// ToLabelValue wraps a string literal as a text node. Typed literals are
// returned as is.
func ToLabelValue(lit ast.Literal) *ast.Node {
	if lit.IsNode() {
		return lit.Node()
	}
	return ast.NewText(lit.String())
}

// Unquote trims s and strips one pair of surrounding double quotes.
func Unquote(s string) ast.Literal {
	return ast.Str(unquote(s))
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// UnquoteString is Unquote for callers that need the plain string.
func UnquoteString(s string) string {
	return unquote(s)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
	"Jan 2006",
	"2006-01",
	"2006",
}

// Date turns `date <value>` into a date node when value parses. Anything
// else passes through unchanged.
func Date(s string) ast.Literal {
	rest, ok := cutKeyword(s, "date")
	if !ok {
		return ast.Str(s)
	}
	rest = strings.TrimSpace(rest)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, rest); err == nil {
			return ast.Typed(ast.NewDate(t.UTC()))
		}
	}
	return ast.Str(s)
}

// URL turns `url <link>` or `url <alias> <link>` into a url node. Whitespace
// inside double quotes does not split segments.
func URL(s string) ast.Literal {
	rest, ok := cutKeyword(s, "url")
	if !ok {
		return ast.Str(s)
	}
	segments := splitQuoted(rest)
	switch len(segments) {
	case 1:
		return ast.Typed(ast.NewURL(segments[0], segments[0]))
	case 2:
		return ast.Typed(ast.NewURL(segments[0], segments[1]))
	default:
		return ast.Str(s)
	}
}

// cutKeyword trims s and removes a leading keyword. The keyword must be
// followed by whitespace, a quote or the end of s.
func cutKeyword(s, keyword string) (string, bool) {
	s = strings.TrimSpace(s)
	rest, ok := strings.CutPrefix(s, keyword)
	if !ok {
		return s, false
	}
	if rest == "" {
		return rest, true
	}
	r := []rune(rest)[0]
	if !unicode.IsSpace(r) && r != '"' {
		return s, false
	}
	return rest, true
}

// splitQuoted splits on whitespace outside double quotes. A quoted segment
// ends at its closing quote, even if text follows without a space.
func splitQuoted(s string) []string {
	var (
		segments []string
		current  strings.Builder
		quoted   bool
	)
	flush := func() {
		if seg := strings.TrimSpace(current.String()); seg != "" {
			segments = append(segments, seg)
		}
		current.Reset()
	}
	for _, r := range s {
		switch {
		case r == '"':
			if quoted {
				flush()
			}
			quoted = !quoted
		case unicode.IsSpace(r) && !quoted:
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return segments
}
