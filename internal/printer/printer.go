// Package printer renders an AST back to resume language source.
package printer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dgallion1/resumelang/internal/ast"
)

const indent = "  "

// Fprint writes the canonical source for root to w.
func Fprint(w io.Writer, root *ast.Root) error {
	var buf bytes.Buffer
	p := &printer{buf: &buf}
	for _, n := range root.Children {
		if err := p.node(n, 0); err != nil {
			return err
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// Sprint returns the canonical source for root.
func Sprint(root *ast.Root) (string, error) {
	var sb strings.Builder
	if err := Fprint(&sb, root); err != nil {
		return "", err
	}
	return sb.String(), nil
}

type printer struct {
	buf *bytes.Buffer
}

func (p *printer) line(depth int, s string) {
	p.buf.WriteString(strings.Repeat(indent, depth))
	p.buf.WriteString(s)
	p.buf.WriteByte('\n')
}

func (p *printer) node(n *ast.Node, depth int) error {
	switch n.Type {
	case ast.TypeSection:
		id, _ := n.Value.(string)
		p.line(depth, "section "+id)
		for _, c := range n.Children {
			if err := p.node(c, depth+1); err != nil {
				return err
			}
		}
		p.line(depth, "end")

	case ast.TypeLabel:
		l, ok := n.Value.(ast.Label)
		if !ok {
			return fmt.Errorf("label node holds %T", n.Value)
		}
		id, err := idLiteral(l.ID)
		if err != nil {
			return err
		}
		value := ""
		if l.Value != nil {
			if value, err = inline(l.Value); err != nil {
				return err
			}
		}
		p.line(depth, "label "+id+":"+value)

	case ast.TypeRichText:
		rt, ok := n.Value.(ast.RichText)
		if !ok {
			return fmt.Errorf("rich-text node holds %T", n.Value)
		}
		id, err := idLiteral(rt.ID)
		if err != nil {
			return err
		}
		p.line(depth, "text "+id+":")
		// Body lines are written as is; indenting them would change the body.
		if rt.Original != "" {
			p.buf.WriteString(rt.Original)
			p.buf.WriteByte('\n')
		}
		p.line(depth, "end")

	default:
		return fmt.Errorf("cannot print %s node as a statement", n.Type)
	}
	return nil
}

// dateIDLayout keeps date ids free of colons.
const dateIDLayout = "2006-01-02"

// idLiteral renders a label or text id. An id ends at the first colon, so an
// id that would print one is an error.
func idLiteral(l ast.Literal) (string, error) {
	var (
		s   string
		err error
	)
	switch {
	case !l.IsNode():
		s = quoteText(l.String())
	case l.Node().Type == ast.TypeDate:
		s, err = dateID(l.Node())
	default:
		s, err = inline(l.Node())
	}
	if err != nil {
		return "", err
	}
	if strings.Contains(s, ":") {
		return "", fmt.Errorf("cannot print id %q: ids end at the first colon", s)
	}
	return s, nil
}

// dateID renders a date id by day. A time of day has no colon-free form.
func dateID(n *ast.Node) (string, error) {
	t, ok := n.Value.(time.Time)
	if !ok {
		return "", fmt.Errorf("date node holds %T", n.Value)
	}
	t = t.UTC()
	if !t.Equal(t.Truncate(24 * time.Hour)) {
		return "", fmt.Errorf("cannot print date id %s: time of day needs a colon", t.Format(time.RFC3339))
	}
	return "date " + t.Format(dateIDLayout), nil
}

// inline renders a value node as it appears after a label colon.
func inline(n *ast.Node) (string, error) {
	switch n.Type {
	case ast.TypeText:
		s, _ := n.Value.(string)
		return quoteText(s), nil
	case ast.TypeURL:
		u, ok := n.Value.(ast.URL)
		if !ok {
			return "", fmt.Errorf("url node holds %T", n.Value)
		}
		if u.Alias == u.Link {
			return "url " + quoteSegment(u.Link), nil
		}
		return `url "` + u.Alias + `" ` + quoteSegment(u.Link), nil
	case ast.TypeDate:
		t, ok := n.Value.(time.Time)
		if !ok {
			return "", fmt.Errorf("date node holds %T", n.Value)
		}
		return "date " + t.UTC().Format(time.RFC3339), nil
	default:
		return "", fmt.Errorf("cannot print %s node as a value", n.Type)
	}
}

// quoteText quotes s when trimming or unquoting would otherwise change it.
func quoteText(s string) string {
	if s != strings.TrimSpace(s) {
		return `"` + s + `"`
	}
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return `"` + s + `"`
	}
	return s
}

func quoteSegment(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}
