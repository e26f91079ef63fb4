// Package markup renders rich-text bodies to HTML.
package markup

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Renderer converts markup source to HTML.
type Renderer interface {
	Render(src string) (string, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(src string) (string, error)

func (f RendererFunc) Render(src string) (string, error) {
	return f(src)
}

// Markdown renders GitHub-flavoured markdown with goldmark.
type Markdown struct {
	md goldmark.Markdown
}

// New returns a markdown renderer with tables, strikethrough, autolinks and
// task lists enabled.
func New() *Markdown {
	return &Markdown{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

func (m *Markdown) Render(src string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
