package markup

import (
	"strings"
	"testing"
)

func TestMarkdown_Render(t *testing.T) {
	input := "# heading\n\nsome *italics*, some **bold** and\n- a list\n"
	out, err := New().Render(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"<h1>heading</h1>",
		"<em>italics</em>",
		"<strong>bold</strong>",
		"<li>a list</li>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestMarkdown_GFM(t *testing.T) {
	out, err := New().Render("~~gone~~ and https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "<del>gone</del>") {
		t.Errorf("expected strikethrough, got %q", out)
	}
	if !strings.Contains(out, `<a href="https://example.com">`) {
		t.Errorf("expected autolink, got %q", out)
	}
}

func TestMarkdown_EmptyInput(t *testing.T) {
	out, err := New().Render("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty output, got %q", out)
	}
}

func TestRendererFunc(t *testing.T) {
	r := RendererFunc(func(src string) (string, error) {
		return strings.ToUpper(src), nil
	})
	out, err := r.Render("abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ABC" {
		t.Errorf("expected %q, got %q", "ABC", out)
	}
}
