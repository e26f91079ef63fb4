package parser

import (
	"strings"
	"unicode"

	"github.com/dgallion1/resumelang/internal/ast"
)

const endToken = "end"

// terminator locates the closing `end` line of a text body.
type terminator struct {
	bodyEnd int  // body is body[:bodyEnd]
	resume  int  // index of the last rune of the `end` token
	found   bool // false when the body runs to end of input
}

// findTerminator scans body for the first line, after a newline, whose
// trimmed content is exactly `end`. Text that merely contains the word, such
// as "it will end." or "end end", does not terminate the block.
func findTerminator(body []rune) terminator {
	for i := 0; i < len(body); i++ {
		if body[i] != '\n' {
			continue
		}
		lineStart := i + 1
		lineEnd := lineStart
		for lineEnd < len(body) && body[lineEnd] != '\n' {
			lineEnd++
		}
		if tok, ok := endLine(body[lineStart:lineEnd]); ok {
			return terminator{
				bodyEnd: i,
				resume:  lineStart + tok + len(endToken) - 1,
				found:   true,
			}
		}
		i = lineEnd - 1
	}
	return terminator{bodyEnd: len(body), resume: len(body) - 1}
}

// endLine reports whether line trims to `end` and, if so, the offset of the
// token within line.
func endLine(line []rune) (int, bool) {
	start := 0
	for start < len(line) && unicode.IsSpace(line[start]) {
		start++
	}
	stop := len(line)
	for stop > start && unicode.IsSpace(line[stop-1]) {
		stop--
	}
	if string(line[start:stop]) != endToken {
		return 0, false
	}
	return start, true
}

// addRichText consumes the rest of the input as a text body, locates its
// terminator and rewinds the cursor to just after it. The cursor starts on
// the colon after the id, or past the end of input.
func (b *builder) addRichText(rawID string) {
	start := b.cur.Pos() + 1
	rest := b.cur.Rest()
	t := findTerminator(rest)
	if t.found {
		b.cur.Seek(start + t.resume)
	} else {
		b.log.Debug("text block not terminated, body runs to end of input", "id", strings.TrimSpace(rawID))
	}

	body := strings.TrimRightFunc(string(rest[:t.bodyEnd]), unicode.IsSpace)
	transformed, err := b.p.cfg.renderer.Render(body)
	if err != nil {
		b.log.Warn("rendering text block failed", "id", strings.TrimSpace(rawID), "error", err)
		transformed = ""
	}

	id := b.p.cfg.pipeline.Run(rawID)
	b.appendNode(ast.NewRichText(id, strings.TrimSpace(body), transformed))
}
