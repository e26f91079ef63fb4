// Package cursor provides a random-access walk over the runes of a source text.
package cursor

// EOF is returned for any read outside the source.
const EOF rune = -1

// Cursor is a position over a rune sequence. The position starts one before
// the first rune, so the first Advance returns the first rune.
type Cursor struct {
	runes []rune
	pos   int
}

// New returns a cursor over src positioned before its first rune.
func New(src string) *Cursor {
	return &Cursor{runes: []rune(src), pos: -1}
}

// Advance moves forward n runes and returns the rune at the new position.
func (c *Cursor) Advance(n int) rune {
	c.pos += n
	return c.at(c.pos)
}

// Next is Advance(1).
func (c *Cursor) Next() rune {
	return c.Advance(1)
}

// Retreat moves backward n runes and returns the rune at the new position.
func (c *Cursor) Retreat(n int) rune {
	c.pos -= n
	return c.at(c.pos)
}

// PeekAhead returns the rune n positions ahead without moving.
func (c *Cursor) PeekAhead(n int) rune {
	return c.at(c.pos + n)
}

// PeekBehind returns the rune n positions behind without moving.
func (c *Cursor) PeekBehind(n int) rune {
	return c.at(c.pos - n)
}

// Current returns the rune at the current position.
func (c *Cursor) Current() rune {
	return c.at(c.pos)
}

// Pos returns the current position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Seek sets the position. Out-of-range positions are allowed; reads there
// return EOF.
func (c *Cursor) Seek(pos int) {
	c.pos = pos
}

// slice returns the runes in [from, to) as a string, clamped to the source.
func (c *Cursor) slice(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(c.runes) {
		to = len(c.runes)
	}
	if from >= to {
		return ""
	}
	return string(c.runes[from:to])
}

// Rest returns every rune after the current position and moves the cursor
// onto the last rune of the source.
func (c *Cursor) Rest() []rune {
	start := c.pos + 1
	if start < 0 {
		start = 0
	}
	if start >= len(c.runes) {
		c.pos = len(c.runes)
		return nil
	}
	rest := c.runes[start:]
	c.pos = len(c.runes) - 1
	return rest
}

// ReadUntil advances past runes until stop or end of input and returns the
// runes read, excluding stop. The cursor is left on stop, or past the end.
func (c *Cursor) ReadUntil(stop rune) string {
	start := c.pos + 1
	for {
		r := c.Next()
		if r == EOF || r == stop {
			break
		}
	}
	return c.slice(start, c.pos)
}

func (c *Cursor) at(i int) rune {
	if i < 0 || i >= len(c.runes) {
		return EOF
	}
	return c.runes[i]
}
