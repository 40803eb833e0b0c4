package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"mahdl/internal/source"
)

// Cursor walks the bytes of one MaHDL source file up to an exclusive limit.
// Scanners never index the file themselves: they look ahead with PeekAt,
// consume with Bump, BumpWhile and EatPair, and cut token text with Text.
type Cursor struct {
	file  *source.File
	off   uint32
	limit uint32
}

// NewCursor starts at the first byte of f. The limit is the end of the file.
func NewCursor(f *source.File) Cursor {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("%s: source too large: %w", f.Path, err))
	}
	return Cursor{file: f, limit: n}
}

// Pos is the offset of the next unread byte.
func (c *Cursor) Pos() uint32 { return c.off }

// Limit is the exclusive end of the readable window.
func (c *Cursor) Limit() uint32 { return c.limit }

// Remaining counts the unread bytes.
func (c *Cursor) Remaining() uint32 { return c.limit - c.off }

func (c *Cursor) EOF() bool { return c.off >= c.limit }

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt returns the byte n positions ahead, or 0 past the limit.
func (c *Cursor) PeekAt(n uint32) byte {
	if n >= c.Remaining() {
		return 0
	}
	return c.file.Content[c.off+n]
}

// Bump consumes one byte and returns it; 0 at EOF.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.file.Content[c.off]
	c.off++
	return b
}

// BumpWhile consumes bytes while pred holds and returns how many it took.
func (c *Cursor) BumpWhile(pred func(byte) bool) uint32 {
	start := c.off
	for c.off < c.limit && pred(c.file.Content[c.off]) {
		c.off++
	}
	return c.off - start
}

// BumpRune consumes a whole UTF-8 sequence (one byte if it is malformed).
func (c *Cursor) BumpRune() {
	if c.EOF() {
		return
	}
	_, sz := utf8.DecodeRune(c.file.Content[c.off:c.limit])
	c.off += uint32(sz) //nolint:gosec // sz <= utf8.UTFMax
}

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.Peek() != b || c.EOF() {
		return false
	}
	c.off++
	return true
}

// EatPair consumes a then b if both are next, for two-byte operators and
// comment delimiters.
func (c *Cursor) EatPair(a, b byte) bool {
	if c.Remaining() < 2 || c.file.Content[c.off] != a || c.file.Content[c.off+1] != b {
		return false
	}
	c.off += 2
	return true
}

// SkipToLimit drops the rest of the window.
func (c *Cursor) SkipToLimit() { c.off = c.limit }

// Mark remembers a position to cut a span or text from later.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.off) }

// Reset rewinds to m.
func (c *Cursor) Reset(m Mark) { c.off = uint32(m) }

// SpanFrom covers the bytes read since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file.ID, Start: uint32(m), End: c.off}
}

// Here is the empty span at the current position.
func (c *Cursor) Here() source.Span {
	return source.Span{File: c.file.ID, Start: c.off, End: c.off}
}

// Text copies the bytes read since m.
func (c *Cursor) Text(m Mark) string {
	return string(c.file.Content[m:c.off])
}
