package buffer

import (
	"sort"
	"strings"
)

// content is an immutable rune sequence with a line-start index.
// Buffers replace their content wholesale on every edit, so a content value
// may be shared freely between a buffer and any number of snapshots.
type content struct {
	runes      []rune
	lineStarts []int // lineStarts[0] is always 0
}

func newContent(s string) *content {
	return fromRunes([]rune(s))
}

func fromRunes(runes []rune) *content {
	starts := []int{0}
	for i, r := range runes {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &content{runes: runes, lineStarts: starts}
}

func (c *content) lenChars() int {
	return len(c.runes)
}

func (c *content) lineCount() int {
	return len(c.lineStarts)
}

// lineToChar returns the offset of the first character of line.
// Lines past the end map to the end of the text.
func (c *content) lineToChar(line int) int {
	if line <= 0 {
		return 0
	}
	if line >= len(c.lineStarts) {
		return len(c.runes)
	}
	return c.lineStarts[line]
}

// charToLine returns the line containing offset. A newline character belongs
// to the line it terminates; the end-of-text offset belongs to the last line.
func (c *content) charToLine(offset int) int {
	if offset <= 0 {
		return 0
	}
	if offset > len(c.runes) {
		offset = len(c.runes)
	}
	return sort.Search(len(c.lineStarts), func(i int) bool {
		return c.lineStarts[i] > offset
	}) - 1
}

// lineEnd returns the offset just past the last character of line,
// excluding its terminator.
func (c *content) lineEnd(line int) int {
	if line+1 < len(c.lineStarts) {
		return c.lineStarts[line+1] - 1
	}
	return len(c.runes)
}

func (c *content) line(line int) string {
	if line < 0 || line >= len(c.lineStarts) {
		return ""
	}
	return string(c.runes[c.lineStarts[line]:c.lineEnd(line)])
}

func (c *content) slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(c.runes) {
		end = len(c.runes)
	}
	if start >= end {
		return ""
	}
	return string(c.runes[start:end])
}

func (c *content) String() string {
	return string(c.runes)
}

// apply returns new content with edits applied. Edits must already be
// validated: ascending, non-overlapping and in bounds.
func (c *content) apply(edits []Edit) *content {
	size := len(c.runes)
	for _, e := range edits {
		size += len([]rune(e.NewText)) - e.Range.Len()
	}

	out := make([]rune, 0, size)
	cursor := 0
	for _, e := range edits {
		out = append(out, c.runes[cursor:e.Range.Start]...)
		out = append(out, []rune(e.NewText)...)
		cursor = e.Range.End
	}
	out = append(out, c.runes[cursor:]...)

	return fromRunes(out)
}

// remapLineEndings carries per-line terminators through edits. endings[i] is
// the terminator of line i in c. Terminators removed by an edit are dropped,
// newlines inserted by an edit get fill.
func (c *content) remapLineEndings(edits []Edit, endings []LineEnding, fill LineEnding) []LineEnding {
	out := make([]LineEnding, 0, len(endings))
	next := 0
	for _, e := range edits {
		// The number of newlines before an offset equals its line index.
		first := c.charToLine(e.Range.Start)
		last := c.charToLine(e.Range.End)
		out = append(out, endings[next:first]...)
		for n := strings.Count(e.NewText, "\n"); n > 0; n-- {
			out = append(out, fill)
		}
		next = last
	}
	return append(out, endings[next:]...)
}
