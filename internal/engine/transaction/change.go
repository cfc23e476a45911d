package transaction

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/linecomment/internal/engine/buffer"
)

// Change replaces the characters in [Start, End) with Text.
// An insertion has Start == End and non-empty Text; a deletion has
// End > Start and empty Text.
type Change struct {
	Start int
	End   int
	Text  string
}

// NewInsert creates a change that inserts text at offset.
func NewInsert(offset int, text string) Change {
	return Change{Start: offset, End: offset, Text: text}
}

// NewDelete creates a change that deletes [start, end).
func NewDelete(start, end int) Change {
	return Change{Start: start, End: end}
}

// IsInsert returns true if this is a pure insertion.
func (c Change) IsInsert() bool {
	return c.Start == c.End && c.Text != ""
}

// IsDelete returns true if this is a pure deletion.
func (c Change) IsDelete() bool {
	return c.End > c.Start && c.Text == ""
}

// Delta returns the change in text length, in characters.
func (c Change) Delta() int {
	return utf8.RuneCountInString(c.Text) - (c.End - c.Start)
}

// String returns a human-readable representation of the change.
func (c Change) String() string {
	switch {
	case c.IsInsert():
		return fmt.Sprintf("Insert(%d, %q)", c.Start, c.Text)
	case c.IsDelete():
		return fmt.Sprintf("Delete[%d:%d)", c.Start, c.End)
	default:
		return fmt.Sprintf("Replace[%d:%d) with %q", c.Start, c.End, c.Text)
	}
}

func (c Change) toEdit() buffer.Edit {
	return buffer.NewEdit(buffer.NewRange(c.Start, c.End), c.Text)
}
