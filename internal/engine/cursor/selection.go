package cursor

import (
	"fmt"

	"github.com/dshills/linecomment/internal/engine/buffer"
)

// CharOffset is an alias for buffer.CharOffset for convenience.
type CharOffset = buffer.CharOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection represents a range of selected text.
// When Anchor == Head, this represents a cursor with no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor CharOffset // Where selection started
	Head   CharOffset // Current cursor position
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head CharOffset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewCursorSelection creates a selection representing just a cursor (no extent).
func NewCursorSelection(offset CharOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// From returns the lower bound of the selection.
func (s Selection) From() CharOffset {
	return min(s.Anchor, s.Head)
}

// To returns the upper bound of the selection.
func (s Selection) To() CharOffset {
	return max(s.Anchor, s.Head)
}

// IsEmpty returns true if the selection has no extent (just a cursor).
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Len returns the length of the selection in characters.
func (s Selection) Len() int {
	return s.To() - s.From()
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return Range{Start: s.From(), End: s.To()}
}

// IsForward returns true if the selection extends forward (head >= anchor).
func (s Selection) IsForward() bool {
	return s.Head >= s.Anchor
}

// Overlaps returns true if this selection overlaps with another.
func (s Selection) Overlaps(other Selection) bool {
	return s.From() < other.To() && other.From() < s.To()
}

// Merge merges two selections into one forward selection covering both.
func (s Selection) Merge(other Selection) Selection {
	return Selection{
		Anchor: min(s.From(), other.From()),
		Head:   max(s.To(), other.To()),
	}
}

// Clamp returns a selection clamped to the valid range [0, maxOffset].
func (s Selection) Clamp(maxOffset CharOffset) Selection {
	clamp := func(v CharOffset) CharOffset {
		return max(0, min(v, maxOffset))
	}
	return Selection{Anchor: clamp(s.Anchor), Head: clamp(s.Head)}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	return fmt.Sprintf("Selection(%d->%d)", s.Anchor, s.Head)
}
