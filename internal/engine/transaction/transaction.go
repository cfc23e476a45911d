package transaction

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/linecomment/internal/engine/buffer"
	"github.com/dshills/linecomment/internal/engine/cursor"
)

// Document is the buffer surface a transaction is applied to.
type Document interface {
	LenChars() int
	ApplyEdits(edits []buffer.Edit) error
}

// Source is the read surface needed to capture the text a transaction replaces.
type Source interface {
	LenChars() int
	Slice(start, end int) string
}

// Transaction is an ordered batch of changes applied as a single unit.
type Transaction struct {
	changes []Change
}

// New creates a transaction from changes in ascending offset order.
func New(changes ...Change) *Transaction {
	return &Transaction{changes: changes}
}

// Changes returns a copy of the changes.
func (t *Transaction) Changes() []Change {
	out := make([]Change, len(t.changes))
	copy(out, t.changes)
	return out
}

// Len returns the number of changes.
func (t *Transaction) Len() int {
	return len(t.changes)
}

// IsEmpty returns true if the transaction makes no changes.
func (t *Transaction) IsEmpty() bool {
	return len(t.changes) == 0
}

// Validate checks that the changes are in bounds, well formed, ascending and
// non-overlapping for a text of lenChars characters.
func (t *Transaction) Validate(lenChars int) error {
	prevEnd := 0
	for i, c := range t.changes {
		if c.Start < 0 || c.End > lenChars {
			return fmt.Errorf("change %d %s: %w", i, c, buffer.ErrOffsetOutOfRange)
		}
		if c.End < c.Start {
			return fmt.Errorf("change %d %s: %w", i, c, buffer.ErrRangeInvalid)
		}
		if i > 0 && c.Start < prevEnd {
			return fmt.Errorf("change %d %s: %w", i, c, buffer.ErrEditsOverlap)
		}
		prevEnd = c.End
	}
	return nil
}

// Apply applies every change to doc atomically.
func (t *Transaction) Apply(doc Document) error {
	if t.IsEmpty() {
		return nil
	}
	if err := t.Validate(doc.LenChars()); err != nil {
		return err
	}

	edits := make([]buffer.Edit, len(t.changes))
	for i, c := range t.changes {
		edits[i] = c.toEdit()
	}
	return doc.ApplyEdits(edits)
}

// Invert returns the transaction that undoes t. original must be the text t
// is about to be applied to; the inverse is expressed in the coordinates of
// the text after t has been applied.
func (t *Transaction) Invert(original Source) (*Transaction, error) {
	if err := t.Validate(original.LenChars()); err != nil {
		return nil, err
	}

	inverse := make([]Change, len(t.changes))
	shift := 0
	for i, c := range t.changes {
		start := c.Start + shift
		inverse[i] = Change{
			Start: start,
			End:   start + utf8.RuneCountInString(c.Text),
			Text:  original.Slice(c.Start, c.End),
		}
		shift += c.Delta()
	}
	return New(inverse...), nil
}

// MapPosition maps a pre-edit offset to the corresponding post-edit offset.
// A position at an insertion point moves past the inserted text; a position
// inside a deleted or replaced range moves to the start of the replacement.
func (t *Transaction) MapPosition(pos int) int {
	shift := 0
	for _, c := range t.changes {
		if c.Start > pos {
			break
		}
		switch {
		case c.Start == c.End:
			shift += c.Delta()
		case pos >= c.End:
			shift += c.Delta()
		default:
			return c.Start + shift
		}
	}
	return pos + shift
}

// MapSelection maps every selection in cs through the transaction.
func (t *Transaction) MapSelection(cs *cursor.CursorSet) {
	if t.IsEmpty() {
		return
	}
	cs.MapInPlace(func(sel cursor.Selection) cursor.Selection {
		return cursor.NewSelection(t.MapPosition(sel.Anchor), t.MapPosition(sel.Head))
	})
}
