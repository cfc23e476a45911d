package buffer

import (
	"fmt"
	"sync/atomic"
)

// CharOffset represents a character (rune) position in the buffer.
// This is the fundamental position type used by every query and edit.
type CharOffset = int

// Point represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in characters from the start of the line.
type Point struct {
	Line   int // 0-indexed line number
	Column int // 0-indexed column (characters within line)
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
