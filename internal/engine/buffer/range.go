package buffer

// Range represents a character range in the buffer.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start CharOffset
	End   CharOffset
}

// NewRange creates a new Range from start and end offsets.
func NewRange(start, end CharOffset) Range {
	return Range{Start: start, End: end}
}

// Len returns the length of the range in characters.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsValid returns true if the range is valid (Start <= End).
func (r Range) IsValid() bool {
	return r.Start <= r.End
}
