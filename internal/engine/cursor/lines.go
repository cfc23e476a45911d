package cursor

// LineIndex is the part of a text buffer needed to address whole lines.
type LineIndex interface {
	LineCount() int
	LineToChar(line int) CharOffset
}

// LineSpan returns a forward selection that starts at the beginning of line
// first and ends at the beginning of line last. Any operation that resolves
// both bounds to lines therefore covers exactly first..last inclusive.
// Lines are 0-indexed and clamped to the text.
func LineSpan(text LineIndex, first, last int) Selection {
	if last < first {
		first, last = last, first
	}
	maxLine := text.LineCount() - 1
	first = max(0, min(first, maxLine))
	last = max(0, min(last, maxLine))
	return Selection{Anchor: text.LineToChar(first), Head: text.LineToChar(last)}
}
