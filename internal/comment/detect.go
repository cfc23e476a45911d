package comment

import (
	"math"
	"sort"
	"unicode"
)

// NoIndent is the MinIndent of a detection that saw no non-blank line.
const NoIndent = math.MaxInt

// Text is the read-only view of a buffer that comment toggling needs.
// Offsets are in characters; Line returns a line without its terminator.
type Text interface {
	Line(line int) string
	CharToLine(offset int) int
	LineToChar(line int) int
	LenChars() int
}

// LineRange is a half-open range of line indices [Start, End).
type LineRange struct {
	Start int
	End   int
}

// Len returns the number of lines in the range.
func (r LineRange) Len() int {
	return max(0, r.End-r.Start)
}

// Detection is the classification of a line range.
type Detection struct {
	// Commented is true when every non-blank line starts with the token.
	Commented bool
	// Skipped lists the blank lines of the range in ascending order.
	Skipped []int
	// MinIndent is the smallest first-non-whitespace column among the
	// non-blank lines, or NoIndent when there are none.
	MinIndent int
}

// HasContent reports whether the range had at least one non-blank line.
// MinIndent is only a usable column when HasContent is true.
func (d Detection) HasContent() bool {
	return d.MinIndent != NoIndent
}

// IsSkipped reports whether line is one of the blank lines.
func (d Detection) IsSkipped(line int) bool {
	i := sort.SearchInts(d.Skipped, line)
	return i < len(d.Skipped) && d.Skipped[i] == line
}

// FindLineComment classifies lines of text against token.
//
// Each non-blank line is compared at its own first non-whitespace column, so
// a block with mixed indentation is still recognized as uniformly commented.
// A line shorter than the token is compared on what it has. All lines are
// visited even after a mismatch, since MinIndent and Skipped need every line.
func FindLineComment(token string, text Text, lines LineRange) Detection {
	det := Detection{
		Commented: true,
		MinIndent: NoIndent,
	}
	tokenLen := len([]rune(token))

	for line := lines.Start; line < lines.End; line++ {
		runes := []rune(text.Line(line))

		pos := firstNonWhitespace(runes)
		if pos < 0 {
			det.Skipped = append(det.Skipped, line)
			continue
		}

		det.MinIndent = min(det.MinIndent, pos)

		end := min(pos+tokenLen, len(runes))
		if string(runes[pos:end]) != token {
			det.Commented = false
		}
	}

	return det
}

// firstNonWhitespace returns the index of the first non-whitespace rune, or
// -1 if the line is blank.
func firstNonWhitespace(runes []rune) int {
	for i, r := range runes {
		if !unicode.IsSpace(r) {
			return i
		}
	}
	return -1
}
