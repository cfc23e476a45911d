package buffer

import "strings"

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending written by WriteTo.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
		b.lineEndingSet = true
	}
}

// DetectLineEnding returns a LineEnding based on the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n':
			crlfCount++
			i++
		case text[i] == '\r':
			crCount++
		case text[i] == '\n':
			lfCount++
		}
	}

	if crlfCount > 0 && crlfCount >= lfCount && crlfCount >= crCount {
		return LineEndingCRLF
	}
	if crCount > 0 && crCount >= lfCount && crCount >= crlfCount {
		return LineEndingCR
	}
	return LineEndingLF
}

// splitLineEndings converts every line ending in s to LF and returns the
// original terminator of each line, in order.
func splitLineEndings(s string) (string, []LineEnding) {
	if !strings.ContainsRune(s, '\r') {
		return s, nil
	}

	var sb strings.Builder
	sb.Grow(len(s))
	var endings []LineEnding
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n':
			endings = append(endings, LineEndingCRLF)
			sb.WriteByte('\n')
			i++
		case s[i] == '\r':
			endings = append(endings, LineEndingCR)
			sb.WriteByte('\n')
		case s[i] == '\n':
			endings = append(endings, LineEndingLF)
			sb.WriteByte('\n')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String(), endings
}

// mixedLineEndings reports whether endings holds more than one style.
func mixedLineEndings(endings []LineEnding) bool {
	for _, le := range endings {
		if le != endings[0] {
			return true
		}
	}
	return false
}

// joinLineEndings replaces the i-th LF in text with endings[i]. LFs past the
// end of endings use fill.
func joinLineEndings(text string, endings []LineEnding, fill LineEnding) string {
	var sb strings.Builder
	sb.Grow(len(text) + len(endings))
	n := 0
	for i := 0; i < len(text); i++ {
		if text[i] != '\n' {
			sb.WriteByte(text[i])
			continue
		}
		le := fill
		if n < len(endings) {
			le = endings[n]
		}
		sb.WriteString(le.Sequence())
		n++
	}
	return sb.String()
}
