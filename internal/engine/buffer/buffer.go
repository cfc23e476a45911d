package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in ascending order")
)

// Buffer holds editable text addressed by character offset and line index.
// All methods are thread-safe.
type Buffer struct {
	mu            sync.RWMutex
	content       *content
	revisionID    RevisionID
	lineEnding    LineEnding
	lineEndingSet bool

	// endings holds the terminator of each line when the text mixes styles,
	// nil otherwise.
	endings []LineEnding
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		content:    newContent(""),
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
// Unless WithLineEnding is given, the output line ending is detected from s,
// and text mixing several styles keeps each line's own terminator.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.setText(s)
	return b
}

func (b *Buffer) setText(s string) {
	text, endings := splitLineEndings(s)
	b.content = newContent(text)
	b.endings = nil
	if b.lineEndingSet {
		return
	}
	b.lineEnding = DetectLineEnding(s)
	if mixedLineEndings(endings) {
		b.endings = endings
	}
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	// Read everything up front; CRLF pairs may straddle read boundaries.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// Read Operations

// Text returns the full buffer content as a string with LF line endings.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.String()
}

// Slice returns the text in the character range [start, end).
func (b *Buffer) Slice(start, end CharOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.slice(start, end)
}

// LenChars returns the total number of characters in the buffer.
func (b *Buffer) LenChars() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.lenChars()
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.lineCount()
}

// Line returns the text of a line without its terminator.
func (b *Buffer) Line(line int) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.line(line)
}

// LineToChar returns the character offset at which line starts.
func (b *Buffer) LineToChar(line int) CharOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.lineToChar(line)
}

// CharToLine returns the index of the line containing offset.
func (b *Buffer) CharToLine(offset CharOffset) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.charToLine(offset)
}

// OffsetToPoint converts a character offset to a line/column position.
func (b *Buffer) OffsetToPoint(offset CharOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	line := b.content.charToLine(offset)
	return Point{Line: line, Column: offset - b.content.lineToChar(line)}
}

// Write Operations

// ApplyEdits applies multiple edits atomically.
// Edits must be in ascending order and must not overlap. Every range refers to
// the text as it was before any of the edits, so callers never adjust offsets
// for earlier edits in the batch. Either all edits are applied or none are.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := validateEdits(edits, b.content.lenChars()); err != nil {
		return err
	}

	if b.endings != nil {
		b.endings = b.content.remapLineEndings(edits, b.endings, b.lineEnding)
	}
	b.content = b.content.apply(edits)
	b.revisionID = NewRevisionID()
	return nil
}

// SetText replaces the whole buffer content.
func (b *Buffer) SetText(s string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setText(s)
	b.revisionID = NewRevisionID()
}

func validateEdits(edits []Edit, length int) error {
	for i, edit := range edits {
		if edit.Range.Start < 0 || edit.Range.End > length {
			return ErrOffsetOutOfRange
		}
		if !edit.Range.IsValid() {
			return ErrRangeInvalid
		}
		// An edit may touch the end of the previous one but not reach into it.
		if i > 0 && edit.Range.Start < edits[i-1].Range.End {
			return ErrEditsOverlap
		}
	}
	return nil
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.lenChars() == 0
}

// LineEnding returns the line ending used when writing the buffer out.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// WriteTo writes the buffer content, restoring the line ending of every
// line read from the original text. Lines added since use LineEnding.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.RLock()
	text := b.content.String()
	le := b.lineEnding
	endings := b.endings
	b.mu.RUnlock()

	switch {
	case endings != nil:
		text = joinLineEndings(text, endings, le)
	case le != LineEndingLF:
		text = strings.ReplaceAll(text, "\n", le.Sequence())
	}
	n, err := io.WriteString(w, text)
	return int64(n), err
}

// Snapshot returns a read-only view of the current content.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Snapshot{
		content:    b.content,
		revisionID: b.revisionID,
	}
}
