package buffer

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	content    *content
	revisionID RevisionID
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.content.String()
}

// Slice returns the text in the character range [start, end).
func (s *Snapshot) Slice(start, end CharOffset) string {
	return s.content.slice(start, end)
}

// LenChars returns the total number of characters.
func (s *Snapshot) LenChars() int {
	return s.content.lenChars()
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() int {
	return s.content.lineCount()
}

// Line returns the text of a line without its terminator.
func (s *Snapshot) Line(line int) string {
	return s.content.line(line)
}

// LineToChar returns the character offset at which line starts.
func (s *Snapshot) LineToChar(line int) CharOffset {
	return s.content.lineToChar(line)
}

// CharToLine returns the index of the line containing offset.
func (s *Snapshot) CharToLine(offset CharOffset) int {
	return s.content.charToLine(offset)
}

// RevisionID returns the revision this snapshot was taken at.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}
