package engine

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/linecomment/internal/comment"
	"github.com/dshills/linecomment/internal/engine/buffer"
	"github.com/dshills/linecomment/internal/engine/cursor"
	"github.com/dshills/linecomment/internal/engine/history"
	"github.com/dshills/linecomment/internal/engine/transaction"
)

// Re-export commonly used types for convenience.
type (
	// Selection represents a cursor selection.
	Selection = cursor.Selection

	// Transaction is a batch of changes applied as one unit.
	Transaction = transaction.Transaction

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding
)

// LineSpan is an inclusive range of 0-indexed lines.
type LineSpan struct {
	First int
	Last  int
}

// ToggleResult describes a completed ToggleLineComments call.
type ToggleResult struct {
	// Transaction holds the applied changes in pre-edit coordinates.
	Transaction *Transaction
	// Selections reports the detection made for each group of selections
	// sharing lines, in position order.
	Selections []comment.SelectionResult
	// EntryID identifies the undo entry, empty if nothing changed.
	EntryID string
}

// Changes returns the number of applied changes.
func (r ToggleResult) Changes() int {
	if r.Transaction == nil {
		return 0
	}
	return r.Transaction.Len()
}

// Engine is an editable document with selections and undo history.
type Engine struct {
	mu sync.Mutex

	buf     *buffer.Buffer
	cursors *cursor.CursorSet
	history *history.History
	logger  *zap.Logger

	token          string
	readOnly       bool
	initContent    string
	bufferOpts     []buffer.Option
	maxUndoEntries int
}

// New creates an engine. The initial selection is a cursor at offset 0.
func New(opts ...Option) *Engine {
	e := defaults()
	for _, opt := range opts {
		opt(e)
	}

	e.buf = buffer.NewBufferFromString(e.initContent, e.bufferOpts...)
	e.cursors = cursor.NewCursorSet(cursor.NewCursorSelection(0))
	e.history = history.New(e.maxUndoEntries)
	e.logger = e.logger.Named("engine")
	e.initContent = ""
	return e
}

// NewFromReader creates an engine with content read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	return New(append(opts, WithContent(string(data)))...), nil
}

// Read Operations

// Text returns the document text with LF line endings.
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Text()
}

// LenChars returns the number of characters in the document.
func (e *Engine) LenChars() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.LenChars()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.LineCount()
}

// Snapshot returns a read-only view of the current text.
func (e *Engine) Snapshot() *buffer.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.Snapshot()
}

// WriteTo writes the document with the line endings it was read with.
func (e *Engine) WriteTo(w io.Writer) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buf.WriteTo(w)
}

// Selections

// Selections returns all selections in position order.
func (e *Engine) Selections() []Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursors.All()
}

// PrimarySelection returns the primary selection.
func (e *Engine) PrimarySelection() Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursors.Primary()
}

// SetSelections replaces the selections. The first becomes primary;
// overlapping selections are merged and all are clamped to the text.
func (e *Engine) SetSelections(sels ...Selection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	cs := cursor.NewCursorSetFromSlice(sels)
	cs.Clamp(e.buf.LenChars())
	e.cursors = cs
}

// SelectLines selects whole line spans, one selection per span. Spans that
// share a line are merged so no line is toggled twice.
func (e *Engine) SelectLines(spans ...LineSpan) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cursors = cursor.NewCursorSetFromSlice(lineSelections(e.buf, mergeSpans(spans)))
}

func lineSelections(text cursor.LineIndex, spans []LineSpan) []Selection {
	sels := make([]Selection, 0, len(spans))
	for _, span := range spans {
		sels = append(sels, cursor.LineSpan(text, span.First, span.Last))
	}
	return sels
}

// toggleTargets returns one selection per group of selections whose lines
// overlap, so that no line receives more than one edit.
func toggleTargets(text *buffer.Snapshot, sels []Selection) []Selection {
	spans := make([]LineSpan, 0, len(sels))
	for _, sel := range sels {
		spans = append(spans, LineSpan{
			First: text.CharToLine(sel.From()),
			Last:  text.CharToLine(sel.To()),
		})
	}
	return lineSelections(text, mergeSpans(spans))
}

// mergeSpans orders spans and joins those sharing a line.
func mergeSpans(spans []LineSpan) []LineSpan {
	out := make([]LineSpan, 0, len(spans))
	for _, s := range spans {
		if s.Last < s.First {
			s.First, s.Last = s.Last, s.First
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].First < out[j].First })

	merged := out[:0]
	for _, s := range out {
		if n := len(merged); n > 0 && s.First <= merged[n-1].Last {
			merged[n-1].Last = max(merged[n-1].Last, s.Last)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// SelectAll selects the whole document.
func (e *Engine) SelectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursors = cursor.NewCursorSet(cursor.NewSelection(0, e.buf.LenChars()))
}

// Comment token

// CommentToken returns the current line comment token.
func (e *Engine) CommentToken() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.token
}

// SetCommentToken changes the line comment token.
func (e *Engine) SetCommentToken(token string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.token = token
}

// Commands

// ToggleLineComments comments or uncomments the lines of every selection as
// one undoable step and maps the selections through the change. Selections
// touching a common line are toggled together; the result reports one entry
// per such group.
func (e *Engine) ToggleLineComments() (ToggleResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ToggleResult{}, ErrReadOnly
	}
	if e.token == "" {
		return ToggleResult{}, ErrNoToken
	}

	snap := e.buf.Snapshot()
	tx, results := comment.Toggle(snap, toggleTargets(snap, e.cursors.All()), e.token)
	res := ToggleResult{Transaction: tx, Selections: results}

	if tx.IsEmpty() {
		e.logger.Debug("nothing to toggle", zap.Int("selections", len(results)))
		return res, nil
	}

	inverse, err := tx.Invert(snap)
	if err != nil {
		return ToggleResult{}, fmt.Errorf("toggle line comments: %w", err)
	}

	before := e.cursors.Clone()
	if err := tx.Apply(e.buf); err != nil {
		return ToggleResult{}, fmt.Errorf("toggle line comments: %w", err)
	}
	tx.MapSelection(e.cursors)

	res.EntryID = e.history.Commit("toggle line comments", tx, inverse, before, e.cursors)

	e.logger.Debug("toggled line comments",
		zap.String("token", e.token),
		zap.Int("selections", len(results)),
		zap.Int("changes", tx.Len()),
		zap.String("entry", res.EntryID),
	)

	return res, nil
}

// Undo reverts the last command and restores its selections.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}

	sel, err := e.history.Undo(e.buf)
	if err != nil {
		return err
	}
	e.cursors = sel
	return nil
}

// Redo re-applies the last undone command and restores its selections.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.readOnly {
		return ErrReadOnly
	}

	sel, err := e.history.Redo(e.buf)
	if err != nil {
		return err
	}
	e.cursors = sel
	return nil
}

// CanUndo returns true if there is a command to undo.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if there is a command to redo.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}
