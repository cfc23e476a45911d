package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/linecomment/internal/engine/cursor"
	"github.com/dshills/linecomment/internal/engine/transaction"
)

// DefaultMaxEntries is used when New is given a non-positive limit.
const DefaultMaxEntries = 1000

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// entry is one undoable transaction.
type entry struct {
	id          string
	description string
	forward     *transaction.Transaction
	inverse     *transaction.Transaction
	before      *cursor.CursorSet
	after       *cursor.CursorSet
	timestamp   time.Time
}

func (e *entry) info() EntryInfo {
	return EntryInfo{
		ID:          e.id,
		Description: e.description,
		Changes:     e.forward.Len(),
		Timestamp:   e.timestamp,
	}
}

// EntryInfo provides read-only info about a history entry.
type EntryInfo struct {
	ID          string
	Description string
	Changes     int
	Timestamp   time.Time
}

// History manages undo/redo state for a buffer.
type History struct {
	mu sync.Mutex

	undoStack []*entry
	redoStack []*entry

	maxEntries int
}

// New creates a new history manager.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		maxEntries: maxEntries,
	}
}

// Commit records an applied transaction and its inverse and returns the
// entry ID. Selections are cloned. The redo stack is cleared.
func (h *History) Commit(description string, forward, inverse *transaction.Transaction, before, after *cursor.CursorSet) string {
	e := &entry{
		id:          uuid.NewString(),
		description: description,
		forward:     forward,
		inverse:     inverse,
		before:      before.Clone(),
		after:       after.Clone(),
		timestamp:   time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil

	if len(h.undoStack) > h.maxEntries {
		excess := len(h.undoStack) - h.maxEntries
		h.undoStack = h.undoStack[excess:]
	}

	return e.id
}

// Undo reverts the most recent entry and returns the selections that were
// current before it was applied.
func (h *History) Undo(doc transaction.Document) (*cursor.CursorSet, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return nil, ErrNothingToUndo
	}

	e := h.undoStack[len(h.undoStack)-1]
	if err := e.inverse.Apply(doc); err != nil {
		return nil, fmt.Errorf("undo %q: %w", e.description, err)
	}

	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, e)
	return e.before.Clone(), nil
}

// Redo re-applies the most recently undone entry and returns the selections
// that were current after it was first applied.
func (h *History) Redo(doc transaction.Document) (*cursor.CursorSet, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return nil, ErrNothingToRedo
	}

	e := h.redoStack[len(h.redoStack)-1]
	if err := e.forward.Apply(doc); err != nil {
		return nil, fmt.Errorf("redo %q: %w", e.description, err)
	}

	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, e)
	return e.after.Clone(), nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo entries available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo entries available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear removes all history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
}

// UndoInfo returns info about available undo entries, oldest first.
func (h *History) UndoInfo() []EntryInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]EntryInfo, len(h.undoStack))
	for i, e := range h.undoStack {
		result[i] = e.info()
	}
	return result
}

// PeekUndo returns info about the next undo entry without removing it.
func (h *History) PeekUndo() (EntryInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return EntryInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
