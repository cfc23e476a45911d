package history

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dshills/linecomment/internal/engine/buffer"
	"github.com/dshills/linecomment/internal/engine/cursor"
	"github.com/dshills/linecomment/internal/engine/transaction"
)

// commit applies tx to buf and records it.
func commit(t *testing.T, h *History, buf *buffer.Buffer, desc string, tx *transaction.Transaction, before, after *cursor.CursorSet) string {
	t.Helper()
	inverse, err := tx.Invert(buf)
	if err != nil {
		t.Fatalf("invert failed: %v", err)
	}
	if err := tx.Apply(buf); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	return h.Commit(desc, tx, inverse, before, after)
}

func TestUndoRedo(t *testing.T) {
	buf := buffer.NewBufferFromString("  1\n\n  2")
	h := New(10)

	before := cursor.NewCursorSet(cursor.NewSelection(0, 7))
	after := cursor.NewCursorSet(cursor.NewSelection(0, 13))
	tx := transaction.New(transaction.NewInsert(2, "// "), transaction.NewInsert(7, "// "))

	id := commit(t, h, buf, "toggle comments", tx, before, after)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("entry id should be a uuid, got %q", id)
	}

	if buf.Text() != "  // 1\n\n  // 2" {
		t.Fatalf("unexpected text %q", buf.Text())
	}

	sel, err := h.Undo(buf)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if buf.Text() != "  1\n\n  2" {
		t.Errorf("undo: unexpected text %q", buf.Text())
	}
	if !sel.Equals(before) {
		t.Errorf("undo should restore selections, got %v", sel.All())
	}
	if !h.CanRedo() || h.CanUndo() {
		t.Error("expected only redo to be available")
	}

	sel, err = h.Redo(buf)
	if err != nil {
		t.Fatalf("redo failed: %v", err)
	}
	if buf.Text() != "  // 1\n\n  // 2" {
		t.Errorf("redo: unexpected text %q", buf.Text())
	}
	if !sel.Equals(after) {
		t.Errorf("redo should restore selections, got %v", sel.All())
	}

	info, ok := h.PeekUndo()
	if !ok || info.ID != id || info.Changes != 2 || info.Description != "toggle comments" {
		t.Errorf("unexpected entry info %+v", info)
	}
}

func TestEmptyStacks(t *testing.T) {
	h := New(0)
	buf := buffer.NewBuffer()

	if _, err := h.Undo(buf); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if _, err := h.Redo(buf); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
	if h.MaxEntries() != DefaultMaxEntries {
		t.Errorf("expected default max entries, got %d", h.MaxEntries())
	}
}

func TestCommitClearsRedo(t *testing.T) {
	buf := buffer.NewBufferFromString("a")
	h := New(10)
	sel := cursor.NewCursorSet(cursor.NewCursorSelection(0))

	commit(t, h, buf, "first", transaction.New(transaction.NewInsert(0, "x")), sel, sel)
	if _, err := h.Undo(buf); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if h.UndoCount() != 0 || h.RedoCount() != 1 {
		t.Errorf("expected 0 undo and 1 redo entries, got %d and %d", h.UndoCount(), h.RedoCount())
	}
	commit(t, h, buf, "second", transaction.New(transaction.NewInsert(0, "y")), sel, sel)

	if h.CanRedo() || h.RedoCount() != 0 {
		t.Error("commit should clear the redo stack")
	}
	if buf.Text() != "ya" {
		t.Errorf("unexpected text %q", buf.Text())
	}
}

func TestMaxEntries(t *testing.T) {
	buf := buffer.NewBuffer()
	h := New(2)
	sel := cursor.NewCursorSet(cursor.NewCursorSelection(0))

	for _, s := range []string{"a", "b", "c"} {
		commit(t, h, buf, s, transaction.New(transaction.NewInsert(0, s)), sel, sel)
	}

	info := h.UndoInfo()
	if len(info) != 2 || info[0].Description != "b" || info[1].Description != "c" {
		t.Errorf("expected oldest entry trimmed, got %+v", info)
	}
}

func TestUndoFailureKeepsEntry(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	h := New(10)
	sel := cursor.NewCursorSet(cursor.NewCursorSelection(0))

	commit(t, h, buf, "insert", transaction.New(transaction.NewInsert(3, "def")), sel, sel)
	buf.SetText("")

	if _, err := h.Undo(buf); !errors.Is(err, buffer.ErrOffsetOutOfRange) {
		t.Fatalf("expected out of range error, got %v", err)
	}
	if h.UndoCount() != 1 {
		t.Error("failed undo should keep the entry")
	}

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("clear should empty both stacks")
	}
}
