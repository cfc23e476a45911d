// Package history provides undo/redo for transactions applied to a buffer.
//
// Each committed entry pairs a transaction with its inverse and with the
// selections before and after it, so undoing a multi-line comment toggle
// restores the text and the cursors in one step:
//
//	h := history.New(1000)
//
//	inverse, _ := tx.Invert(buf)
//	_ = tx.Apply(buf)
//	h.Commit("toggle comments", tx, inverse, before, after)
//
//	sel, _ := h.Undo(buf) // text and selections as they were before tx
//	sel, _ = h.Redo(buf)
//
// Entry IDs are UUIDs and stay stable while an entry moves between the undo
// and redo stacks. All History methods are thread-safe.
package history
