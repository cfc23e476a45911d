// Package cursor provides selection management for text editing.
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position (where typing would occur)
//
// The two bounds are unordered. From and To always return the lower and
// upper bound, so consumers never need to care about selection direction.
//
// CursorSet manages multiple selections that are:
//   - Kept sorted by position
//   - Automatically merged when overlapping
//   - Mapped together after edits
//
// Basic usage:
//
//	sel := cursor.NewSelection(11, 0) // backward selection
//	sel.From()                        // 0
//	sel.To()                          // 11
//
//	cs := cursor.NewCursorSet(sel)
//	cs.Add(cursor.NewCursorSelection(50))
//
// Thread Safety:
//
// Selection is an immutable value type and safe for concurrent use.
// CursorSet is not thread-safe and should be protected by external
// synchronization if accessed concurrently.
package cursor
