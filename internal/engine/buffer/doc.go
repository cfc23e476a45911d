// Package buffer provides a thread-safe text buffer addressed by character
// offsets and line indices. It is the storage layer the comment toggler
// reads from and the transaction applier writes to.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Conversion between character offsets and line indices
//   - Atomic application of batched edits expressed in pre-edit coordinates
//   - Read-only snapshots for consistent reads while edits are prepared
//   - Line ending normalization, with per-line endings restored on output
//   - Revision tracking for change management
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("  1\n\n  2\n  3")
//
//	buf.Line(2)        // "  2"
//	buf.LineToChar(2)  // 5
//	buf.CharToLine(6)  // 2
//
//	// Insert "// " on lines 0 and 2 in a single atomic step.
//	err := buf.ApplyEdits([]buffer.Edit{
//	    buffer.NewInsert(2, "// "),
//	    buffer.NewInsert(7, "// "),
//	})
//
// Offsets:
//
// Every offset in this package counts characters (runes), never bytes. Line
// content is returned without its terminator. Text is stored with LF line
// endings regardless of the input; the detected ending is restored by WriteTo.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while write operations acquire an exclusive write lock. For scenarios
// requiring multiple reads without the possibility of intervening writes,
// use Snapshot() to obtain a consistent read-only view.
package buffer
