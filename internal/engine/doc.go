// Package engine ties the buffer, selections and undo history together and
// exposes editing commands such as toggling line comments.
//
// # Basic Usage
//
//	e := engine.New(
//	    engine.WithContent("  1\n\n  2\n  3"),
//	    engine.WithCommentToken("//"),
//	)
//	e.SelectAll()
//
//	res, _ := e.ToggleLineComments() // "  // 1\n\n  // 2\n  // 3"
//	res.Changes()                    // 3
//
//	e.Undo()                         // "  1\n\n  2\n  3"
//
// # Thread Safety
//
// All Engine operations are thread-safe. Commands run under one mutex, so a
// toggle always detects and edits the same snapshot of the text; concurrent
// callers are serialized rather than interleaved.
//
// # Error Handling
//
//   - ErrReadOnly: Write operation on a read-only engine
//   - ErrNoToken: No comment token configured
//   - history.ErrNothingToUndo / history.ErrNothingToRedo
package engine
