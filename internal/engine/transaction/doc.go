// Package transaction describes a batch of edits made against one snapshot of
// a buffer and applies it atomically.
//
// Every Change in a Transaction refers to the text as it was before the
// transaction, and changes are kept in ascending offset order. This lets
// builders emit edits line by line without tracking how earlier edits shift
// later offsets:
//
//	tx := transaction.New(
//	    transaction.NewInsert(2, "// "),
//	    transaction.NewInsert(7, "// "),
//	)
//	inverse, _ := tx.Invert(buf)
//	_ = tx.Apply(buf)
//	_ = inverse.Apply(buf) // back to the original text
package transaction
