// Package comment toggles line comments over the selected lines of a text.
//
// Toggling happens in two phases per selection. FindLineComment classifies
// the selected lines: the block counts as commented only when every non-blank
// line starts with the token at its own indentation, and the smallest
// indentation among non-blank lines becomes the column for every edit.
// ToggleLineComments then emits one insertion of "token " or one deletion of
// token plus Margin characters per non-blank line, merged across selections
// into a single transaction whose offsets all refer to the unedited text.
//
// Blank lines are never edited and never influence the classification.
// A selection covering only blank lines produces no edits.
//
// The package only reads the text; applying the transaction is the caller's
// job (see the engine package).
package comment
