package comment

import (
	"unicode/utf8"

	"github.com/dshills/linecomment/internal/engine/cursor"
	"github.com/dshills/linecomment/internal/engine/transaction"
)

// Margin is the width of the separator written after the token when
// commenting, and the number of characters removed after the token when
// uncommenting. The separator is not re-measured before deleting.
const Margin = 1

// SelectionResult records how one selection was toggled.
type SelectionResult struct {
	Lines     LineRange
	Detection Detection
}

// Edited reports whether the selection produced any edits.
func (r SelectionResult) Edited() bool {
	return r.Detection.HasContent()
}

// SelectionLines returns the lines touched by sel. Both bounds are resolved
// to lines and the end line is included.
func SelectionLines(text Text, sel cursor.Selection) LineRange {
	start := text.CharToLine(sel.From())
	end := text.CharToLine(sel.To())
	return LineRange{Start: start, End: end + 1}
}

// ToggleLineComments builds one transaction that comments or uncomments the
// lines of every selection. Selections are handled independently and in the
// given order; they are expected not to share lines.
func ToggleLineComments(text Text, selections []cursor.Selection, token string) *transaction.Transaction {
	tx, _ := Toggle(text, selections, token)
	return tx
}

// Toggle is ToggleLineComments that also reports the per-selection results.
// An empty token yields an empty transaction and no results; callers that
// treat a missing token as an error, such as the engine, check it first.
func Toggle(text Text, selections []cursor.Selection, token string) (*transaction.Transaction, []SelectionResult) {
	if token == "" {
		return transaction.New(), nil
	}

	tokenLen := utf8.RuneCountInString(token)
	results := make([]SelectionResult, 0, len(selections))
	var changes []transaction.Change

	for _, sel := range selections {
		lines := SelectionLines(text, sel)
		det := FindLineComment(token, text, lines)
		results = append(results, SelectionResult{Lines: lines, Detection: det})

		// Only blank lines: there is no column to edit at.
		if !det.HasContent() {
			continue
		}

		for line := lines.Start; line < lines.End; line++ {
			if det.IsSkipped(line) {
				continue
			}

			pos := text.LineToChar(line) + det.MinIndent

			if det.Commented {
				changes = append(changes, transaction.NewDelete(pos, pos+tokenLen+Margin))
			} else {
				changes = append(changes, transaction.NewInsert(pos, token+" "))
			}
		}
	}

	return transaction.New(changes...), results
}
