package engine

import (
	"strings"
	"testing"
)

// ============================================================================
// Setup Helpers
// ============================================================================

func setupLargeEngine(b *testing.B, lines int) *Engine {
	b.Helper()
	var sb strings.Builder
	line := "    " + strings.Repeat("x", 76) + "\n"
	for i := 0; i < lines; i++ {
		sb.WriteString(line)
	}
	e := New(WithContent(sb.String()), WithCommentToken("//"))
	e.SelectAll()
	return e
}

// ============================================================================
// Toggle Benchmarks
// ============================================================================

func BenchmarkEngineToggle(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := e.ToggleLineComments(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEngineToggleMultiSelection(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	spans := make([]LineSpan, 0, 100)
	for i := 0; i < 10000; i += 100 {
		spans = append(spans, LineSpan{First: i, Last: i + 49})
	}
	e.SelectLines(spans...)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := e.ToggleLineComments(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEngineUndoRedo(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	if _, err := e.ToggleLineComments(); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = e.Undo()
		_ = e.Redo()
	}
}

func BenchmarkEngineText(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = e.Text()
	}
}
