package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/linecomment/internal/comment"
	"github.com/dshills/linecomment/internal/engine"
	"github.com/dshills/linecomment/internal/engine/buffer"
	"github.com/dshills/linecomment/internal/engine/cursor"
)

// CommentModuleName is the global the comment module is installed as.
const CommentModuleName = "comment"

// OpenComment installs the comment module into the state.
func (s *State) OpenComment() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	mod := s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"toggle": commentToggle,
		"detect": commentDetect,
	})
	s.L.SetGlobal(CommentModuleName, mod)
}

// toggle(text, token [, selections]) -> string
// Toggles line comments over the selections, or the whole text when no
// selections are given.
func commentToggle(L *lua.LState) int {
	text := L.CheckString(1)
	token := L.CheckString(2)
	if token == "" {
		L.ArgError(2, "token must not be empty")
		return 0
	}

	e := engine.New(engine.WithContent(text), engine.WithCommentToken(token))

	if L.Get(3) == lua.LNil {
		e.SelectAll()
	} else {
		sels := checkSelections(L, 3)
		if len(sels) == 0 {
			L.Push(lua.LString(text))
			return 1
		}
		e.SetSelections(sels...)
	}

	if _, err := e.ToggleLineComments(); err != nil {
		L.RaiseError("toggle: %v", err)
		return 0
	}

	var sb strings.Builder
	if _, err := e.WriteTo(&sb); err != nil {
		L.RaiseError("toggle: %v", err)
		return 0
	}
	L.Push(lua.LString(sb.String()))
	return 1
}

// detect(text, token, first_line, last_line) -> bool, table, number|nil
// Reports whether every non-blank line in first..last starts with token.
func commentDetect(L *lua.LState) int {
	text := L.CheckString(1)
	token := L.CheckString(2)
	first := L.CheckInt(3)
	last := L.CheckInt(4)

	if token == "" {
		L.ArgError(2, "token must not be empty")
		return 0
	}

	snap := buffer.NewBufferFromString(text).Snapshot()
	if first < 1 || first > snap.LineCount() {
		L.ArgError(3, "line out of range")
		return 0
	}
	if last < first || last > snap.LineCount() {
		L.ArgError(4, "line out of range")
		return 0
	}

	d := comment.FindLineComment(token, snap, comment.LineRange{Start: first - 1, End: last})

	skipped := L.NewTable()
	for _, line := range d.Skipped {
		skipped.Append(lua.LNumber(line + 1))
	}

	L.Push(lua.LBool(d.Commented))
	L.Push(skipped)
	if d.HasContent() {
		L.Push(lua.LNumber(d.MinIndent))
	} else {
		L.Push(lua.LNil)
	}
	return 3
}

// checkSelections reads a list of {anchor, head} pairs from argument n.
func checkSelections(L *lua.LState, n int) []cursor.Selection {
	tbl := L.CheckTable(n)
	sels := make([]cursor.Selection, 0, tbl.Len())

	for i := 1; i <= tbl.Len(); i++ {
		pair, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			L.ArgError(n, "selections must be a list of {anchor, head}")
			return nil
		}
		anchor, okA := pair.RawGetInt(1).(lua.LNumber)
		head, okH := pair.RawGetInt(2).(lua.LNumber)
		if !okA || !okH || anchor < 0 || head < 0 {
			L.ArgError(n, "selection offsets must be non-negative numbers")
			return nil
		}
		sels = append(sels, cursor.NewSelection(int(anchor), int(head)))
	}
	return sels
}
