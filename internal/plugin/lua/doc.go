// Package lua embeds a sandboxed Lua runtime that can toggle line comments.
//
// # State
//
// The State type manages a gopher-lua runtime with only the base, table,
// string and math libraries open:
//
//	state := lua.NewState(lua.WithExecutionTimeout(2 * time.Second))
//	defer state.Close()
//
//	if err := state.DoString(`x = 1 + 1`); err != nil {
//	    log.Fatal(err)
//	}
//
// # The comment module
//
// OpenComment installs a global "comment" table:
//
//	comment.toggle(text, token [, selections]) -> new_text
//	comment.detect(text, token, first_line, last_line) -> commented, skipped, min_indent
//
// Selections are {anchor, head} pairs of 0-based character offsets; without
// them the whole text is toggled. Lines are 1-indexed and inclusive, as is
// usual in Lua. min_indent is nil when every line in the range is blank.
//
// # Scripts
//
// RunScript runs a script with the globals text and path set. A string
// returned by the script replaces the text:
//
//	return comment.toggle(text, "--")
package lua
