package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Script is a Lua script given by file path or by source. Source wins when
// both are set.
type Script struct {
	Path   string
	Source string
}

func (s Script) name() string {
	if s.Source != "" {
		return "<source>"
	}
	return s.Path
}

// Env is the input of a script run. Its fields are exposed as the globals
// text, path and token.
type Env struct {
	Text  string
	Path  string
	Token string
}

// RunScript runs script in a fresh state with the comment module open and
// returns the resulting text: the string the script returns, or env.Text
// unchanged when it returns nothing.
func RunScript(script Script, env Env, opts ...StateOption) (string, error) {
	s := NewState(opts...)
	defer s.Close()

	s.OpenComment()
	s.SetGlobal("text", lua.LString(env.Text))
	s.SetGlobal("path", lua.LString(env.Path))
	s.SetGlobal("token", lua.LString(env.Token))

	var (
		results []lua.LValue
		err     error
	)
	if script.Source != "" {
		results, err = s.Eval(script.Source)
	} else {
		results, err = s.EvalFile(script.Path)
	}
	if err != nil {
		return "", fmt.Errorf("running script %s: %w", script.name(), err)
	}

	if len(results) == 0 || results[0] == lua.LNil {
		return env.Text, nil
	}
	str, ok := results[0].(lua.LString)
	if !ok {
		return "", fmt.Errorf("running script %s: %w: got %s", script.name(), ErrBadReturn, results[0].Type())
	}
	return string(str), nil
}
