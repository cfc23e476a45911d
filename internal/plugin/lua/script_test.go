package lua

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRunScript(t *testing.T) {
	env := Env{Text: "x\ny", Path: "a.py", Token: "#"}

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"toggle with token global", `return comment.toggle(text, token)`, "# x\n# y"},
		{"no return keeps text", `local _ = path`, "x\ny"},
		{"nil return keeps text", `return nil`, "x\ny"},
		{"path global", `return path`, "a.py"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RunScript(Script{Source: tt.source}, env)
			if err != nil {
				t.Fatalf("RunScript() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RunScript() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunScriptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toggle.lua")
	src := `
-- comment only the first line
local first_end = string.find(text, "\n") or (#text + 1)
return comment.toggle(text, "--", {{0, first_end - 1}})
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := RunScript(Script{Path: path}, Env{Text: "a\nb"})
	if err != nil {
		t.Fatalf("RunScript() error = %v", err)
	}
	if want := "-- a\nb"; got != want {
		t.Errorf("RunScript() = %q, want %q", got, want)
	}
}

func TestRunScriptErrors(t *testing.T) {
	_, err := RunScript(Script{Source: `return 42`}, Env{Text: "x"})
	if !errors.Is(err, ErrBadReturn) {
		t.Errorf("RunScript() error = %v, want ErrBadReturn", err)
	}

	_, err = RunScript(Script{Source: `error("boom")`}, Env{Text: "x"})
	if err == nil {
		t.Error("RunScript() should surface script errors")
	}

	_, err = RunScript(Script{Path: filepath.Join(t.TempDir(), "missing.lua")}, Env{})
	if err == nil {
		t.Error("RunScript() should fail for a missing file")
	}
}
