package lua

import (
	"errors"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func TestNewState(t *testing.T) {
	state := NewState()
	defer state.Close()

	if state.IsClosed() {
		t.Error("NewState() returned closed state")
	}
}

func TestStateDoString(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(`x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	v := state.GetGlobal("x")
	if n, ok := v.(glua.LNumber); !ok || n != 2 {
		t.Errorf("GetGlobal(x) = %v, want 2", v)
	}
}

func TestStateEvalResults(t *testing.T) {
	state := NewState()
	defer state.Close()

	results, err := state.Eval(`return "a", 2`)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Eval() returned %d values, want 2", len(results))
	}
	if results[0].String() != "a" || results[1].String() != "2" {
		t.Errorf("Eval() = %v, want [a 2]", results)
	}

	results, err = state.Eval(`local y = 1`)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Eval() without return = %#v, want empty slice", results)
	}
}

func TestStateSandbox(t *testing.T) {
	state := NewState()
	defer state.Close()

	results, err := state.Eval(`return io == nil and os == nil and debug == nil and dofile == nil and load == nil`)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if results[0] != glua.LTrue {
		t.Error("unsafe libraries are reachable from the sandbox")
	}

	if err := state.DoString(`dofile("/etc/passwd")`); err == nil {
		t.Error("dofile should not be callable")
	}
}

func TestStateExecutionTimeout(t *testing.T) {
	state := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer state.Close()

	err := state.DoString(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("DoString() error = %v, want ErrExecutionTimeout", err)
	}

	// The state stays usable after a timeout.
	if err := state.DoString(`z = 3`); err != nil {
		t.Errorf("DoString() after timeout error = %v", err)
	}
}

func TestStateSyntaxError(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(`this is not lua`); err == nil {
		t.Error("DoString() should fail on a syntax error")
	}
}

func TestStateClose(t *testing.T) {
	state := NewState()
	if err := state.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if !state.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := state.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() on closed state error = %v, want ErrStateClosed", err)
	}
	if v := state.GetGlobal("x"); v != glua.LNil {
		t.Errorf("GetGlobal() on closed state = %v, want nil", v)
	}
}
