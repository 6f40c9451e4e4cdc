package ir

import (
	"strings"
	"testing"
)

func TestStringifyEmptyBlock(t *testing.T) {
	if got := Stringify(NoOp()); got != "(noop)" {
		t.Errorf("Stringify(NoOp()) = %q, want %q", got, "(noop)")
	}
}

func TestStringifyMarksBinderAndBound(t *testing.T) {
	fDef := Function("f", NoOp(), NoOp())
	call := Call("f", NoOp())
	bound := Bind(fDef, call, IsCallPseudo)

	out := Stringify(bound)
	if !strings.Contains(out, "f(binder)") {
		t.Errorf("Stringify output should mark the self-bound definition, got:\n%s", out)
	}
	if !strings.Contains(out, "f(bound)") {
		t.Errorf("Stringify output should mark the resolved call site, got:\n%s", out)
	}
}

func TestStringifyShowsUnresolvedReference(t *testing.T) {
	out := Stringify(Call("undefined", NoOp()))
	if !strings.Contains(out, "undefined(unbound)") {
		t.Errorf("Stringify output should mark an unresolved reference, got:\n%s", out)
	}
}

func TestStringifyRendersConstants(t *testing.T) {
	out := Stringify(Const(7.0))
	if !strings.Contains(out, "LOADK 7") {
		t.Errorf("Stringify output should render the constant value, got:\n%s", out)
	}
}
