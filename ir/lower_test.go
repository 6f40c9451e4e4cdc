package ir

import "testing"

func TestBothForksBetweenTwoBranches(t *testing.T) {
	b := Both(Const(1.0), Const(2.0))
	if countOp(b, FORK) != 1 {
		t.Errorf("Both should emit exactly one FORK, got %d", countOp(b, FORK))
	}
	if countOp(b, JUMP) != 1 {
		t.Errorf("Both should emit exactly one JUMP, got %d", countOp(b, JUMP))
	}
	if countOp(b, LOADK) != 2 {
		t.Errorf("Both should carry both constants through, got %d LOADK", countOp(b, LOADK))
	}
}

func TestCollectAccumulatesIntoAFreshLocal(t *testing.T) {
	b := Collect(NoOp())
	if countOp(b, STOREV) == 0 {
		t.Error("Collect should allocate a fresh local to accumulate into")
	}
	if countOp(b, APPEND) != 1 {
		t.Errorf("Collect should append exactly once per iteration site, got %d", countOp(b, APPEND))
	}
	if countOp(b, LOADVN) != 1 {
		t.Errorf("Collect should yield the accumulated array once, got %d LOADVN", countOp(b, LOADVN))
	}
}

func TestReduceBindsTheLoopVariable(t *testing.T) {
	source := Const(1.0)
	init := Const(0.0)
	body := OpUnbound(LOADV, "x")
	b := Reduce("x", source, init, body)

	var loadv *Instruction
	for i := b.First; i != nil; i = i.Next {
		if i.Op == LOADV {
			loadv = i
		}
	}
	if loadv == nil {
		t.Fatal("expected a LOADV referencing the reduce variable")
	}
	if loadv.BoundBy == nil || loadv.BoundBy.Symbol != "x" {
		t.Error("Reduce did not bind the body's reference to its loop variable")
	}
}

func TestForeachCallsEqualAndBreakByName(t *testing.T) {
	source := Const(1.0)
	init := Const(0.0)
	update := NoOp()
	extract := NoOp()
	b := Foreach("x", source, init, update, extract)

	names := map[string]bool{}
	for i := b.First; i != nil; i = i.Next {
		if i.Op == CALL_JQ {
			names[i.Symbol] = true
		}
	}
	if !names["_equal"] {
		t.Error("Foreach's break handler should call _equal by name")
	}
	if !names["break"] {
		t.Error("Foreach's break handler should call break by name")
	}
}

func TestDefinedOrUsesAFreshFoundFlag(t *testing.T) {
	b := DefinedOr(Call("empty", NoOp()), Const(1.0))
	if countOp(b, FORK) != 1 {
		t.Errorf("DefinedOr should fork exactly once, got %d", countOp(b, FORK))
	}
	if countOp(b, STOREV) == 0 {
		t.Error("DefinedOr should allocate a fresh 'found' flag")
	}
}

func TestFunctionSelfBindsForRecursion(t *testing.T) {
	fDef := Function("f", NoOp(), NoOp())
	if fDef.First.BoundBy != fDef.First {
		t.Error("Function should self-bind its CLOSURE_CREATE")
	}
	if fDef.First.Symbol != "f" {
		t.Errorf("Function symbol = %q, want %q", fDef.First.Symbol, "f")
	}
}

func TestLambdaWrapsAnonymousFunction(t *testing.T) {
	l := Lambda(Const(1.0))
	if l.First.Op != CLOSURE_CREATE {
		t.Errorf("Lambda should produce a CLOSURE_CREATE, got %s", l.First.Op)
	}
	if l.First.Symbol != "@lambda" {
		t.Errorf("Lambda symbol = %q, want @lambda", l.First.Symbol)
	}
}

func TestCallCarriesArglist(t *testing.T) {
	args := Concat(Lambda(NoOp()), Lambda(Const(1.0)))
	call := Call("_plus", args)
	if call.First.Op != CALL_JQ {
		t.Fatalf("Call should produce a CALL_JQ, got %s", call.First.Op)
	}
	if CountActuals(call.First.Arglist) != 2 {
		t.Errorf("CountActuals = %d, want 2", CountActuals(call.First.Arglist))
	}
}

func TestTryWithIdentityHandlerStandsInForDupPop(t *testing.T) {
	b := Try(Const(1.0), NoOp())
	if countOp(b, DUP) != 1 || countOp(b, POP) != 1 {
		t.Error("Try with an empty handler should substitute a DUP/POP identity pair")
	}
}
