package ir

import "testing"

func TestConcatJoinsInOrder(t *testing.T) {
	b := Concat(OpSimple(DUP), OpSimple(POP), OpSimple(BACKTRACK))

	var ops []Opcode
	for i := b.First; i != nil; i = i.Next {
		ops = append(ops, i.Op)
	}
	want := []Opcode{DUP, POP, BACKTRACK}
	if len(ops) != len(want) {
		t.Fatalf("got %d instructions, want %d", len(ops), len(want))
	}
	for i, op := range ops {
		if op != want[i] {
			t.Errorf("op[%d] = %s, want %s", i, op, want[i])
		}
	}
}

func TestConcatEmptyOperandsIsNoop(t *testing.T) {
	b := Concat(NoOp(), NoOp())
	if !b.IsNoop() {
		t.Error("Concat of empty blocks should be a no-op")
	}
}

func TestOpSimpleRejectsOperandBearingOpcode(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic using OpSimple on a branch opcode")
		}
	}()
	OpSimple(JUMP)
}

func TestConstRoundTrip(t *testing.T) {
	b := Const(3.5)
	if !b.IsConst() {
		t.Fatal("Const block should report IsConst")
	}
	if got := b.ConstValue(); got != 3.5 {
		t.Errorf("ConstValue = %v, want 3.5", got)
	}
}

func TestOpTargetPointsAtTargetsLast(t *testing.T) {
	target := Concat(OpSimple(DUP), OpSimple(POP))
	branch := OpTarget(JUMP, target)
	if branch.First.Imm.Target != target.Last {
		t.Error("OpTarget should point at the target block's last instruction")
	}
}

func TestSetTargetPatchesLater(t *testing.T) {
	branch := OpTargetLater(JUMP)
	if branch.First.Imm.Target != nil {
		t.Fatal("OpTargetLater should leave the target nil until patched")
	}
	target := OpSimple(BACKTRACK)
	SetTarget(branch, target)
	if branch.First.Imm.Target != target.Last {
		t.Error("SetTarget did not patch the branch target")
	}
}

func TestOpBoundCopiesBinderSymbol(t *testing.T) {
	binder := OpVarFresh(STOREV, "x")
	ref := OpBound(LOADV, binder)
	if ref.First.Symbol != "x" {
		t.Errorf("OpBound symbol = %q, want %q", ref.First.Symbol, "x")
	}
	if ref.First.BoundBy != binder.First {
		t.Error("OpBound should preset BoundBy to the given binder instruction")
	}
}

func TestAppendOntoNonEmptyLinksNodes(t *testing.T) {
	a := OpSimple(DUP)
	b := OpSimple(POP)
	Append(&a, b)
	if a.First.Next != b.First {
		t.Error("Append should link b onto the end of a")
	}
	if a.Last != b.Last {
		t.Error("Append should update a.Last to b.Last")
	}
}
