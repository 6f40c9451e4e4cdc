package ir

import "testing"

func strp(s string) *string { return &s }

func TestTakeImportsPreservesTopAndOrder(t *testing.T) {
	prog := Concat(
		OpSimple(TOP),
		GenImport("a", strp("a"), nil),
		GenImport("b", nil, strp("./lib")),
		Const(1.0),
	)

	imports := TakeImports(&prog)

	if len(imports) != 2 {
		t.Fatalf("got %d imports, want 2", len(imports))
	}
	if imports[0].Name != "a" || imports[0].As == nil || *imports[0].As != "a" {
		t.Errorf("imports[0] = %+v, want name=a as=a", imports[0])
	}
	if imports[1].Name != "b" || imports[1].Search == nil || *imports[1].Search != "./lib" {
		t.Errorf("imports[1] = %+v, want name=b search=./lib", imports[1])
	}

	if prog.First == nil || prog.First.Op != TOP {
		t.Fatal("TakeImports should leave the leading TOP sentinel in place")
	}
	if prog.First.Next == nil || prog.First.Next.Op != LOADK {
		t.Error("TakeImports should strip every DEPS instruction from the body")
	}
}

func TestTakeImportsWithoutTop(t *testing.T) {
	prog := Concat(GenImport("a", nil, nil), Const(1.0))
	imports := TakeImports(&prog)
	if len(imports) != 1 {
		t.Fatalf("got %d imports, want 1", len(imports))
	}
	if prog.First == nil || prog.First.Op != LOADK {
		t.Error("remaining body should start with the non-import instruction")
	}
}

func TestTakeImportsNoneIsNoop(t *testing.T) {
	prog := Concat(OpSimple(TOP), Const(1.0))
	imports := TakeImports(&prog)
	if imports != nil {
		t.Errorf("expected no imports, got %v", imports)
	}
}
