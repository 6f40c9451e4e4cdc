package ir

import (
	"fmt"
	"strings"
)

// Stringify renders a block as a flat S-expression trace, one line per
// instruction, with nested subfn/arglist blocks indented beneath their
// owner. It exists for --debug-ir output and for tests that want to assert
// on IR shape without walking pointers by hand.
func Stringify(b Block) string {
	var lines []string
	for i := b.First; i != nil; i = i.Next {
		lines = append(lines, stringifyInst(i))
	}
	if len(lines) == 0 {
		return "(noop)"
	}
	return strings.Join(lines, "\n")
}

func stringifyInst(i *Instruction) string {
	head := fmt.Sprintf("(%s%s)", i.Op.String(), stringifyOperands(i))

	if !i.Subfn.IsNoop() {
		head += "\n" + indent(fmt.Sprintf("(subfn\n%s\n)", indent(Stringify(i.Subfn))))
	}
	if !i.Arglist.IsNoop() {
		head += "\n" + indent(fmt.Sprintf("(arglist\n%s\n)", indent(Stringify(i.Arglist))))
	}
	return head
}

func stringifyOperands(i *Instruction) string {
	switch {
	case i.Op == LOADK:
		return fmt.Sprintf(" %v", i.Imm.Constant)
	case i.Op == DEPS:
		return fmt.Sprintf(" %q %v", i.Symbol, i.Imm.Constant)
	case Describe(i.Op).Flags&HasBranch != 0:
		return " ->target"
	case i.Symbol != "":
		return stringifyBinding(i)
	default:
		return ""
	}
}

func stringifyBinding(i *Instruction) string {
	switch i.BoundBy {
	case nil:
		return fmt.Sprintf(" %s(unbound)", i.Symbol)
	case i:
		return fmt.Sprintf(" %s(binder)", i.Symbol)
	default:
		return fmt.Sprintf(" %s(bound)", i.Symbol)
	}
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
