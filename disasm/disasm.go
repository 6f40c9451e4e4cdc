// Package disasm renders a compiled compile.Bytecode function (and its
// nested subfunctions) as human-readable text, the way a --debug-disassembly
// flag would want it.
package disasm

import (
	"fmt"
	"strings"

	"github.com/quill-lang/quillc/compile"
	"github.com/quill-lang/quillc/ir"
)

// Disassemble renders bc and every function nested inside it (recursively),
// one function per section: its name, its code words decoded per-opcode,
// its constant pool, and its debug info.
func Disassemble(bc *compile.Bytecode) string {
	var out strings.Builder
	disassembleFunction(&out, bc, 0)
	return out.String()
}

func disassembleFunction(out *strings.Builder, bc *compile.Bytecode, depth int) {
	name := "<main>"
	if bc.DebugInfo.Name != nil {
		name = *bc.DebugInfo.Name
	}
	pad := strings.Repeat("  ", depth)

	fmt.Fprintf(out, "%s<function %s> nclosures=%d nlocals=%d\n", pad, name, bc.NClosures, bc.NLocals)

	fmt.Fprintf(out, "%s  instructions (%d words)\n", pad, bc.Codelen)
	disassembleCode(out, bc, pad+"   ")

	fmt.Fprintf(out, "%s  constants (%d)\n", pad, len(bc.Constants))
	for i, c := range bc.Constants {
		fmt.Fprintf(out, "%s   #%d %v\n", pad, i, c)
	}

	if len(bc.DebugInfo.Params) > 0 {
		fmt.Fprintf(out, "%s  params (%d)\n", pad, len(bc.DebugInfo.Params))
		for i, p := range bc.DebugInfo.Params {
			fmt.Fprintf(out, "%s   #%d %q\n", pad, i, p)
		}
	}

	if len(bc.DebugInfo.Locals) > 0 {
		fmt.Fprintf(out, "%s  locals (%d)\n", pad, len(bc.DebugInfo.Locals))
		for i, l := range bc.DebugInfo.Locals {
			fmt.Fprintf(out, "%s   #%d %q\n", pad, i, l)
		}
	}

	for i, sub := range bc.Subfunctions {
		fmt.Fprintf(out, "%s  subfunction #%d:\n", pad, i)
		disassembleFunction(out, sub, depth+2)
	}
}

// disassembleCode walks a bytecode function's raw word stream, decoding one
// instruction per line with its starting word offset, mnemonic, and
// operands. It panics on an opcode word it doesn't recognize, matching the
// compiled array's guarantee that every word in range is either an opcode or
// a recognized operand of the preceding one.
func disassembleCode(out *strings.Builder, bc *compile.Bytecode, pad string) {
	code := bc.Code
	for i := 0; i < len(code); {
		op := ir.Opcode(code[i])
		desc := ir.Describe(op)

		switch {
		case op == ir.CALL_BUILTIN:
			nargs, cfuncIdx := code[i+1], code[i+2]
			fmt.Fprintf(out, "%s%4d %-14s nargs=%d cfunc=#%d\n", pad, i, op, nargs, cfuncIdx)
			i += 3

		case op == ir.CALL_JQ:
			nargs := code[i+1]
			level, idx := code[i+2], code[i+3]
			fmt.Fprintf(out, "%s%4d %-14s nargs=%d %s\n", pad, i, op, nargs, closureRef(level, idx))
			i += 4
			for a := uint16(0); a < nargs; a++ {
				argLevel, argIdx := code[i], code[i+1]
				fmt.Fprintf(out, "%s       arg %s\n", pad, closureRef(argLevel, argIdx))
				i += 2
			}

		case desc.Flags&ir.HasConstant != 0:
			pool := code[i+1]
			fmt.Fprintf(out, "%s%4d %-14s #%d\n", pad, i, op, pool)
			i += 2

		case desc.Flags&ir.HasVariable != 0:
			level, idx := code[i+1], code[i+2]
			fmt.Fprintf(out, "%s%4d %-14s level=%d idx=%d\n", pad, i, op, level, idx)
			i += 3

		case desc.Flags&ir.HasBranch != 0:
			offset := code[i+1]
			fmt.Fprintf(out, "%s%4d %-14s ->%d\n", pad, i, op, i+2+int(offset))
			i += 2

		default:
			fmt.Fprintf(out, "%s%4d %s\n", pad, i, op)
			i++
		}
	}
}

func closureRef(level, idx uint16) string {
	newClosure := idx&compile.ArgNewClosure != 0
	idx &^= compile.ArgNewClosure
	if newClosure {
		return fmt.Sprintf("level=%d idx=%d (new)", level, idx)
	}
	return fmt.Sprintf("level=%d idx=%d", level, idx)
}
