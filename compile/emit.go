package compile

import (
	"fmt"

	"github.com/quill-lang/quillc/feedback"
	"github.com/quill-lang/quillc/ir"
)

// ArgNewClosure is the high bit OR'd into a CALL_JQ operand's binder index
// to tell the interpreter it's looking at a freshly created closure
// (CLOSURE_CREATE) rather than one forwarded from an enclosing frame
// (CLOSURE_PARAM/CLOSURE_REF).
const ArgNewClosure uint16 = 0x8000

// layout is what pass A accumulates as it walks a function's flattened body:
// the codelen it computes, the local-variable names in frame order, and how
// many CLOSURE_CREATE children it found (used to size the subfunctions
// table before pass B runs).
type layout struct {
	codelen        int
	localNames     []string
	nsubfunctions  int
}

// emitFunction is pass A: a single linear walk of the body that computes
// every instruction's bytecode_pos, allocates local-variable frame indices
// in definition order, allocates a subfunction index for each nested
// CLOSURE_CREATE, and registers each CLOSURE_CREATE_C into bc.Globals.
func emitFunction(bc *Bytecode, b ir.Block) layout {
	pos := 0
	varFrameIdx := 0
	lay := layout{}

	for curr := b.First; curr != nil; curr = curr.Next {
		length := ir.Describe(curr.Op).Length
		if curr.Op == ir.CALL_JQ {
			for arg := curr.Arglist.First; arg != nil; arg = arg.Next {
				length += 2
			}
		}
		pos += length
		curr.BytecodePos = pos
		curr.Compiled = bc

		if curr.Op == ir.CLOSURE_REF || curr.Op == ir.CLOSURE_PARAM {
			panic("compile: call-pseudo opcode reached the top-level instruction stream")
		}

		if ir.Describe(curr.Op).Flags&ir.HasVariable != 0 && curr.BoundBy == curr {
			curr.Imm.IntVal = uint16(varFrameIdx)
			varFrameIdx++
			lay.localNames = append(lay.localNames, curr.Symbol)
		}

		if curr.Op == ir.CLOSURE_CREATE {
			if curr.BoundBy != curr {
				panic("compile: CLOSURE_CREATE is not self-bound")
			}
			curr.Imm.IntVal = uint16(lay.nsubfunctions)
			lay.nsubfunctions++
		}
		if curr.Op == ir.CLOSURE_CREATE_C {
			if curr.BoundBy != curr {
				panic("compile: CLOSURE_CREATE_C is not self-bound")
			}
			idx := len(bc.Globals.CFunctions)
			bc.Globals.CFunctions = append(bc.Globals.CFunctions, *curr.Imm.CFunc)
			curr.Imm.IntVal = uint16(idx)
		}
	}

	lay.codelen = pos
	return lay
}

// compileChildren is pass B: for each CLOSURE_CREATE found by pass A,
// allocate a child Bytecode record, link its Globals and Parent, assign a
// closure-parameter index to each CLOSURE_PARAM in its arglist, then
// recursively compile its subfn. Returns every diagnostic raised by a
// nested function and the total nested error count.
func compileChildren(bc *Bytecode, b ir.Block, nsubfunctions int) ([]feedback.Message, int) {
	if nsubfunctions == 0 {
		return nil, 0
	}

	var diagnostics []feedback.Message
	errors := 0
	bc.Subfunctions = make([]*Bytecode, nsubfunctions)

	for curr := b.First; curr != nil; curr = curr.Next {
		if curr.Op != ir.CLOSURE_CREATE {
			continue
		}

		name := curr.Symbol
		subfn := &Bytecode{
			Globals: bc.Globals,
			Parent:  bc,
		}
		subfn.DebugInfo.Name = &name
		bc.Subfunctions[curr.Imm.IntVal] = subfn

		var params []string
		for param := curr.Arglist.First; param != nil; param = param.Next {
			if param.Op != ir.CLOSURE_PARAM {
				panic("compile: non-CLOSURE_PARAM in a function's formals list")
			}
			param.Imm.IntVal = uint16(subfn.NClosures)
			subfn.NClosures++
			param.Compiled = subfn
			params = append(params, param.Symbol)
		}
		subfn.DebugInfo.Params = params

		subDiagnostics, subErrors := compileFunction(subfn, curr.Subfn)
		diagnostics = append(diagnostics, subDiagnostics...)
		errors += subErrors
		curr.Subfn = ir.NoOp()
	}

	return diagnostics, errors
}

// nestingLevel counts the parent hops from bc to the function that owns
// target, i.e. the function for which target.Compiled == that function.
func nestingLevel(bc *Bytecode, target *ir.Instruction) uint16 {
	level := uint16(0)
	for cur := bc; cur != nil; cur = cur.Parent {
		if tc, ok := target.Compiled.(*Bytecode); ok && tc == cur {
			return level
		}
		level++
	}
	panic("compile: branch-binder's function is not an ancestor of the referring function")
}

// emitCode is pass C: a final walk of the body that writes 16-bit words into
// bc.Code, builds the constant pool, and tracks the maximum local-variable
// frame index seen so NLocals can be set.
func emitCode(bc *Bytecode, b ir.Block, codelen int) {
	code := make([]uint16, codelen)
	bc.Code = code
	bc.Codelen = codelen

	pos := 0
	var constantPool []interface{}
	maxvar := -1

	for curr := b.First; curr != nil; curr = curr.Next {
		desc := ir.Describe(curr.Op)
		if desc.Length == 0 {
			continue
		}

		code[pos] = uint16(curr.Op)
		pos++

		switch {
		case curr.Op == ir.CALL_BUILTIN:
			code[pos] = curr.Imm.IntVal
			pos++
			code[pos] = curr.BoundBy.Imm.IntVal
			pos++

		case curr.Op == ir.CALL_JQ:
			code[pos] = curr.Imm.IntVal
			pos++
			code[pos] = nestingLevel(bc, curr.BoundBy)
			pos++
			flag := uint16(0)
			if curr.BoundBy.Op == ir.CLOSURE_CREATE {
				flag = ArgNewClosure
			}
			code[pos] = curr.BoundBy.Imm.IntVal | flag
			pos++
			for arg := curr.Arglist.First; arg != nil; arg = arg.Next {
				if arg.Op != ir.CLOSURE_REF || arg.BoundBy == nil || arg.BoundBy.Op != ir.CLOSURE_CREATE {
					panic("compile: call argument is not a reference to a hoisted closure")
				}
				code[pos] = nestingLevel(bc, arg.BoundBy)
				pos++
				code[pos] = arg.BoundBy.Imm.IntVal | ArgNewClosure
				pos++
			}

		case desc.Flags&ir.HasConstant != 0:
			code[pos] = uint16(len(constantPool))
			pos++
			constantPool = append(constantPool, curr.Imm.Constant)

		case desc.Flags&ir.HasVariable != 0:
			code[pos] = nestingLevel(bc, curr.BoundBy)
			pos++
			varIdx := curr.BoundBy.Imm.IntVal
			code[pos] = varIdx
			pos++
			if int(varIdx) > maxvar {
				maxvar = int(varIdx)
			}

		case desc.Flags&ir.HasBranch != 0:
			offset := curr.Imm.Target.BytecodePos - (pos + 1)
			if offset <= 0 {
				panic(fmt.Sprintf("compile: non-forward branch in %s", curr.Op.String()))
			}
			code[pos] = uint16(offset)
			pos++

		default:
			if desc.Length > 1 {
				panic("compile: codegen not implemented for opcode " + curr.Op.String())
			}
		}
	}

	bc.Constants = constantPool
	bc.NLocals = maxvar + 2 // preserved as maxvar+2, not maxvar+1 — see DESIGN.md
}

// compileFunction drives the three passes for a single function: call-site
// expansion, pass A/B (layout and recursive child compilation), and, only if
// no errors were raised anywhere in the function or its children, pass C.
func compileFunction(bc *Bytecode, b ir.Block) ([]feedback.Message, int) {
	expandDiagnostics, errors := ExpandCallArglist(&b)
	diagnostics := expandDiagnostics

	b = ir.Concat(b, ir.OpSimple(ir.RET))

	lay := emitFunction(bc, b)
	bc.DebugInfo.Locals = lay.localNames

	childDiagnostics, childErrors := compileChildren(bc, b, lay.nsubfunctions)
	diagnostics = append(diagnostics, childDiagnostics...)
	errors += childErrors

	if errors == 0 {
		emitCode(bc, b, lay.codelen)
	} else {
		bc.Codelen = lay.codelen
	}

	return diagnostics, errors
}
