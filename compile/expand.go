package compile

import (
	"fmt"

	"github.com/quill-lang/quillc/feedback"
	"github.com/quill-lang/quillc/ir"
)

// ExpandCallArglist rewrites every CALL_JQ in *b into a calling sequence
// ahead of code emission:
//
//   - A call bound to a user function or formal parameter has its arglist
//     walked: each CLOSURE_REF passes through unchanged, each CLOSURE_CREATE
//     is hoisted into a prelude emitted immediately before the call and
//     replaced in the arglist by a CLOSURE_REF bound to the hoisted closure.
//   - A call bound to a native function expects each argument to be a
//     CLOSURE_CREATE whose body becomes an inline SUBEXP_BEGIN...SUBEXP_END
//     subexpression, prepended to the prelude in reverse evaluation order;
//     the instruction is then retagged CALL_BUILTIN.
//   - Any reference that reaches this phase still unbound is reported as an
//     unresolved-symbol diagnostic and left in place, incrementing the error
//     count.
//
// It returns every diagnostic raised and the total error count.
func ExpandCallArglist(b *ir.Block) ([]feedback.Message, int) {
	var diagnostics []feedback.Message
	errors := 0
	ret := ir.NoOp()

	for {
		curr := b.Take()
		if curr == nil {
			break
		}
		currBlock := ir.Block{First: curr, Last: curr}

		if ir.Describe(curr.Op).Flags&ir.HasBinding != 0 && curr.BoundBy == nil {
			diagnostics = append(diagnostics, feedback.Error{
				Classification: feedback.UnresolvedSymbolError,
				What: feedback.Selection{
					Description: fmt.Sprintf("%s/%d is not defined", curr.Symbol, ir.CountActuals(curr.Arglist)),
					File:        curr.LocFile,
					Span:        curr.Source,
				},
			})
			errors++
			ir.Append(&ret, currBlock)
			continue
		}

		prelude := ir.NoOp()
		if curr.Op == ir.CALL_JQ {
			actualArgs, desiredArgs := 0, 0

			switch curr.BoundBy.Op {
			case ir.CLOSURE_CREATE, ir.CLOSURE_PARAM:
				callargs := ir.NoOp()
				for {
					i := curr.Arglist.Take()
					if i == nil {
						break
					}
					iBlock := ir.Block{First: i, Last: i}
					switch i.Op {
					case ir.CLOSURE_REF:
						ir.Append(&callargs, iBlock)
					case ir.CLOSURE_CREATE:
						ir.Append(&prelude, iBlock)
						ir.Append(&callargs, ir.OpBound(ir.CLOSURE_REF, iBlock))
					default:
						panic("compile: unexpected opcode in call arglist")
					}
					actualArgs++
				}
				curr.Imm.IntVal = uint16(actualArgs)
				curr.Arglist = callargs

				if curr.BoundBy.Op == ir.CLOSURE_CREATE {
					for i := curr.BoundBy.Arglist.First; i != nil; i = i.Next {
						desiredArgs++
					}
				}

			case ir.CLOSURE_CREATE_C:
				for {
					i := curr.Arglist.Take()
					if i == nil {
						break
					}
					if i.Op != ir.CLOSURE_CREATE {
						panic("compile: native call argument is not a closure literal")
					}
					body := i.Subfn
					i.Subfn = ir.NoOp()
					// arguments evaluate in reverse order, so each is prepended
					// ahead of whatever's already in the prelude
					subDiagnostics, subErrors := ExpandCallArglist(&body)
					diagnostics = append(diagnostics, subDiagnostics...)
					errors += subErrors
					prelude = ir.Join(ir.Subexp(body), prelude)
					actualArgs++
				}
				curr.Op = ir.CALL_BUILTIN
				curr.Imm.IntVal = uint16(actualArgs + 1)
				desiredArgs = curr.BoundBy.Imm.CFunc.NArgs - 1

			default:
				panic("compile: call site bound to an instruction that is not a function")
			}

			if actualArgs != desiredArgs {
				panic(fmt.Sprintf("compile: %s/%d called with %d arguments, expected %d",
					curr.Symbol, desiredArgs, actualArgs, desiredArgs))
			}
		}

		ret = ir.Concat(ret, prelude, currBlock)
	}

	*b = ret
	return diagnostics, errors
}
