package compile

import (
	"fmt"

	"github.com/quill-lang/quillc/cfunc"
	"github.com/quill-lang/quillc/feedback"
	"github.com/quill-lang/quillc/ir"
)

// Compile turns a bound program into a Bytecode tree:
//
//  1. Strip the leading TOP sentinel (if any) and any DEPS prefix via
//     ir.TakeImports, returning the import list to the caller.
//  2. Bind natives against the program (ir.CBinding) and prune any
//     definition unreachable from its entry point (ir.DropUnreferenced).
//  3. Recursively compile. On zero errors the returned Bytecode is valid and
//     the diagnostics slice is empty (or warnings-only); on any error the
//     returned Bytecode is nil and diagnostics explains why.
//
// An internal assertion failure anywhere in the three passes is recovered
// here rather than left to propagate as a panic, and reported as a
// feedback.Error with classification feedback.InternalError.
func Compile(prog ir.Block, natives cfunc.Table) (*Bytecode, []ir.Import, []feedback.Message) {
	imports := ir.TakeImports(&prog)

	prog = ir.CBinding(natives, prog)
	prog = ir.DropUnreferenced(prog)

	bc := &Bytecode{Globals: &Globals{}}

	var diagnostics []feedback.Message
	errors := 0

	func() {
		defer func() {
			if r := recover(); r != nil {
				diagnostics = append(diagnostics, feedback.Error{
					Classification: feedback.InternalError,
					What: feedback.Selection{
						Description: fmt.Sprintf("%v", r),
					},
				})
				errors++
			}
		}()

		d, e := compileFunction(bc, prog)
		diagnostics = append(diagnostics, d...)
		errors += e
	}()

	if errors > 0 {
		return nil, imports, diagnostics
	}
	return bc, imports, diagnostics
}
