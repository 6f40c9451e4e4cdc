// Package compile implements call-site expansion and code emission: the
// back half of the pipeline that turns a bound, dead-code-eliminated ir.Block
// into a flat Bytecode tree a virtual machine can execute.
package compile

import "github.com/quill-lang/quillc/cfunc"

// Globals is shared by every Bytecode function compiled from the same
// top-level program: the native-function table and the names registered
// against it as CLOSURE_CREATE_C binders are encountered.
type Globals struct {
	CFunctions []cfunc.Native
}

// Bytecode is one compiled function: the emitted word stream plus everything
// a virtual machine needs to execute it — its constant pool, nested function
// table, closure/local frame sizes, and debug info. It is the Go rendering of
// spec's "Bytecode function" external interface.
type Bytecode struct {
	Parent *Bytecode
	Globals *Globals

	NClosures int
	NLocals   int

	Code    []uint16
	Codelen int

	Constants []interface{}

	Subfunctions []*Bytecode

	DebugInfo DebugInfo
}

// DebugInfo mirrors the debug object compile.c attaches to every compiled
// function: its name (nil for the top-level program), the names of its
// closure parameters, and the names of its local variables, in frame-index
// order.
type DebugInfo struct {
	Name   *string
	Params []string
	Locals []string
}
