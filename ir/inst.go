// Package ir implements the block intermediate representation used by the
// filter-language compiler: instructions linked into blocks, free-variable
// binding, the control-flow lowering forms, and the import-stripping pass
// that runs ahead of code emission.
package ir

import (
	"github.com/quill-lang/quillc/cfunc"
	"github.com/quill-lang/quillc/source"
)

// Immediate holds every kind of operand an Instruction might carry. Which
// field is meaningful is determined entirely by the instruction's Op and its
// descriptor flags; this mirrors the teacher's habit of keeping plain typed
// fields on an instruction variant rather than reaching for a boxed
// interface{} union.
type Immediate struct {
	IntVal   uint16
	Target   *Instruction
	Constant interface{}
	CFunc    *cfunc.Native
}

// Instruction is one node of the doubly-linked block list. Every IR-producing
// call in this package returns freshly allocated instructions; callers must
// not reuse a block after handing it to a builder, since ownership of its
// nodes transfers to whatever block it gets spliced into.
type Instruction struct {
	Next, Prev *Instruction

	Op  Opcode
	Imm Immediate

	LocFile *source.LocFile
	Source  source.Span

	// BoundBy is the binding tri-state: nil means unbound, BoundBy == the
	// instruction itself means it is a binder, anything else is a
	// cross-reference to the binder that resolved it.
	BoundBy *Instruction
	Symbol  string

	NFormals int
	NActuals int

	Subfn   Block
	Arglist Block

	// Compiled points at whatever function record this instruction was
	// assigned to during emission. It is opaque here to avoid an import
	// cycle with package compile; compile casts it back to *compile.Bytecode.
	Compiled interface{}

	BytecodePos int
}

// Block is a possibly-empty doubly-linked sublist of instructions, denoted by
// its first and last nodes. A block is never shared: every function that
// takes a Block by value takes ownership of its nodes.
type Block struct {
	First, Last *Instruction
}

func instBlock(i *Instruction) Block {
	return Block{First: i, Last: i}
}

func newInst(op Opcode) *Instruction {
	return &Instruction{
		Op:          op,
		NFormals:    -1,
		NActuals:    -1,
		BytecodePos: -1,
	}
}

// IsSingle reports whether b holds exactly one instruction.
func (b Block) IsSingle() bool {
	return b.First != nil && b.First == b.Last
}

// IsNoop reports whether b is the empty block.
func (b Block) IsNoop() bool {
	return b.First == nil && b.Last == nil
}

// Take removes and returns the first instruction of *b, or nil if b is
// already empty.
func (b *Block) Take() *Instruction {
	if b.First == nil {
		return nil
	}
	i := b.First
	if i.Next != nil {
		i.Next.Prev = nil
		b.First = i.Next
		i.Next = nil
	} else {
		b.First = nil
		b.Last = nil
	}
	return i
}

// NoOp returns the empty block.
func NoOp() Block {
	return Block{}
}

// SetLocation stamps every instruction in b that doesn't already carry a
// source location with loc and a retained reference to file.
func SetLocation(loc source.Span, file *source.LocFile, b Block) Block {
	for i := b.First; i != nil; i = i.Next {
		if i.Source == (source.Span{}) {
			i.Source = loc
			i.LocFile = file.Retain()
		}
	}
	return b
}

// OpSimple returns a single-instruction block for an opcode with no operands.
func OpSimple(op Opcode) Block {
	if OpcodeDescriptors[op].Length != 1 {
		panic("ir: OpSimple used with non-unit-length opcode " + op.String())
	}
	return instBlock(newInst(op))
}

// Const returns a single LOADK instruction carrying an owned constant value.
func Const(value interface{}) Block {
	i := newInst(LOADK)
	i.Imm.Constant = value
	return instBlock(i)
}

// IsConst reports whether b is a single LOADK instruction.
func (b Block) IsConst() bool {
	return b.IsSingle() && b.First.Op == LOADK
}

// ConstValue returns the constant value of a single-LOADK block.
func (b Block) ConstValue() interface{} {
	if !b.IsConst() {
		panic("ir: ConstValue called on non-constant block")
	}
	return b.First.Imm.Constant
}

// OpTarget returns a branch instruction whose target is the last instruction
// of target. target must be non-empty.
func OpTarget(op Opcode, target Block) Block {
	if OpcodeDescriptors[op].Flags&HasBranch == 0 {
		panic("ir: OpTarget used with non-branch opcode " + op.String())
	}
	if target.Last == nil {
		panic("ir: OpTarget given empty target block")
	}
	i := newInst(op)
	i.Imm.Target = target.Last
	return instBlock(i)
}

// OpTargetLater returns a branch instruction whose target is patched later
// via SetTarget.
func OpTargetLater(op Opcode) Block {
	if OpcodeDescriptors[op].Flags&HasBranch == 0 {
		panic("ir: OpTargetLater used with non-branch opcode " + op.String())
	}
	i := newInst(op)
	i.Imm.Target = nil
	return instBlock(i)
}

// SetTarget patches the branch target of a single-instruction block.
func SetTarget(b Block, target Block) {
	if !b.IsSingle() {
		panic("ir: SetTarget on a non-single block")
	}
	if OpcodeDescriptors[b.First.Op].Flags&HasBranch == 0 {
		panic("ir: SetTarget on a non-branch instruction")
	}
	if target.Last == nil {
		panic("ir: SetTarget given empty target block")
	}
	b.First.Imm.Target = target.Last
}

// OpUnbound returns an instruction in the unbound state, carrying name as its
// symbol. Binding later attaches BoundBy by walking enclosing definitions.
func OpUnbound(op Opcode, name string) Block {
	if OpcodeDescriptors[op].Flags&HasBinding == 0 {
		panic("ir: OpUnbound used with non-binding opcode " + op.String())
	}
	i := newInst(op)
	i.Symbol = name
	return instBlock(i)
}

// OpVarFresh returns a fresh local-variable binder: an unbound variable
// instruction immediately self-bound via Bind. hint names the variable for
// debug info; it need not be unique, since each call allocates a distinct
// instruction identity.
func OpVarFresh(op Opcode, hint string) Block {
	if OpcodeDescriptors[op].Flags&HasVariable == 0 {
		panic("ir: OpVarFresh used with non-variable opcode " + op.String())
	}
	return Bind(OpUnbound(op, hint), NoOp(), HasVariable)
}

// OpBound returns a reference instruction whose BoundBy is preset to binder,
// copying its symbol. binder must be a single instruction.
func OpBound(op Opcode, binder Block) Block {
	if !binder.IsSingle() {
		panic("ir: OpBound given a non-single binder block")
	}
	b := OpUnbound(op, binder.First.Symbol)
	b.First.BoundBy = binder.First
	return b
}

func instJoin(a, b *Instruction) {
	if a == nil || b == nil {
		panic("ir: instJoin given a nil instruction")
	}
	if a.Next != nil || b.Prev != nil {
		panic("ir: instJoin given already-linked instructions")
	}
	a.Next = b
	b.Prev = a
}

// Append splices b2's instructions onto the end of *b.
func Append(b *Block, b2 Block) {
	if b2.First == nil {
		return
	}
	if b.Last != nil {
		instJoin(b.Last, b2.First)
	} else {
		b.First = b2.First
	}
	b.Last = b2.Last
}

// Join concatenates a and b and returns the result.
func Join(a, b Block) Block {
	c := a
	Append(&c, b)
	return c
}

// Concat joins an arbitrary number of blocks left to right. It is the
// variadic convenience form of Join, used throughout lower.go in place of
// the teacher's repeated two-argument BLOCK() macro calls.
func Concat(blocks ...Block) Block {
	var out Block
	for _, b := range blocks {
		Append(&out, b)
	}
	return out
}
