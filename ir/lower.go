package ir

import "github.com/quill-lang/quillc/cfunc"

// Both produces the values of a, then of b: FORK -> a -> JUMP(end) -> b.
// The fork targets the jump, so on backtrack it resumes at the start of b;
// the jump's target is patched to land after b.
func Both(a, b Block) Block {
	jump := OpTargetLater(JUMP)
	fork := OpTarget(FORK, jump)
	c := Concat(fork, a, jump, b)
	SetTarget(jump, c)
	return c
}

// Subexp wraps a in SUBEXP_BEGIN ... SUBEXP_END so the interpreter treats
// the body as a path-constructing expression.
func Subexp(a Block) Block {
	return Concat(OpSimple(SUBEXP_BEGIN), a, OpSimple(SUBEXP_END))
}

// Collect lowers an array comprehension: a fresh local accumulates every
// value expr produces, then yields the accumulated array.
func Collect(expr Block) Block {
	arrayVar := OpVarFresh(STOREV, "collect")
	head := Concat(OpSimple(DUP), Const([]interface{}{}), arrayVar)

	tail := Concat(OpBound(APPEND, arrayVar), OpSimple(BACKTRACK))

	return Concat(
		head,
		OpTarget(FORK, tail),
		expr,
		tail,
		OpBound(LOADVN, arrayVar),
	)
}

// Reduce lowers reduce(varname; source; init; body): a fresh local holds the
// running result, updated once per value source produces.
func Reduce(varname string, source, init, body Block) Block {
	resVar := OpVarFresh(STOREV, "reduce")
	loop := Concat(
		OpSimple(DUP),
		source,
		Bind(
			OpUnbound(STOREV, varname),
			Concat(OpBound(LOADVN, resVar), body, OpBound(STOREV, resVar)),
			HasVariable,
		),
		OpSimple(BACKTRACK),
	)
	return Concat(
		OpSimple(DUP),
		init,
		resVar,
		OpTarget(FORK, loop),
		loop,
		OpBound(LOADVN, resVar),
	)
}

// Foreach lowers foreach(varname; source; init; update; extract): like
// Reduce but each iteration also runs extract and yields its value, and the
// whole form is wrapped in a Try whose handler swallows a break raised with
// the string "break" and re-raises anything else.
func Foreach(varname string, source, init, update, extract Block) Block {
	output := OpTargetLater(JUMP)
	stateVar := OpVarFresh(STOREV, "foreach")

	loop := Concat(
		OpSimple(DUP),
		source,
		Bind(
			OpUnbound(STOREV, varname),
			Concat(
				OpBound(LOADVN, stateVar),
				update,
				OpSimple(DUP),
				OpBound(STOREV, stateVar),
				extract,
				output,
			),
			HasVariable,
		),
	)

	foreach := Concat(
		OpSimple(DUP),
		init,
		stateVar,
		OpTarget(FORK, loop),
		loop,
		OpSimple(BACKTRACK),
	)
	SetTarget(output, foreach)

	handler := Cond(
		Call("_equal", Concat(Lambda(Const("break")), Lambda(NoOp()))),
		OpSimple(BACKTRACK),
		Call("break", NoOp()),
	)
	return Try(foreach, handler)
}

// DefinedOr lowers a // b: each value of a that passes the JUMP_F test
// (neither false nor null) is emitted; if a produces no such value, the
// values of b are emitted.
func DefinedOr(a, b Block) Block {
	foundVar := OpVarFresh(STOREV, "found")
	init := Concat(OpSimple(DUP), Const(false), foundVar)

	backtrack := OpSimple(BACKTRACK)
	tail := Concat(
		OpSimple(DUP),
		OpBound(LOADV, foundVar),
		OpTarget(JUMP_F, backtrack),
		backtrack,
		OpSimple(POP),
		b,
	)

	ifNotfound := OpSimple(BACKTRACK)

	ifFound := Concat(
		OpSimple(DUP),
		Const(true),
		OpBound(STOREV, foundVar),
		OpTarget(JUMP, tail),
	)

	return Concat(
		init,
		OpTarget(FORK, ifNotfound),
		a,
		OpTarget(JUMP_F, ifFound),
		ifFound,
		ifNotfound,
		tail,
	)
}

// HasMain reports whether top begins with the TOP sentinel.
func HasMain(top Block) bool {
	return top.First != nil && top.First.Op == TOP
}

// IsFuncdef reports whether b is a function definition (begins with
// CLOSURE_CREATE).
func IsFuncdef(b Block) bool {
	return b.First != nil && b.First.Op == CLOSURE_CREATE
}

// CondBranch wraps iftrue so it jumps past iffalse, and returns
// JUMP_F(iftrue) -> iftrue -> iffalse, matching the shape every conditional
// form (Cond, And, Or) branches to.
func CondBranch(iftrue, iffalse Block) Block {
	iftrue = Concat(iftrue, OpTarget(JUMP, iffalse))
	return Concat(OpTarget(JUMP_F, iftrue), iftrue, iffalse)
}

// And desugars a and b to nested conditionals pushing true/false constants.
func And(a, b Block) Block {
	return Concat(OpSimple(DUP), a,
		CondBranch(
			Concat(OpSimple(POP), b, CondBranch(Const(true), Const(false))),
			Concat(OpSimple(POP), Const(false)),
		),
	)
}

// Or desugars a or b to nested conditionals pushing true/false constants.
func Or(a, b Block) Block {
	return Concat(OpSimple(DUP), a,
		CondBranch(
			Concat(OpSimple(POP), Const(true)),
			Concat(OpSimple(POP), b, CondBranch(Const(true), Const(false))),
		),
	)
}

// VarBinding lowers "var as name | body": duplicates the input, evaluates
// var, binds its value to name, then runs body with that binding visible.
func VarBinding(varBlock Block, name string, body Block) Block {
	return Concat(OpSimple(DUP), varBlock,
		Bind(OpUnbound(STOREV, name), body, HasVariable),
	)
}

// Cond lowers if cond then iftrue else iffalse.
func Cond(cond, iftrue, iffalse Block) Block {
	return Concat(OpSimple(DUP), cond,
		CondBranch(
			Concat(OpSimple(POP), iftrue),
			Concat(OpSimple(POP), iffalse),
		),
	)
}

// Try lowers error-handling: on error inside exp, the VM backtracks to the
// FORK_OPT and runs handler; on empty exp, FORK_OPT just backtracks,
// propagating the empty.
func Try(exp, handler Block) Block {
	if handler.IsNoop() {
		// `.` as the handler: a plain DUP/POP pair stands in for identity.
		handler = Concat(OpSimple(DUP), OpSimple(POP))
	}
	exp = Concat(exp, OpTarget(JUMP, handler))
	return Concat(OpTarget(FORK_OPT, exp), exp, handler)
}

// Function lowers a named function definition: formals are bound into body
// with the call-pseudo flag, then the whole definition self-binds so
// recursive calls inside body resolve to it.
func Function(name string, formals, body Block) Block {
	bindEach(formals, body, IsCallPseudo)
	i := newInst(CLOSURE_CREATE)
	i.Subfn = body
	i.Symbol = name
	i.Arglist = formals
	b := instBlock(i)
	bindSubblock(b, b, IsCallPseudo|HasBinding)
	return b
}

// Param returns a formal-parameter placeholder named name, for use in a
// Function's formals list.
func Param(name string) Block {
	return OpUnbound(CLOSURE_PARAM, name)
}

// Lambda wraps body as an anonymous, formal-less function named "@lambda".
func Lambda(body Block) Block {
	return Function("@lambda", NoOp(), body)
}

// Call returns an unbound call site referencing name, carrying args as its
// arglist (each element either a CLOSURE_REF passing an existing closure or
// a CLOSURE_CREATE building one inline).
func Call(name string, args Block) Block {
	b := OpUnbound(CALL_JQ, name)
	b.First.Arglist = args
	return b
}

// CBinding prepends a CLOSURE_CREATE_C binder per native function so that
// unbound references in code resolve to them.
func CBinding(natives []cfunc.Native, code Block) Block {
	for idx := range natives {
		i := newInst(CLOSURE_CREATE_C)
		i.Imm.CFunc = &natives[idx]
		i.Symbol = i.Imm.CFunc.Name
		code = Bind(instBlock(i), code, IsCallPseudo)
	}
	return code
}
