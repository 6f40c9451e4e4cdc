package ir

// HasOnlyBindersAndImports reports whether every instruction in binders is
// either a DEPS import record or satisfies bindflags (with HasBinding always
// implied). It mirrors the exception compile.c carves out for import
// records, which sit alongside binder instructions at the front of a
// program but never participate in name resolution.
func HasOnlyBindersAndImports(binders Block, bindflags OpcodeFlags) bool {
	bindflags |= HasBinding
	for curr := binders.First; curr != nil; curr = curr.Next {
		if Describe(curr.Op).Flags&bindflags != bindflags && curr.Op != DEPS {
			return false
		}
	}
	return true
}

// HasOnlyBinders reports whether every instruction in binders satisfies
// bindflags (with HasBinding always implied), with no import-record
// exception.
func HasOnlyBinders(binders Block, bindflags OpcodeFlags) bool {
	bindflags |= HasBinding
	for curr := binders.First; curr != nil; curr = curr.Next {
		if Describe(curr.Op).Flags&bindflags != bindflags {
			return false
		}
	}
	return true
}

// CountFormals counts a binder's formal parameters: a native function's
// formals are implicit (NArgs-1, to exclude the input value); a user
// function's or lambda's formals are its CLOSURE_PARAM arglist entries.
func CountFormals(b Block) int {
	if b.First.Op == CLOSURE_CREATE_C {
		return b.First.Imm.CFunc.NArgs - 1
	}
	args := 0
	for i := b.First.Arglist.First; i != nil; i = i.Next {
		if i.Op != CLOSURE_PARAM {
			panic("ir: CountFormals found a non-CLOSURE_PARAM in a formals list")
		}
		args++
	}
	return args
}

// CountActuals counts a call site's actual parameters: every element of a
// call's arglist is a CLOSURE_REF (pass an existing closure) or a
// CLOSURE_CREATE (build one inline).
func CountActuals(b Block) int {
	args := 0
	for i := b.First; i != nil; i = i.Next {
		switch i.Op {
		case CLOSURE_CREATE, CLOSURE_PARAM, CLOSURE_CREATE_C, CLOSURE_REF:
			args++
		default:
			panic("ir: CountActuals found an unexpected opcode in an arglist")
		}
	}
	return args
}

// CountRefs counts how many instructions in body (recursing into every
// subfn and arglist) are bound to binder, not counting binder itself.
func CountRefs(binder, body Block) int {
	nrefs := 0
	for i := body.First; i != nil; i = i.Next {
		if i != binder.First && i.BoundBy == binder.First {
			nrefs++
		}
		nrefs += CountRefs(binder, i.Subfn)
		nrefs += CountRefs(binder, i.Arglist)
	}
	return nrefs
}

func bindSubblock(binder, body Block, bindflags OpcodeFlags) int {
	if !binder.IsSingle() {
		panic("ir: bindSubblock given a non-single binder")
	}
	if Describe(binder.First.Op).Flags&bindflags != bindflags {
		panic("ir: bindSubblock given a binder that doesn't satisfy bindflags")
	}
	if binder.First.BoundBy != nil && binder.First.BoundBy != binder.First {
		panic("ir: bindSubblock given a binder that is already a reference")
	}

	binder.First.BoundBy = binder.First
	if binder.First.NFormals == -1 {
		binder.First.NFormals = CountFormals(binder)
	}

	nrefs := 0
	for i := body.First; i != nil; i = i.Next {
		flags := Describe(i.Op).Flags
		if flags&bindflags == bindflags && i.BoundBy == nil && i.Symbol == binder.First.Symbol {
			if i.Op == CALL_JQ && i.NActuals == -1 {
				i.NActuals = CountActuals(i.Arglist)
			}
			if i.NActuals == -1 || i.NActuals == binder.First.NFormals {
				i.BoundBy = binder.First
				nrefs++
			}
		}
		nrefs += bindSubblock(binder, i.Subfn, bindflags)
		nrefs += bindSubblock(binder, i.Arglist, bindflags)
	}
	return nrefs
}

func bindEach(binder, body Block, bindflags OpcodeFlags) int {
	if !HasOnlyBinders(binder, bindflags) {
		panic("ir: bindEach given a binder block with a non-binder instruction")
	}
	bindflags |= HasBinding
	nrefs := 0
	for curr := binder.First; curr != nil; curr = curr.Next {
		nrefs += bindSubblock(instBlock(curr), body, bindflags)
	}
	return nrefs
}

// Bind attaches every free reference in body whose symbol matches one of
// binder's definitions and whose opcode flags satisfy bindflags, then
// prepends binder to body. Each binder instruction's BoundBy is set to
// itself.
func Bind(binder, body Block, bindflags OpcodeFlags) Block {
	bindEach(binder, body, bindflags)
	return Join(binder, body)
}

// BindLibrary rewrites each of binder's definitions' symbols to
// "libname::symbol" for the duration of binding against body, then restores
// the original symbol. Unlike Bind, it returns body alone: library
// definitions are expected to be reached through their qualified name
// rather than by being spliced into the returned block.
func BindLibrary(binder, body Block, bindflags OpcodeFlags, libname string) Block {
	if !HasOnlyBinders(binder, bindflags) {
		panic("ir: BindLibrary given a binder block with a non-binder instruction")
	}
	bindflags |= HasBinding
	for curr := binder.First; curr != nil; curr = curr.Next {
		original := curr.Symbol
		curr.Symbol = libname + "::" + original
		bindSubblock(instBlock(curr), body, bindflags)
		curr.Symbol = original
	}
	return body
}

// BindReferenced binds binder against body as Bind does, but keeps only the
// definitions transitively referenced from body: it iterates to a fixed
// point, promoting definitions referenced by already-kept definitions into
// the kept set, until no new definition is kept.
func BindReferenced(binder, body Block, bindflags OpcodeFlags) Block {
	if !HasOnlyBinders(binder, bindflags) {
		panic("ir: BindReferenced given a binder block with a non-binder instruction")
	}
	bindflags |= HasBinding

	refd := NoOp()
	unrefd := NoOp()
	lastKept := 0
	kept := 0

	for {
		for {
			curr := binder.Take()
			if curr == nil {
				break
			}
			b := instBlock(curr)
			nrefs := bindEach(b, body, bindflags)
			nrefs += CountRefs(b, refd)
			nrefs += CountRefs(b, body)
			if nrefs > 0 {
				Append(&refd, b)
				kept++
			} else {
				Append(&unrefd, b)
			}
		}
		if kept == lastKept {
			break
		}
		lastKept = kept
		binder = unrefd
		unrefd = NoOp()
	}
	return Join(refd, body)
}

// DropUnreferenced performs the same reachability pass as BindReferenced
// over an already-bound body, discarding any definition unreachable from the
// rest of the program. The TOP sentinel, if present at the head, is
// preserved across the pass.
func DropUnreferenced(body Block) Block {
	unrefd := NoOp()

	for {
		refd := NoOp()
		drop := 0

		var top *Instruction
		for {
			curr := body.Take()
			if curr == nil {
				break
			}
			if curr.Op == TOP {
				top = curr
				break
			}
			b := instBlock(curr)
			if CountRefs(b, refd)+CountRefs(b, body) == 0 {
				Append(&unrefd, b)
				drop++
			} else {
				Append(&refd, b)
			}
		}
		if top != nil {
			body = Join(instBlock(top), body)
		}
		body = Join(refd, body)
		if drop == 0 {
			break
		}
	}
	return body
}
