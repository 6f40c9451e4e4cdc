package ir

// Opcode is the numeric tag of an Instruction. Values are deliberately
// small and dense so they double as indices into the word stream once
// emitted.
type Opcode int

const (
	DUP Opcode = iota
	POP
	BACKTRACK
	FORK
	FORK_OPT
	JUMP
	JUMP_F
	SUBEXP_BEGIN
	SUBEXP_END
	LOADK
	STOREV
	LOADV
	LOADVN
	APPEND
	CALL_JQ
	CALL_BUILTIN
	RET
	TOP
	DEPS
	CLOSURE_CREATE
	CLOSURE_CREATE_C
	CLOSURE_PARAM
	CLOSURE_REF
)

var opcodeNames = map[Opcode]string{
	DUP:              "DUP",
	POP:              "POP",
	BACKTRACK:        "BACKTRACK",
	FORK:             "FORK",
	FORK_OPT:         "FORK_OPT",
	JUMP:             "JUMP",
	JUMP_F:           "JUMP_F",
	SUBEXP_BEGIN:     "SUBEXP_BEGIN",
	SUBEXP_END:       "SUBEXP_END",
	LOADK:            "LOADK",
	STOREV:           "STOREV",
	LOADV:            "LOADV",
	LOADVN:           "LOADVN",
	APPEND:           "APPEND",
	CALL_JQ:          "CALL_JQ",
	CALL_BUILTIN:     "CALL_BUILTIN",
	RET:              "RET",
	TOP:              "TOP",
	DEPS:             "DEPS",
	CLOSURE_CREATE:   "CLOSURE_CREATE",
	CLOSURE_CREATE_C: "CLOSURE_CREATE_C",
	CLOSURE_PARAM:    "CLOSURE_PARAM",
	CLOSURE_REF:      "CLOSURE_REF",
}

// String renders the opcode's mnemonic, falling back to "OP<unknown>" for
// anything outside the known table (there shouldn't be any).
func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "OP<unknown>"
}

// OpcodeFlags is a bitmask of per-opcode properties consulted by binding,
// lowering, and emission.
type OpcodeFlags int

const (
	// HasConstant marks an opcode whose immediate is a constant-pool entry
	// (LOADK, DEPS).
	HasConstant OpcodeFlags = 1 << iota
	// HasBranch marks an opcode whose immediate is a forward branch target.
	HasBranch
	// HasBinding marks an opcode that participates in name resolution —
	// either as a binder or as a reference awaiting one. Always required
	// alongside HasVariable or IsCallPseudo; never the sole flag on an
	// opcode that actually resolves.
	HasBinding
	// HasVariable marks an opcode bound to a local-variable frame slot
	// (as opposed to a call-pseudo binding).
	HasVariable
	// IsCallPseudo marks an opcode in the call namespace. CLOSURE_CREATE,
	// CLOSURE_CREATE_C, CLOSURE_PARAM and CLOSURE_REF are placeholders that
	// may only appear inside a call's arglist or as a formal-parameter/closure
	// binder and are never emitted as standalone bytecode (descriptor Length
	// 0); CALL_JQ, the call site that references them, carries the flag too
	// and is emitted.
	IsCallPseudo
)

// OpcodeDescriptor gives an opcode's mnemonic, its base encoded length in
// 16-bit words (including the opcode word itself), and its flag bitmask.
// CALL_JQ's descriptor length is its fixed prefix only (op, nargs, nesting
// level, binder index); the 2-word-per-argument growth is computed
// separately during layout, since it depends on the call's actual arglist.
type OpcodeDescriptor struct {
	Name   string
	Length int
	Flags  OpcodeFlags
}

// OpcodeDescriptors is the external opcode descriptor table: for every
// opcode, its name, encoded length, and flag bitmask.
var OpcodeDescriptors = map[Opcode]OpcodeDescriptor{
	DUP:              {"DUP", 1, 0},
	POP:              {"POP", 1, 0},
	BACKTRACK:        {"BACKTRACK", 1, 0},
	FORK:             {"FORK", 2, HasBranch},
	FORK_OPT:         {"FORK_OPT", 2, HasBranch},
	JUMP:             {"JUMP", 2, HasBranch},
	JUMP_F:           {"JUMP_F", 2, HasBranch},
	SUBEXP_BEGIN:     {"SUBEXP_BEGIN", 1, 0},
	SUBEXP_END:       {"SUBEXP_END", 1, 0},
	LOADK:            {"LOADK", 2, HasConstant},
	STOREV:           {"STOREV", 3, HasBinding | HasVariable},
	LOADV:            {"LOADV", 3, HasBinding | HasVariable},
	LOADVN:           {"LOADVN", 3, HasBinding | HasVariable},
	APPEND:           {"APPEND", 3, HasBinding | HasVariable},
	CALL_JQ:          {"CALL_JQ", 4, HasBinding | IsCallPseudo},
	CALL_BUILTIN:     {"CALL_BUILTIN", 3, 0},
	RET:              {"RET", 1, 0},
	TOP:              {"TOP", 1, 0},
	DEPS:             {"DEPS", 2, HasConstant},
	CLOSURE_CREATE:   {"CLOSURE_CREATE", 0, HasBinding | IsCallPseudo},
	CLOSURE_CREATE_C: {"CLOSURE_CREATE_C", 0, HasBinding | IsCallPseudo},
	CLOSURE_PARAM:    {"CLOSURE_PARAM", 0, HasBinding | IsCallPseudo},
	CLOSURE_REF:      {"CLOSURE_REF", 0, HasBinding | IsCallPseudo},
}

// Describe is a convenience accessor over OpcodeDescriptors.
func Describe(op Opcode) OpcodeDescriptor {
	d, ok := OpcodeDescriptors[op]
	if !ok {
		panic("ir: no opcode descriptor for " + op.String())
	}
	return d
}
