// Package cfunc describes native functions the compiler can bind call sites
// against. The actual value representation and evaluation semantics belong
// to the interpreter, which is out of scope here; this package carries only
// the descriptor shape the compiler core needs to resolve arity and emit
// CALL_BUILTIN instructions against a stable index.
package cfunc

// Native is a native function descriptor: a name, an argument count that
// includes the implicit input value, and an implementation. NArgs == 1 means
// a builtin that takes no explicit arguments beyond the value it's applied
// to.
//
// Impl is never invoked by the compiler; it is carried here only so the
// table is a real, type-checked value rather than a name/arity pair with no
// backing function, matching the external interface's "native function
// descriptor" shape. The signature is a minimal stand-in for the opaque
// runtime value (jv is out of scope): the input value and the evaluated
// argument closures in, one result value or an error out.
type Native struct {
	Name string
	NArgs int
	Impl func(input interface{}, args []interface{}) (interface{}, error)
}

// Table is an ordered list of native function descriptors. Code emission
// copies each native a program binds into Globals.CFunctions and indexes it
// by its position there, not by its position in the Table.
type Table []Native

// Lookup returns the descriptor for name, or false if no such native
// function is registered.
func (t Table) Lookup(name string) (Native, bool) {
	for _, n := range t {
		if n.Name == name {
			return n, true
		}
	}
	return Native{}, false
}
