package ir

// ImportOptions carries the optional attributes a program's import
// declaration may supply: the local alias to bind the module under, and an
// override search path for the linker to resolve it with.
type ImportOptions struct {
	As     *string
	Search *string
}

// Import is one entry of the ordered import list TakeImports returns to the
// linker: the module specifier plus its optional attributes.
type Import struct {
	Name   string
	As     *string
	Search *string
}

// GenImport returns a DEPS instruction recording an import declaration: name
// is the module specifier, as and search are optional attributes (nil when
// absent).
func GenImport(name string, as, search *string) Block {
	i := newInst(DEPS)
	i.Symbol = name
	i.Imm.Constant = ImportOptions{As: as, Search: search}
	return instBlock(i)
}

// TakeImports peels every DEPS instruction off the front of *body (after an
// optional leading TOP sentinel, which is preserved) and returns them as an
// ordered import list for the linker.
func TakeImports(body *Block) []Import {
	var imports []Import

	var top *Instruction
	if body.First != nil && body.First.Op == TOP {
		top = body.Take()
	}

	for body.First != nil && body.First.Op == DEPS {
		dep := body.Take()
		opts, _ := dep.Imm.Constant.(ImportOptions)
		imports = append(imports, Import{
			Name:   dep.Symbol,
			As:     opts.As,
			Search: opts.Search,
		})
	}

	if top != nil {
		*body = Join(instBlock(top), *body)
	}
	return imports
}
