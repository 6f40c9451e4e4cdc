package main

import (
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/urfave/cli"

	"github.com/quill-lang/quillc/cfunc"
	"github.com/quill-lang/quillc/compile"
	"github.com/quill-lang/quillc/disasm"
	"github.com/quill-lang/quillc/examples"
	"github.com/quill-lang/quillc/ir"
)

var errorNoColor bool
var debugShowIR bool
var debugShowDisassembly bool
var debugShowRaw bool
var debugShowAll bool

// findProgram looks up a bundled example by name, the stand-in for reading
// and parsing a .jq file from disk (the parser is an external collaborator
// this module doesn't implement).
func findProgram(name string) (examples.Program, bool) {
	for _, p := range examples.All() {
		if p.Name == name {
			return p, true
		}
	}
	return examples.Program{}, false
}

func digestProgram(p examples.Program, shouldRun bool) {
	// If the `debug-ir` flag is set, output an ASCII header and an
	// s-expression-ish rendering of the program's unbound IR graph
	if debugShowAll || debugShowIR {
		fmt.Println("#######################")
		fmt.Println("##         IR        ##")
		fmt.Println("#######################")
		fmt.Println()
		fmt.Println(ir.Stringify(p.Build()))
		fmt.Println()
	}

	if !shouldRun {
		return
	}

	bc, imports, diagnostics := compile.Compile(p.Build(), cfunc.Builtins())

	for _, msg := range diagnostics {
		fmt.Println(msg.Make(!errorNoColor))
	}

	if bc == nil {
		return
	}

	if len(imports) > 0 {
		fmt.Println("#######################")
		fmt.Println("##      Imports      ##")
		fmt.Println("#######################")
		fmt.Println()
		for _, imp := range imports {
			fmt.Printf("%# v\n", pretty.Formatter(imp))
		}
		fmt.Println()
	}

	// If the `debug-disassembly` flag is set, output an ASCII header and a
	// disassembled representation of the compiled function tree
	if debugShowAll || debugShowDisassembly {
		fmt.Println("#######################")
		fmt.Println("##    Disassembly    ##")
		fmt.Println("#######################")
		fmt.Println()
		fmt.Println(disasm.Disassemble(bc))
	}

	// If the `debug-raw` flag is set, dump the Bytecode struct tree verbatim
	if debugShowAll || debugShowRaw {
		fmt.Println("#######################")
		fmt.Println("##    Raw Bytecode   ##")
		fmt.Println("#######################")
		fmt.Println()
		fmt.Printf("%# v\n", pretty.Formatter(bc))
		fmt.Println()
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "quillc"
	app.Usage = "a toy filter-language compiler"

	noColorFlag := cli.BoolFlag{
		Name:        "no-color",
		Usage:       "hide colors in error and warning messages",
		Destination: &errorNoColor,
	}

	debugIRFlag := cli.BoolFlag{
		Name:        "debug-ir",
		Usage:       "show the unbound IR graph before compilation",
		Destination: &debugShowIR,
	}

	debugDisFlag := cli.BoolFlag{
		Name:        "debug-disassembly",
		Usage:       "show the disassembled bytecode emitted by the compiler",
		Destination: &debugShowDisassembly,
	}

	debugRawFlag := cli.BoolFlag{
		Name:        "debug-raw",
		Usage:       "dump the compiled Bytecode struct tree",
		Destination: &debugShowRaw,
	}

	debugAllFlag := cli.BoolFlag{
		Name:        "debug",
		Usage:       "alias for --debug-ir --debug-disassembly --debug-raw",
		Destination: &debugShowAll,
	}

	app.Commands = []cli.Command{
		{
			Name:    "list",
			Aliases: []string{"l"},
			Usage:   "List the bundled example programs",
			Action: func(c *cli.Context) error {
				for _, p := range examples.All() {
					fmt.Printf("%-14s %s\n", p.Name, p.Filter.Contents)
				}
				return nil
			},
		},
		{
			Name:    "run",
			Aliases: []string{"r"},
			Usage:   "Compile named bundled program(s) and print diagnostics and imports (disassembly with --debug-disassembly)",
			Flags: []cli.Flag{
				noColorFlag,
				debugIRFlag,
				debugDisFlag,
				debugRawFlag,
				debugAllFlag,
			},
			Action: func(c *cli.Context) error {
				names := c.Args()
				if len(names) == 0 {
					return cli.NewExitError("usage: quillc run <name>...", 1)
				}

				for _, name := range names {
					p, ok := findProgram(name)
					if !ok {
						fmt.Printf("no bundled program named %q\n", name)
						continue
					}

					fmt.Printf("# %s: %s\n", p.Name, p.Filter.Contents)
					digestProgram(p, true)
				}

				return nil
			},
		},
		{
			Name:    "check",
			Aliases: []string{"c"},
			Usage:   "Compile named bundled program(s) without printing disassembly or import listings",
			Flags: []cli.Flag{
				noColorFlag,
				debugIRFlag,
			},
			Action: func(c *cli.Context) error {
				names := c.Args()
				if len(names) == 0 {
					return cli.NewExitError("usage: quillc check <name>...", 1)
				}

				for _, name := range names {
					p, ok := findProgram(name)
					if !ok {
						fmt.Printf("no bundled program named %q\n", name)
						continue
					}

					fmt.Printf("# %s: %s\n", p.Name, p.Filter.Contents)

					_, _, diagnostics := compile.Compile(p.Build(), cfunc.Builtins())
					for _, msg := range diagnostics {
						fmt.Println(msg.Make(!errorNoColor))
					}

					if debugShowIR {
						fmt.Println(ir.Stringify(p.Build()))
					}
				}

				return nil
			},
		},
		{
			Name:  "repl",
			Usage: "Start an interactive session over the bundled programs",
			Flags: []cli.Flag{
				noColorFlag,
				debugIRFlag,
				debugDisFlag,
				debugRawFlag,
			},
			Action: func(c *cli.Context) error {
				runREPL()
				return nil
			},
		},
	}

	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return nil
	}

	app.Run(os.Args)
}
