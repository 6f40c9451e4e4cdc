package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/quill-lang/quillc/examples"
)

const (
	historyFile = ".quillc_history"
	prompt      = "quillc> "
	banner      = "quillc REPL — Ctrl+D to exit. Type :help for commands."
	helpText    = `
REPL commands:
  :help           Show this help
  :quit / :exit   Exit the REPL
  :list           List the bundled example programs
  :ir <name>      Print the unbound IR graph for a bundled program
  :dis <name>     Compile a bundled program and print its disassembly
  run <name>      Same as :dis
`
)

// runREPL starts an interactive session over the bundled example programs.
// There's no parser in this module, so the REPL doesn't accept arbitrary
// filter text — every command names one of the programs examples.All()
// returns, the same way the CLI's "run"/"check" commands do.
func runREPL() {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			// Ctrl+D or Ctrl+C: exit
			fmt.Println()
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		ln.AppendHistory(line)

		if handleReplLine(line) {
			break
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
}

// handleReplLine executes one line of REPL input and reports whether the
// REPL should exit.
func handleReplLine(line string) (exit bool) {
	fields := strings.Fields(line)
	cmd := fields[0]

	switch cmd {
	case ":help":
		fmt.Print(helpText)

	case ":quit", ":exit":
		return true

	case ":list", "list":
		for _, p := range examples.All() {
			fmt.Printf("%-14s %s\n", p.Name, p.Filter.Contents)
		}

	case ":ir":
		if len(fields) < 2 {
			fmt.Println("usage: :ir <name>")
			return false
		}
		withProgram(fields[1], func(p examples.Program) {
			debugShowIR = true
			digestProgram(p, false)
			debugShowIR = false
		})

	case ":dis", "run":
		if len(fields) < 2 {
			fmt.Println("usage: " + cmd + " <name>")
			return false
		}
		withProgram(fields[1], func(p examples.Program) {
			debugShowDisassembly = true
			digestProgram(p, true)
			debugShowDisassembly = false
		})

	default:
		fmt.Printf("unknown command %q. Type :help for help.\n", cmd)
	}

	return false
}

func withProgram(name string, fn func(examples.Program)) {
	p, ok := findProgram(name)
	if !ok {
		fmt.Printf("no bundled program named %q\n", name)
		return
	}
	fn(p)
}
