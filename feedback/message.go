package feedback

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/quill-lang/quillc/source"
)

const (
	warningColors = iota
	errorColors
)

// Message is the interface for all Warnings and Errors that can be emitted
// by the compiler.
type Message interface {
	Make(withColor bool) string
}

// Selection names the span an error or warning is about, plus a one-line
// description of why. Unlike a parser or linter, the compiler core never
// holds the underlying source text (locfile is an opaque, content-free
// handle per spec) so a Selection can only ever render a location gutter,
// never a source code snippet.
type Selection struct {
	Description string
	File         *source.LocFile
	Span         source.Span
}

// Warning classification constants. The compiler core does not currently
// emit warnings (it either binds successfully or reports an error), but the
// Warning type is kept so callers embedding this compiler alongside a
// parser/linter have somewhere to report their own diagnostics in the same
// rendered style.
const (
	LintWarning string = "lint warning"
)

// Warning messages are emitted by the pipeline to highlight issues which might
// need to be addressed by the source code author
type Warning struct {
	Classification string
	What           Selection
}

// Make takes a Warning and produces a fully rendered message with the option of
// using colors to make elements of the message more clear. The rendered message
// is returned as a single string and can be then output to stdout or some other
// destination
func (w Warning) Make(withColor bool) string {
	color.NoColor = !withColor
	return makeMessage(w.Classification, w.What, warningColors)
}

// Error classification constants, matching the two taxonomies the compiler
// reports per spec: a reference that never resolved to a binder, and an
// internal invariant violated during compilation.
const (
	UnresolvedSymbolError string = "unresolved symbol"
	InternalError         string = "internal compiler error"
)

// Error messages are more serious than warnings and typically cause the
// pipeline to be stopped. This includes an unresolved symbol or an internal
// compiler assertion failure.
type Error struct {
	Classification string
	What           Selection
}

// Make takes an Error and produces a fully rendered message with the option of
// using colors to make elements of the message more clear. The rendered message
// is returned as a single string and can be then output to stdout or some other
// destination
func (e Error) Make(withColor bool) string {
	color.NoColor = !withColor
	return makeMessage(e.Classification, e.What, errorColors)
}

// makeMessage renders a classification and a located description as:
//
//	error: unresolved symbol
//	 --> <filename>:<line>:<col>
//	 |
//	 = foo/2 is not defined
func makeMessage(classification string, what Selection, colorScheme int) string {
	yellowBold := color.New(color.FgYellow, color.Bold).SprintFunc()
	redBold := color.New(color.FgRed, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	header := "error:"
	headerLine := redBold(fmt.Sprintf("%s %s", header, classification))
	focusColor := red

	if colorScheme == warningColors {
		header = "warning:"
		headerLine = yellowBold(fmt.Sprintf("%s %s", header, classification))
		focusColor = yellow
	}

	filename := "<unknown>"
	if what.File != nil {
		filename = what.File.Filename
	}

	lines := []string{
		headerLine,
		fmt.Sprintf(" %s %s:%d:%d", blue("-->"), filename, what.Span.Start.Line, what.Span.Start.Col),
		fmt.Sprintf(" %s", blue("|")),
		fmt.Sprintf(" %s %s", blue("="), focusColor(what.Description)),
	}

	return joinLines(lines)
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}
