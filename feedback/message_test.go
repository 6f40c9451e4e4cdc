package feedback

import (
	"strings"
	"testing"

	"github.com/quill-lang/quillc/source"
)

func TestErrorMakeRendersClassificationAndDescription(t *testing.T) {
	err := Error{
		Classification: UnresolvedSymbolError,
		What: Selection{
			Description: "foo/2 is not defined",
			File:        source.NewLocFile("prog.jq"),
			Span:        source.Span{Start: source.Pos{Line: 3, Col: 5}},
		},
	}
	out := err.Make(false)
	if !strings.Contains(out, UnresolvedSymbolError) {
		t.Error("rendered message should name the classification")
	}
	if !strings.Contains(out, "prog.jq:3:5") {
		t.Error("rendered message should name the file and position")
	}
	if !strings.Contains(out, "foo/2 is not defined") {
		t.Error("rendered message should carry the description")
	}
}

func TestErrorMakeWithNilFileUsesPlaceholder(t *testing.T) {
	err := Error{Classification: InternalError, What: Selection{Description: "boom"}}
	out := err.Make(false)
	if !strings.Contains(out, "<unknown>") {
		t.Error("a Selection with no File should render a placeholder filename")
	}
}

func TestWarningMakeUsesWarningHeader(t *testing.T) {
	w := Warning{Classification: LintWarning, What: Selection{Description: "unused"}}
	out := w.Make(false)
	if !strings.Contains(out, "warning:") {
		t.Error("Warning.Make should render a warning: header, not an error: header")
	}
}
