package errors

import (
	"strings"
	"testing"

	"github.com/jensen-yan/compiler/pkg/script/token"
)

func TestError_Error(t *testing.T) {
	err := &Error{
		Kind:       KindSemantic,
		Message:    "undefined identifier 'cout'",
		Location:   Location{File: "main.sc", Line: 3, Column: 5},
		Context:    "-> 3 | x = cout;\n",
		Suggestion: "Did you mean 'count'?",
	}

	got := err.Error()
	for _, want := range []string{
		"[semantic] undefined identifier 'cout'",
		"  --> main.sc:3:5",
		"-> 3 | x = cout;",
		"  = suggestion: Did you mean 'count'?",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Error() missing %q in:\n%s", want, got)
		}
	}

	bare := &Error{Kind: KindIO, Message: "read failed"}
	if got := bare.Error(); got != "[io] read failed\n" {
		t.Errorf("Error() = %q", got)
	}
}

func TestError_Short(t *testing.T) {
	err := &Error{Message: "boom", Location: At("a.sc", token.Pos{Line: 2, Column: 4})}
	if got := err.Short(); got != "a.sc:2:4: boom" {
		t.Errorf("Short() = %q", got)
	}
	if got := (&Error{Message: "boom"}).Short(); got != "boom" {
		t.Errorf("Short() without location = %q", got)
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		loc   Location
		want  string
		valid bool
	}{
		{Location{File: "a.sc", Line: 1, Column: 2}, "a.sc:1:2", true},
		{Location{Line: 4, Column: 1}, "4:1", true},
		{Location{}, "0:0", false},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.loc.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestErrorList(t *testing.T) {
	el := NewErrorList()
	if el.HasErrors() || el.ToError() != nil || el.Error() != "" {
		t.Fatal("new list should be empty")
	}

	el.AddError(KindSyntax, "expected ';'", Location{Line: 1, Column: 5})
	el.AddError(KindSemantic, "undefined identifier 'x'", Location{Line: 2, Column: 1})
	el.AddErrorWithSuggestion(KindSemantic, "undefined identifier 'prnt'", Location{Line: 3, Column: 1}, "Did you mean 'print'?")

	if el.Count() != 3 {
		t.Errorf("Count() = %d, want 3", el.Count())
	}
	if el.ToError() == nil {
		t.Error("ToError() should be non-nil")
	}
	if got := len(el.ByKind(KindSemantic)); got != 2 {
		t.Errorf("ByKind(semantic) = %d, want 2", got)
	}
	if !el.HasKind(KindSyntax) || el.HasKind(KindLex) {
		t.Error("HasKind mismatch")
	}
	counts := el.CountByKind()
	if counts[KindSyntax] != 1 || counts[KindSemantic] != 2 {
		t.Errorf("CountByKind() = %v", counts)
	}

	msg := el.Error()
	if !strings.HasPrefix(msg, "Found 3 error(s):") {
		t.Errorf("Error() should start with the count, got:\n%s", msg)
	}
	if !strings.Contains(msg, "Error 3:") || !strings.Contains(msg, "Did you mean 'print'?") {
		t.Errorf("Error() missing entries:\n%s", msg)
	}
}

func TestExtractContext(t *testing.T) {
	source := "a = 1;\nb = 2;\nx = cout + 1;\nc = 3;\nd = 4;"

	got := ExtractContext(source, Location{Line: 3, Column: 5}, 1)
	want := "   2 | b = 2;\n" +
		"-> 3 | x = cout + 1;\n" +
		"    |     ^\n" +
		"   4 | c = 3;\n"
	if got != want {
		t.Errorf("ExtractContext() =\n%q\nwant\n%q", got, want)
	}

	tests := []struct {
		name string
		loc  Location
	}{
		{"invalid location", Location{}},
		{"line past end", Location{Line: 10, Column: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractContext(source, tt.loc, 2); got != "" {
				t.Errorf("ExtractContext() = %q, want empty", got)
			}
		})
	}
}

func TestExtractContext_ClampsAndAlignsTabs(t *testing.T) {
	got := ExtractContext("\tx = y;", Location{Line: 1, Column: 6}, 3)
	want := "-> 1 | \tx = y;\n" +
		"    | \t    ^\n"
	if got != want {
		t.Errorf("ExtractContext() =\n%q\nwant\n%q", got, want)
	}
}

func TestErrorList_AddContext(t *testing.T) {
	el := NewErrorList()
	el.AddError(KindSemantic, "bad", Location{Line: 1, Column: 1})
	el.AddError(KindIO, "no location", Location{})
	el.AddContext("oops;", 0)

	if el.Errors[0].Context != "-> 1 | oops;\n    | ^\n" {
		t.Errorf("Context = %q", el.Errors[0].Context)
	}
	if el.Errors[1].Context != "" {
		t.Errorf("Context without location = %q, want empty", el.Errors[1].Context)
	}
}

func TestSuggestName(t *testing.T) {
	candidates := []string{"count", "print", "total", "x"}

	tests := []struct {
		unknown string
		want    string
	}{
		{"cout", "Did you mean 'count'?"},
		{"prnt", "Did you mean 'print'?"},
		{"totla", "Did you mean 'total'?"},
		{"y", ""},
		{"zzzzzz", ""},
		{"count", ""},
	}
	for _, tt := range tests {
		t.Run(tt.unknown, func(t *testing.T) {
			if got := SuggestName(tt.unknown, candidates); got != tt.want {
				t.Errorf("SuggestName(%q) = %q, want %q", tt.unknown, got, tt.want)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"变量", "变数", 1},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
