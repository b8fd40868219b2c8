package cli

import (
	"bytes"
	"encoding/json"
	"testing"
)

type stringer struct{ name string }

func (s stringer) String() string { return "unit " + s.name }

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"csv", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name string
		data any
		want string
	}{
		{"string", "ok", "ok\n"},
		{"trailing newline kept once", "ok\n", "ok\n"},
		{"stringer", stringer{"main.sc"}, "unit main.sc\n"},
		{"number", 42, "42\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &TextFormatter{}
			out, err := f.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if string(out) != tt.want {
				t.Errorf("Format() = %q, want %q", out, tt.want)
			}

			var buf bytes.Buffer
			if err := f.FormatTo(&buf, tt.data); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("FormatTo() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	data := map[string]any{"file": "main.sc", "ok": false}

	tests := []struct {
		name   string
		indent bool
	}{
		{"compact", false},
		{"indented", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &JSONFormatter{Indent: tt.indent}
			out, err := f.Format(data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			if got := bytes.Contains(out, []byte("\n  ")); got != tt.indent {
				t.Errorf("indentation present = %v, want %v", got, tt.indent)
			}

			var buf bytes.Buffer
			if err := f.FormatTo(&buf, data); err != nil {
				t.Fatalf("FormatTo() error = %v", err)
			}
			var decoded map[string]any
			if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			if decoded["file"] != "main.sc" || decoded["ok"] != false {
				t.Errorf("decoded = %v", decoded)
			}
		})
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("NewFormatter(json) is not a JSONFormatter")
	}
	if _, ok := NewFormatter(FormatText).(*TextFormatter); !ok {
		t.Error("NewFormatter(text) is not a TextFormatter")
	}
	if _, ok := NewFormatter("yaml").(*TextFormatter); !ok {
		t.Error("NewFormatter(unknown) should fall back to text")
	}
}
