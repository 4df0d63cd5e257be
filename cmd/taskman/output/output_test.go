package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"taskman/internal/application/dto"
)

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":     FormatText,
		"text": FormatText,
		"json": FormatJSON,
		"yml":  FormatYAML,
		"ids":  FormatIDs,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("xml should be rejected")
	}
}

func TestFormatterIDs(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatIDs, &buf)

	tasks := []dto.TaskDTO{{ID: "a"}, {ID: "b"}}
	if err := f.Print(tasks); err != nil {
		t.Fatal(err)
	}
	if err := f.Print(dto.TaskDTO{ID: "c"}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "a\nb\nc\n" {
		t.Errorf("output = %q", got)
	}
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(FormatJSON, &buf)
	if err := f.Print(dto.TaskDTO{ID: "a", Title: "Buy milk"}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"id": "a"`, `"title": "Buy milk"`, `"is_complete": false`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("json missing %s:\n%s", want, buf.String())
		}
	}
	if !f.Structured() || NewFormatter(FormatText, &buf).Structured() {
		t.Error("Structured() mismatch")
	}
}

func TestPrinterTableAlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, nil)
	p.Table([]string{"TITLE", "POS"}, [][]string{{"日本", "1"}, {"abcd", "2"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}
	col := func(line, cell string) int {
		return ansi.StringWidth(line[:strings.Index(line, cell)])
	}
	if col(lines[2], "1") != col(lines[3], "2") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestPrinterConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := NewPrinter(&out, strings.NewReader(tt.input))
		got, err := p.Confirm("Delete %q?", "x")
		if err != nil {
			t.Fatalf("Confirm(%q) error = %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v", tt.input, got)
		}
		if !strings.Contains(out.String(), "[y/N]") {
			t.Errorf("prompt = %q", out.String())
		}
	}

	if _, err := NewPrinter(&bytes.Buffer{}, nil).Confirm("?"); !errors.Is(err, ErrNoInput) {
		t.Errorf("Confirm without input error = %v", err)
	}
}
