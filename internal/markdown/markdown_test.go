package markdown

import (
	"strings"
	"testing"
)

func TestToHTMLBasics(t *testing.T) {
	got, err := ToHTML("## Heading\n\nSome *emphasis* and a [link](https://example.com).")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	for _, want := range []string{"<h2", "Heading", "<em>emphasis</em>", `href="https://example.com"`} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got %q", want, got)
		}
	}
}

func TestToHTMLEscapesRawHTML(t *testing.T) {
	got, err := ToHTML("hello <script>alert(1)</script>")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML passed through: %q", got)
	}
}

func TestToHTMLGFMTable(t *testing.T) {
	got, err := ToHTML("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("ToHTML: %v", err)
	}
	if !strings.Contains(got, "<table>") {
		t.Errorf("GFM table not rendered: %q", got)
	}
}
