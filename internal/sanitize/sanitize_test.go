package sanitize

import (
	"strings"
	"testing"
)

func TestCleanKeepsAllowedMarkup(t *testing.T) {
	in := `<h2 id="intro">Intro</h2><p class="lead">Hello <strong>world</strong></p><ul><li>one</li></ul>`
	got := Clean(in)

	for _, want := range []string{"<h2", `id="intro"`, "<p", `class="lead"`, "<strong>", "<li>one</li>"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q to survive, got %q", want, got)
		}
	}
}

func TestCleanStripsScripts(t *testing.T) {
	in := `<p>ok</p><script>alert("xss")</script><img src="x" onerror="alert(1)">`
	got := Clean(in)

	if strings.Contains(got, "<script") || strings.Contains(got, "onerror") {
		t.Errorf("dangerous markup survived: %q", got)
	}
	if !strings.Contains(got, "<p>ok</p>") {
		t.Errorf("allowed markup was lost: %q", got)
	}
}

func TestCleanLinkProtocols(t *testing.T) {
	in := `<a href="https://example.com">ok</a><a href="javascript:alert(1)">bad</a>`
	got := Clean(in)

	if !strings.Contains(got, `href="https://example.com"`) {
		t.Errorf("https link stripped: %q", got)
	}
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript: href survived: %q", got)
	}
}

func TestCleanImageSources(t *testing.T) {
	cases := []struct {
		src  string
		keep bool
	}{
		{"/static/images/photo.png", true},
		{"https://cdn.example.com/a.jpg", true},
		{"http://insecure.example.com/a.jpg", false},
		{"ftp://example.com/a.jpg", false},
	}
	for _, tc := range cases {
		got := Clean(`<img src="` + tc.src + `" alt="x">`)
		has := strings.Contains(got, tc.src)
		if has != tc.keep {
			t.Errorf("src %q: kept=%v, want %v (output %q)", tc.src, has, tc.keep, got)
		}
	}
}

func TestCleanIdempotent(t *testing.T) {
	inputs := []string{
		`<p>plain</p>`,
		`<details open><summary>More</summary><p>body</p></details>`,
		`<p>text <a href="https://a.example">link</a> <em>em</em></p>`,
		`<pre><code>x &lt; y</code></pre>`,
	}
	for _, in := range inputs {
		once := Clean(in)
		twice := Clean(once)
		if once != twice {
			t.Errorf("not idempotent for %q:\n once: %q\ntwice: %q", in, once, twice)
		}
	}
}
