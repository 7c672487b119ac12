package render

import (
	"strings"
	"testing"
)

func TestMarkdown(t *testing.T) {
	html, err := Markdown([]byte("# Title\n\nSome *emphasis* here."))
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<em>emphasis</em>") {
		t.Errorf("unexpected output: %s", html)
	}
}

func TestMarkdownStripsScripts(t *testing.T) {
	html, err := Markdown([]byte("hello\n\n<script>alert(1)</script>"))
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	if strings.Contains(html, "<script") {
		t.Errorf("script tag survived sanitization: %s", html)
	}
	if !strings.Contains(html, "hello") {
		t.Errorf("content lost: %s", html)
	}
}

func TestSanitizeHTML(t *testing.T) {
	out := SanitizeHTML(`<p onclick="evil()">ok</p><iframe src="x"></iframe>`)
	if strings.Contains(out, "onclick") || strings.Contains(out, "<iframe") {
		t.Errorf("dangerous markup survived: %s", out)
	}
	if !strings.Contains(out, "<p>ok</p>") {
		t.Errorf("safe markup lost: %s", out)
	}
}
