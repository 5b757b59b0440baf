package webui

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
)

// renderAbout converts the embedded Markdown help text to HTML once at
// startup. The source is repository content, not user input, so the result
// is trusted markup.
func renderAbout() (template.HTML, error) {
	src, err := embedded.ReadFile("content/about.md")
	if err != nil {
		return "", fmt.Errorf("read about content: %w", err)
	}
	var buf bytes.Buffer
	if err := goldmark.New().Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render about content: %w", err)
	}
	return template.HTML(buf.String()), nil
}
