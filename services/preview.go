package services

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// RenderArticleHTML converts a markdown article to HTML for preview
// display.
func RenderArticleHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
