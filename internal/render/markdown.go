// Package render converts email draft text into terminal or HTML output.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// markdown is the shared goldmark instance used for draft previews. Drafts
// come back from the backend as markdown-ish plain text, so soft line
// breaks are rendered as hard breaks to preserve paragraph spacing.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// DraftHTML renders an email draft to an HTML fragment suitable for
// previewing in a browser.
func DraftHTML(draft string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(draft), &buf); err != nil {
		return "", fmt.Errorf("render draft: %w", err)
	}

	return buf.String(), nil
}

// DraftPage wraps a rendered draft in a minimal standalone HTML document.
func DraftPage(subjectLine, draft string) (string, error) {
	body, err := DraftHTML(draft)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 42em; margin: 2em auto; }
</style>
</head>
<body>
%s</body>
</html>
`, subjectLine, body)

	return buf.String(), nil
}
