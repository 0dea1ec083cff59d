package markdown

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	// Raw HTML passes through the renderer untouched; sanitization is
	// bluemonday's job. Letting goldmark drop the tags itself would leave
	// the inner text of a script element in the output.
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	// user-generated content policy: keeps formatting, drops scripts
	policy = bluemonday.UGCPolicy()
)

// Render converts markdown blog content into sanitized HTML.
func Render(content string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(content), &buf); err != nil {
		return "", err
	}
	return policy.Sanitize(buf.String()), nil
}
