package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderBasicMarkdown(t *testing.T) {
	html, err := Render("# Title\n\nSome *emphasis* here.")
	assert.NoError(t, err)
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<em>emphasis</em>")
}

func TestRenderStripsScripts(t *testing.T) {
	html, err := Render("hello <script>alert(1)</script> world")
	assert.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "alert(1)")
	assert.Contains(t, html, "hello")

	// HTML blocks are dropped with their contents too, not just inline tags.
	html, err = Render("<script>\nalert(2)\n</script>\n\nafter")
	assert.NoError(t, err)
	assert.NotContains(t, html, "alert(2)")
	assert.Contains(t, html, "after")
}

func TestRenderKeepsSafeInlineHTML(t *testing.T) {
	html, err := Render("a <em>b</em> c")
	assert.NoError(t, err)
	assert.Contains(t, html, "<em>b</em>")
}

func TestRenderGFMTable(t *testing.T) {
	html, err := Render("| a | b |\n|---|---|\n| 1 | 2 |")
	assert.NoError(t, err)
	assert.Contains(t, html, "<table>")
}
