package docrag_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/docrag"
	"github.com/stretchr/testify/assert"
)

func TestFormatContext(t *testing.T) {
	t.Parallel()

	t.Run("returns empty string for no results", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, docrag.FormatContext(nil))
	})

	t.Run("numbers documents from one in rank order", func(t *testing.T) {
		t.Parallel()

		got := docrag.FormatContext([]docrag.SearchResult{
			{Text: "Install with pip.", Source: "a.html"},
			{Text: "Call x.run().", Source: "b.html"},
		})

		want := "\n\n===== Document 1 =====\nInstall with pip.\n\n\n===== Document 2 =====\nCall x.run()."
		assert.Equal(t, want, got)
	})
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	t.Run("contains context and verbatim question", func(t *testing.T) {
		t.Parallel()

		prompt := docrag.BuildPrompt("===== Document 1 =====\nHTMX is a library.", "What is *HTMX*?")

		assert.Contains(t, prompt, "### Retrieved Documentation:\n===== Document 1 =====\nHTMX is a library.")
		assert.Contains(t, prompt, "### User Question:\nWhat is *HTMX*?")
	})

	t.Run("asks for markdown with code blocks", func(t *testing.T) {
		t.Parallel()

		prompt := docrag.BuildPrompt("", "q")

		assert.Contains(t, prompt, "**Markdown**")
		assert.Contains(t, prompt, "code blocks")
	})

	t.Run("places context before question", func(t *testing.T) {
		t.Parallel()

		prompt := docrag.BuildPrompt("CONTEXT", "QUESTION")

		assert.Less(t, strings.Index(prompt, "CONTEXT"), strings.Index(prompt, "QUESTION"))
	})
}
