package docrag

import (
	"fmt"
	"strings"
)

// FormatContext renders search results as numbered document blocks in rank order.
// Each block is "\n\n===== Document i =====\n" followed by the chunk text,
// with blocks joined by a newline. Returns "" for no results.
func FormatContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("\n\n===== Document %d =====\n%s", i+1, r.Text))
	}
	return strings.Join(parts, "\n")
}

// BuildPrompt builds the generation prompt from retrieved context and the
// user's question. The question is included verbatim.
func BuildPrompt(context, question string) string {
	var sb strings.Builder
	sb.WriteString("\n---\n\n### Retrieved Documentation:\n")
	sb.WriteString(context)
	sb.WriteString("\n\nAnalyse the retrieved docs, and then take the user's question, retrieved documents and suggest an answer based on the context provided. ")
	sb.WriteString("You can use your understanding of the retrieved documents to build on top and answer the user's question.\n\n")
	sb.WriteString("Respond in clear **Markdown**. Use code blocks where relevant. Make sure the code is syntactically accurate and the content very relevant.\n\n")
	sb.WriteString("---\n\n### User Question:\n")
	sb.WriteString(question)
	sb.WriteString("\n")
	return sb.String()
}
