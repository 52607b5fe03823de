package rag

import (
	"fmt"
	"strings"
)

// The prompt template is byte-stable: for a fixed (query, matches) input
// the assembled prompt never changes across calls or versions unless the
// template itself is deliberately changed.
const (
	promptInstructions = `You are a helpful personal assistant named Jarvis.
Use the provided context to answer the user's question accurately.
If the context doesn't contain relevant information, say "I don't have enough information to answer that."
Do not make up information.`

	// emptyContextNotice tells the model explicitly that retrieval found
	// nothing, instead of presenting an empty section it might ignore.
	emptyContextNotice = "(no relevant documents were found)"
)

// BuildPrompt assembles the grounded prompt for a query and its retrieved
// matches. Matches are numbered in the order received from the index
// (similarity-descending). The source parenthetical is omitted entirely
// when a match has no source label.
func BuildPrompt(query string, matches []Match) string {
	var b strings.Builder

	b.WriteString(promptInstructions)
	b.WriteString("\n\n---\nCONTEXT:\n")

	if len(matches) == 0 {
		b.WriteString(emptyContextNotice)
	}
	for i, m := range matches {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[Document %d]", i+1)
		if m.Source != "" {
			fmt.Fprintf(&b, " (%s)", m.Source)
		}
		b.WriteString("\n")
		b.WriteString(m.Text)
	}

	b.WriteString("\n\n---\nUSER QUESTION:\n")
	b.WriteString(query)
	b.WriteString("\n\n---\nANSWER:\n")

	return b.String()
}
