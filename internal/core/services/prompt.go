package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/research-assistant/internal/core/domain"
	"github.com/custodia-labs/research-assistant/internal/core/ports/driven"
)

// passageSeparator separates passages in the context block.
const passageSeparator = "\n\n---\n\n"

const systemPromptTemplate = `You are a research assistant.

User intent:
- The user asked: "%s"
- Respond using %s.
- The response should be %s.

Rules:
- Use the provided context as factual grounding.
- You may rephrase, summarize, and synthesize.
- Do NOT invent citations, equations, or claims not supported by context.
- If context is insufficient, say so clearly.

Tone:
- Clear
- Academic
- Neutral`

// ComposePrompt builds the two-turn prompt for a query and its retrieved
// passages: a system instruction carrying the inferred style and the
// grounding rules, then a user turn with the labelled context and the
// literal question.
func ComposePrompt(query string, passages []domain.Passage) []driven.ChatMessage {
	style := domain.InferStyle(query)

	return []driven.ChatMessage{
		{
			Role:    driven.RoleSystem,
			Content: fmt.Sprintf(systemPromptTemplate, query, style.Format, style.Length),
		},
		{
			Role:    driven.RoleUser,
			Content: fmt.Sprintf("Context:\n%s\n\nUser Question: %s\n\nAnswer:", FormatContext(passages), query),
		},
	}
}

// FormatContext labels each passage "Source N (page P)" and joins them.
// A passage without a page number is labelled "page unknown".
func FormatContext(passages []domain.Passage) string {
	parts := make([]string, len(passages))
	for i, p := range passages {
		page := "unknown"
		if p.Metadata.PageNumber != nil {
			page = strconv.Itoa(*p.Metadata.PageNumber)
		}
		parts[i] = fmt.Sprintf("Source %d (page %s):\n%s", i+1, page, p.PageContent)
	}
	return strings.Join(parts, passageSeparator)
}
