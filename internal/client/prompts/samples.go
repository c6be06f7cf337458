package prompts

import (
	"time"

	"github.com/dmitrijs2005/promptmanager/internal/client/models"
)

// Samples returns the templates a fresh catalog starts with. Timestamps
// are relative to now.
func Samples(now time.Time) []models.Prompt {
	return []models.Prompt{
		{
			ID:          1,
			Title:       "Code review assistant",
			Description: "Reviews a diff and lists concrete issues",
			Category:    "engineering",
			Tags:        []string{"code", "review"},
			ModelType:   "gpt-4",
			UsageCount:  42,
			UpdatedAt:   now.Add(-2 * time.Hour),
			Content: "# Code review\n\nYou are a senior engineer. Review the diff below and list:\n\n" +
				"1. **Bugs** with the line they occur on\n2. Missing tests\n3. Naming problems\n\n```diff\n{{diff}}\n```",
		},
		{
			ID:          2,
			Title:       "Meeting summary",
			Description: "Turns a transcript into decisions and action items",
			Category:    "productivity",
			Tags:        []string{"meetings", "summary"},
			ModelType:   "claude",
			UsageCount:  17,
			UpdatedAt:   now.Add(-26 * time.Hour),
			Content: "Summarize the transcript into:\n\n- **Decisions**\n- **Action items** (owner, due date)\n" +
				"- Open questions\n\nTranscript:\n\n{{transcript}}",
		},
		{
			ID:          3,
			Title:       "Product description",
			Description: "Short marketing copy for a product page",
			Category:    "marketing",
			Tags:        []string{"copywriting"},
			ModelType:   "gpt-3.5-turbo",
			UsageCount:  8,
			UpdatedAt:   now.Add(-72 * time.Hour),
			Content:     "Write a 3 sentence description of **{{product}}** for {{audience}}. Keep it factual.",
		},
		{
			ID:          4,
			Title:       "SQL explainer",
			Description: "Explains a query step by step",
			Category:    "engineering",
			Tags:        []string{"sql", "learning"},
			ModelType:   "gpt-4",
			Draft:       true,
			UpdatedAt:   now.Add(-30 * time.Minute),
			Content:     "Explain what this query does, clause by clause, and point out slow parts:\n\n```sql\n{{query}}\n```",
		},
	}
}
