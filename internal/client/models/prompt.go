package models

import "time"

// Prompt is a prompt template shown by the dashboard, list and editor views.
type Prompt struct {
	ID          int64
	Title       string
	Description string
	Content     string
	ContentHash string
	Category    string
	Tags        []string
	ModelType   string
	Draft       bool
	UsageCount  int
	UpdatedAt   time.Time
}
