package extract

import (
	"sync"

	"fakturatools/pkg/models"
)

// UsageTracker accumulates token usage across all model calls made
// while generating a single invoice. Safe for concurrent use.
type UsageTracker struct {
	mu         sync.Mutex
	prompt     int
	completion int
}

// NewUsageTracker returns a zeroed tracker.
func NewUsageTracker() *UsageTracker {
	return &UsageTracker{}
}

// Add records the token counts of one completed model call.
func (t *UsageTracker) Add(promptTokens, completionTokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prompt += promptTokens
	t.completion += completionTokens
}

// Snapshot returns the accumulated usage so far.
func (t *UsageTracker) Snapshot() models.TokenUsage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return models.TokenUsage{
		PromptTokens:     t.prompt,
		CompletionTokens: t.completion,
		TotalTokens:      t.prompt + t.completion,
	}
}

// Reset clears the accumulated counts.
func (t *UsageTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prompt = 0
	t.completion = 0
}
