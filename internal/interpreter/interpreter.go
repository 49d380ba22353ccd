// Package interpreter defines the interfaces for understanding a support
// message and phrasing the reply.
//
// Supportdesk ships with two backends, chosen once at startup: Local
// (keyword matching and fixed templates) and OpenAI (a chat model).
package interpreter

import (
	"context"

	"github.com/nadzzz/supportdesk/internal/intent"
)

// Classification is the outcome of classifying a message.
type Classification struct {
	Intent intent.Intent

	// RequiresHuman is true exactly when Intent is HumanEscalation.
	RequiresHuman bool

	// Explanation notes which strategy produced the result.
	Explanation string
}

// NewClassification builds a Classification whose RequiresHuman flag is
// derived from the intent.
func NewClassification(i intent.Intent, explanation string) *Classification {
	return &Classification{
		Intent:        i,
		RequiresHuman: i == intent.HumanEscalation,
		Explanation:   explanation,
	}
}

// ComposeInput carries everything the composer may mention in a reply.
type ComposeInput struct {
	UserMessage     string
	Intent          intent.Intent
	RequiresHuman   bool
	TaskExecuted    bool
	ExecutionOutput string
}

// Classifier maps a free-text message to an intent.
type Classifier interface {
	// Name returns the backend identifier (e.g., "local", "openai").
	Name() string

	// Classify never returns an intent outside the closed set.
	Classify(ctx context.Context, message string) (*Classification, error)
}

// Composer turns a decision into a natural-language reply.
type Composer interface {
	// Name returns the backend identifier (e.g., "local", "openai").
	Name() string

	// Compose returns a non-empty reply for a well-formed upstream answer.
	Compose(ctx context.Context, in ComposeInput) (string, error)
}
