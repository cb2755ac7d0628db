package ai

import (
	"context"
)

// AllergenSuggester proposes allergen tags for a dish based on its free-text
// title and description. Implementations must only return tags drawn from
// the vocabulary they are given; anything else is discarded by callers.
//
// This interface allows swapping providers (Gemini, OpenAI, etc.) and makes
// the suggestion path trivially stubbable in tests.
type AllergenSuggester interface {
	// SuggestAllergens returns a subset of vocabulary likely present in the
	// described dish. An empty slice is a valid answer.
	SuggestAllergens(ctx context.Context, title, description string, vocabulary []string) ([]string, error)
}
