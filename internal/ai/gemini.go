package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiSuggester implements AllergenSuggester using Google's Gemini models.
type GeminiSuggester struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiSuggester initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiSuggester(ctx context.Context, apiKey string) (*GeminiSuggester, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Flash keeps latency and cost low for what is a single-field extraction.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.1)

	return &GeminiSuggester{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiSuggester) Close() {
	p.client.Close()
}

// SuggestAllergens asks the model which of the vocabulary entries the dish
// likely contains. The result is filtered against the vocabulary so a
// hallucinated tag can never reach the caller.
func (p *GeminiSuggester) SuggestAllergens(ctx context.Context, title, description string, vocabulary []string) ([]string, error) {
	prompt := fmt.Sprintf(`You label food allergens for a meal-donation platform.
Allowed allergen tags (return only these, verbatim): %s

Dish name: %s
Dish description: %s

Respond with JSON of the form {"allergens": ["..."]} listing the tags that
are likely present in the dish. If none apply, return {"allergens": []}.`,
		strings.Join(vocabulary, ", "), title, description)

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	var result suggestionResult
	if err := json.Unmarshal([]byte(cleanJSONString(responseText.String())), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	allowed := make(map[string]bool, len(vocabulary))
	for _, v := range vocabulary {
		allowed[v] = true
	}
	out := make([]string, 0, len(result.Allergens))
	for _, tag := range result.Allergens {
		if allowed[tag] {
			out = append(out, tag)
		}
	}
	return out, nil
}

// cleanJSONString strips markdown code fences the model occasionally wraps
// around the JSON body despite the response MIME type.
func cleanJSONString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
