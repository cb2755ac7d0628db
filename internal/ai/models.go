package ai

// suggestionResult captures the structured output from the model.
type suggestionResult struct {
	// Allergens are the tags the model believes are present in the dish.
	// Only entries matching the supplied vocabulary are kept.
	Allergens []string `json:"allergens"`
}
