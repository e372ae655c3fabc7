package domain

// StructuredRequest asks a completion model for a single JSON object.
// Schema is a Go value whose type describes the expected object; providers
// that support schema-constrained decoding derive a JSON schema from it.
type StructuredRequest struct {
	SystemPrompt string
	UserPrompt   string
	SchemaName   string
	Schema       any
}

// Completion is the raw text of a model response plus token usage.
type Completion struct {
	Content      string
	PromptTokens int
	TotalTokens  int
}
