package llm

import "context"

// Generator turns a system instruction plus a user prompt into free text.
// Callers are expected to pull structured data out of the text themselves.
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
	ModelName() string
}
