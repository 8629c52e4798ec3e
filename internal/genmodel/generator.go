// Package genmodel abstracts the generative-model provider behind a single call.
package genmodel

import "context"

// Generator produces raw model text for a prompt. Implementations must honor
// context cancellation; the orchestrator bounds each call with a deadline.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
