package generator

import "context"

// mockArticle is the fixed fallback body used when no generation backend is
// reachable.
const mockArticle = `Introduction

Cloud-native technologies are transforming how enterprises design, deploy, and operate software...
(This is a placeholder article used when Gemini is not available.)`

// PlaceholderArticle synthesizes the fallback article for a prompt.
func PlaceholderArticle(prompt string) string {
	return "# Prompt\n" + prompt + "\n\n" + mockArticle
}

// MockGenerator returns the placeholder article without any network call.
// Useful for local runs and tests.
type MockGenerator struct{}

func (MockGenerator) Generate(_ context.Context, req GenerateRequest) (string, error) {
	return PlaceholderArticle(req.Prompt), nil
}
