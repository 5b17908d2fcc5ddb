package generator

import (
	"context"
	"errors"
)

// GenerateRequest carries everything one generation attempt needs. APIKey is
// optional; an empty value leaves the backend on its ambient credentials.
type GenerateRequest struct {
	Prompt string
	Model  string
	APIKey string
}

// ArticleGenerator abstracts the article generation backend so it can be
// replaced or mocked. The default implementation talks to Gemini; an
// injected override takes precedence in the orchestration layer.
type ArticleGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// ErrBackendUnavailable signals that no generation backend is configured.
// Falling back to the placeholder article is the caller's decision, one
// layer up.
var ErrBackendUnavailable = errors.New("generation backend unavailable")

// ErrNoText signals that a backend responded but no text could be extracted
// from the response. The retry loop treats it like any other failure.
var ErrNoText = errors.New("could not extract text from generation response")
