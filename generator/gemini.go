package generator

import (
	"context"
	"time"

	"google.golang.org/genai"
)

const DefaultMaxRetries = 2

// Backend is one raw call to a generation service. The response is opaque;
// text extraction is a separate step so that shape drift between model
// versions stays contained in ExtractText.
type Backend interface {
	GenerateContent(ctx context.Context, req GenerateRequest) (any, error)
}

// GeminiBackend calls Gemini through the official genai SDK. The client is
// built per call because the API key arrives per request and must not
// outlive the session that supplied it.
type GeminiBackend struct{}

func (GeminiBackend) GenerateContent(ctx context.Context, req GenerateRequest) (any, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: req.APIKey,
	})
	if err != nil {
		return nil, err
	}
	return client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), nil)
}

// Client is the retrying generation client. It makes up to maxRetries+1
// attempts with linear backoff (attempt * backoff) between them; linear
// rather than exponential because a single interactive user produces no
// meaningful request volume. Extraction absence counts as a failed attempt.
type Client struct {
	backend    Backend
	maxRetries int
	backoff    time.Duration
}

// NewClient builds a Client over the given backend. maxRetries <= 0 means
// DefaultMaxRetries; backoff <= 0 means one second.
func NewClient(backend Backend, maxRetries int, backoff time.Duration) *Client {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Client{
		backend:    backend,
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if c == nil || c.backend == nil {
		return "", ErrBackendUnavailable
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries+1; attempt++ {
		resp, err := c.backend.GenerateContent(ctx, req)
		if err == nil {
			if out, ok := ExtractText(resp); ok {
				return out, nil
			}
			err = ErrNoText
		}
		lastErr = err

		if attempt == c.maxRetries+1 {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
	return "", lastErr
}
