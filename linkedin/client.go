package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"linkedin-poster/httpclient"
)

const DefaultAPIBase = "https://api.linkedin.com/v2"

const (
	defaultResolveTimeout = 10 * time.Second
	defaultPublishTimeout = 15 * time.Second

	restliProtocolVersion = "2.0.0"
)

// ErrNoOrganization signals a successful role-assignment lookup that yielded
// no organization. Kept distinct from transport errors so the caller can
// tell "token has no org" from "the lookup itself failed".
var ErrNoOrganization = errors.New("no organization found for token")

// HTTPError is a non-2xx platform response with its body attached for
// diagnostics.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("linkedin: unexpected status %d: %s", e.Status, e.Body)
}

// Client is a thin client for the LinkedIn content API. It knows nothing
// about sessions or articles; callers pass the bearer token per call.
type Client struct {
	base           *httpclient.BaseClient
	resolveTimeout time.Duration
	publishTimeout time.Duration
}

// Option tweaks a Client during construction.
type Option func(*Client)

func WithTimeouts(resolve, publish time.Duration) Option {
	return func(c *Client) {
		if resolve > 0 {
			c.resolveTimeout = resolve
		}
		if publish > 0 {
			c.publishTimeout = publish
		}
	}
}

// NewClient builds a Client for the given API base URL. An empty base means
// the live endpoint.
func NewClient(apiBase string, opts ...Option) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	c := &Client{
		resolveTimeout: defaultResolveTimeout,
		publishTimeout: defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	// The shared client carries the larger of the two timeouts; the resolve
	// path narrows it per call via context.
	c.base = httpclient.NewBaseClientWithClient(
		httpclient.New(httpclient.Config{Timeout: c.publishTimeout}),
		apiBase,
	)
	return c
}

func authHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Restli-Protocol-Version", restliProtocolVersion)
}

// ResolveOrganizationID queries the caller's approved organizational role
// assignments and returns the first organization id found. The lookup is not
// retried; a failing call is user-correctable (fix the token, or supply the
// org id manually).
func (c *Client) ResolveOrganizationID(ctx context.Context, token string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.resolveTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("q", "roleAssignee")
	query.Set("state", "APPROVED")

	req, err := c.base.NewRequest(ctx, http.MethodGet, "/organizationalEntityAcls", query, nil)
	if err != nil {
		return "", err
	}
	authHeaders(req, token)

	resp, err := c.base.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", readHTTPError(resp)
	}

	// Elements are decoded loosely: the decorated projection key spelling
	// ("organizationalTarget~") shows up depending on the query form.
	var out struct {
		Elements []map[string]any `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	for _, el := range out.Elements {
		urn, _ := el["organizationalTarget"].(string)
		if urn == "" {
			urn, _ = el["organizationalTarget~"].(string)
		}
		if urn == "" {
			continue
		}
		parts := strings.Split(urn, ":")
		return parts[len(parts)-1], nil
	}
	return "", ErrNoOrganization
}

// PublishResult is the outcome of a post creation. Body holds the parsed
// JSON response when the platform returned one; otherwise StatusCode and
// Headers stand in as the result.
type PublishResult struct {
	StatusCode int            `json:"status_code"`
	Headers    http.Header    `json:"headers,omitempty"`
	Body       map[string]any `json:"body,omitempty"`
}

// CreatePost submits a built payload to the content-creation endpoint. No
// retry: the endpoint gives no idempotency guarantee, so a failure surfaces
// to the caller instead of being repeated blindly.
func (c *Client) CreatePost(ctx context.Context, token string, payload UGCPayload) (PublishResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.publishTimeout)
	defer cancel()

	buf, err := json.Marshal(payload)
	if err != nil {
		return PublishResult{}, err
	}

	req, err := c.base.NewRequest(ctx, http.MethodPost, "/ugcPosts", nil, bytes.NewReader(buf))
	if err != nil {
		return PublishResult{}, err
	}
	authHeaders(req, token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return PublishResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PublishResult{}, readHTTPError(resp)
	}

	result := PublishResult{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		result.Body = body
	}
	return result, nil
}

func readHTTPError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &HTTPError{Status: resp.StatusCode, Body: string(b)}
}
