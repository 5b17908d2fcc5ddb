package dto

import "linkedin-poster/linkedin"

// GenerateRequest is the body of POST /api/v1/generate. The API key is
// session-scoped: once supplied it sticks for later actions in the same
// session and is never persisted.
type GenerateRequest struct {
	Prompt       string `json:"prompt" binding:"required"`
	Model        string `json:"model"`
	GeminiAPIKey string `json:"gemini_api_key"`
	SavePath     string `json:"save_path"`
}

type GenerateResponse struct {
	SessionID string `json:"session_id"`
	Article   string `json:"article"`
	Source    string `json:"source"`
}

// PublishRequest is the body of POST /api/v1/publish. DryRun is a pointer
// so that "not supplied" falls back to the configured default (on).
type PublishRequest struct {
	OrgID          string `json:"org_id"`
	LinkedInAPIKey string `json:"linkedin_api_key"`
	DryRun         *bool  `json:"dry_run"`
}

type PublishResponse struct {
	SessionID string                  `json:"session_id"`
	DryRun    bool                    `json:"dry_run"`
	OrgID     string                  `json:"org_id,omitempty"`
	Payload   *linkedin.UGCPayload    `json:"payload,omitempty"`
	Result    *linkedin.PublishResult `json:"result,omitempty"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

type ArticleResponse struct {
	SessionID string `json:"session_id"`
	Article   string `json:"article"`
	HTML      string `json:"html,omitempty"`
}

// UpdateArticleRequest replaces the session article with an edited version.
type UpdateArticleRequest struct {
	Article string `json:"article" binding:"required"`
}

type LogsResponse struct {
	SessionID string   `json:"session_id"`
	Logs      []string `json:"logs"`
}

// MetaResponse describes the backend status and generation defaults the
// front-end needs to render its controls.
type MetaResponse struct {
	Models            []string `json:"models"`
	DefaultModel      string   `json:"default_model"`
	DryRunDefault     bool     `json:"dry_run_default"`
	DefaultSavePath   string   `json:"default_save_path"`
	GeminiAvailable   bool     `json:"gemini_available"`
	GeneratorOverride bool     `json:"generator_override"`
	PublisherOverride bool     `json:"publisher_override"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
