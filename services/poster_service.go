package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"linkedin-poster/generator"
	"linkedin-poster/linkedin"
	"linkedin-poster/logger"
	"linkedin-poster/session"
	"linkedin-poster/trace"
)

// Refusal errors for the publish ladder. Both are user-correctable and are
// reported before any network call is made.
var (
	ErrNoArticle = errors.New("no generated article in session")
	ErrNoToken   = errors.New("linkedin api key missing")
)

// PublisherBackend is the optional external publish override. When injected
// it replaces the resolve/build/post pipeline entirely.
type PublisherBackend interface {
	PostArticle(ctx context.Context, article, orgID, token string) (linkedin.PublishResult, error)
}

// Config carries the orchestration defaults.
type Config struct {
	DefaultModel    string
	Models          []string
	DryRunDefault   bool
	DefaultSavePath string
}

// PosterService sequences the generate and publish pipelines over a
// session. Backend overrides are explicit strategies chosen at construction
// time, not probed at runtime.
type PosterService struct {
	cfg               Config
	gemini            *generator.Client
	linkedin          *linkedin.Client
	generatorOverride generator.ArticleGenerator
	publisherOverride PublisherBackend
}

type Option func(*PosterService)

// WithGeneratorOverride installs an external generation backend that takes
// precedence over the Gemini client.
func WithGeneratorOverride(g generator.ArticleGenerator) Option {
	return func(s *PosterService) { s.generatorOverride = g }
}

// WithPublisherOverride installs an external publish backend that takes
// precedence over the LinkedIn client.
func WithPublisherOverride(p PublisherBackend) Option {
	return func(s *PosterService) { s.publisherOverride = p }
}

// NewPosterService wires the orchestration layer. gemini may be nil, which
// makes the generation backend unavailable and routes every generate call to
// the placeholder.
func NewPosterService(cfg Config, gemini *generator.Client, li *linkedin.Client, opts ...Option) *PosterService {
	s := &PosterService{
		cfg:      cfg,
		gemini:   gemini,
		linkedin: li,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *PosterService) Config() Config { return s.cfg }

// HasGeneratorOverride reports whether an external generation backend is
// installed.
func (s *PosterService) HasGeneratorOverride() bool { return s.generatorOverride != nil }

// HasPublisherOverride reports whether an external publish backend is
// installed.
func (s *PosterService) HasPublisherOverride() bool { return s.publisherOverride != nil }

// GeminiAvailable reports whether the default generation client is wired.
func (s *PosterService) GeminiAvailable() bool { return s.gemini != nil }

type GenerateInput struct {
	Prompt    string
	Model     string
	GeminiKey string
	SavePath  string
}

type GenerateResult struct {
	Article string
	// Source records which generation path produced the article:
	// "override", "gemini" or "placeholder".
	Source string
}

// Generate runs the generation ladder: external override first, then the
// Gemini client when it is wired and a key is in session, then the local
// placeholder. The resulting text always overwrites the session article;
// a save-path write failure is logged but never fatal.
func (s *PosterService) Generate(ctx context.Context, sess *session.Session, in GenerateInput) (GenerateResult, error) {
	sess.AppendLog("[info] Generation started...")
	sess.SetGeminiKey(in.GeminiKey)

	model := in.Model
	if model == "" {
		model = s.cfg.DefaultModel
	}

	var result GenerateResult
	switch {
	case s.generatorOverride != nil:
		sess.AppendLog("[info] Using external backend for generation.")
		text, err := s.generatorOverride.Generate(ctx, generator.GenerateRequest{
			Prompt: in.Prompt,
			Model:  model,
			APIKey: sess.GeminiKey(),
		})
		if err != nil {
			sess.AppendLog(fmt.Sprintf("[error] Generation failed: %v", err))
			return GenerateResult{}, err
		}
		sess.AppendLog("[info] Generation completed using external backend.")
		result = GenerateResult{Article: text, Source: "override"}

	case s.gemini != nil && sess.GeminiKey() != "":
		sess.AppendLog("[info] Generating via Gemini (remote).")
		text, err := s.gemini.Generate(ctx, generator.GenerateRequest{
			Prompt: in.Prompt,
			Model:  model,
			APIKey: sess.GeminiKey(),
		})
		if err != nil {
			sess.AppendLog(fmt.Sprintf("[warn] Gemini generation failed: %v. Falling back to placeholder.", err))
			logger.WarnWithFields("gemini generation failed, using placeholder", logger.Fields{
				"session_id": sess.ID,
				"model":      model,
				"error":      err.Error(),
			})
			text, _ = generator.MockGenerator{}.Generate(ctx, generator.GenerateRequest{Prompt: in.Prompt})
			result = GenerateResult{Article: text, Source: "placeholder"}
		} else {
			sess.AppendLog("[info] Gemini generation succeeded.")
			result = GenerateResult{Article: text, Source: "gemini"}
		}

	default:
		sess.AppendLog("[info] Using local placeholder generation (no Gemini backend or key).")
		text, _ := generator.MockGenerator{}.Generate(ctx, generator.GenerateRequest{Prompt: in.Prompt})
		result = GenerateResult{Article: text, Source: "placeholder"}
	}

	sess.SetArticle(result.Article)

	if in.SavePath != "" {
		if err := os.WriteFile(in.SavePath, []byte(result.Article), 0o644); err != nil {
			sess.AppendLog(fmt.Sprintf("[error] Could not save file: %v", err))
		} else {
			sess.AppendLog(fmt.Sprintf("[success] Saved generated article to %s", in.SavePath))
		}
	}

	logger.InfoWithFields("article generated", logger.Fields{
		"session_id": sess.ID,
		"request_id": trace.RequestIDFromContext(ctx),
		"source":     result.Source,
		"model":      model,
		"length":     len(result.Article),
	})
	return result, nil
}

type PublishInput struct {
	OrgID       string
	LinkedInKey string
	DryRun      bool
}

type PublishOutput struct {
	DryRun  bool
	OrgID   string
	Payload linkedin.UGCPayload
	// Result is set only after a live publish.
	Result *linkedin.PublishResult
}

// Publish runs the publish ladder: refuse without an article or token, then
// external override, then resolve-build-post against the platform API.
// With DryRun set, everything up to and including payload construction runs
// but no POST is issued through either the platform client or an override.
func (s *PosterService) Publish(ctx context.Context, sess *session.Session, in PublishInput) (PublishOutput, error) {
	sess.AppendLog("[info] Publishing started...")

	article := sess.Article()
	if article == "" {
		sess.AppendLog("[warn] No generated article found. Generate first.")
		return PublishOutput{}, ErrNoArticle
	}

	sess.SetLinkedInKey(in.LinkedInKey)
	token := sess.LinkedInKey()
	if token == "" {
		sess.AppendLog("[error] LinkedIn API key missing. Provide the bearer token.")
		return PublishOutput{}, ErrNoToken
	}

	if s.publisherOverride != nil && !in.DryRun {
		sess.AppendLog("[info] Using external backend for publishing.")
		res, err := s.publisherOverride.PostArticle(ctx, article, in.OrgID, token)
		if err != nil {
			s.logPublishError(sess, err)
			return PublishOutput{}, err
		}
		sess.AppendLog("[success] Published using external backend. Response (truncated):")
		sess.AppendLog(jsonPreview(res, 1000))
		return PublishOutput{OrgID: in.OrgID, Result: &res}, nil
	}

	orgID := in.OrgID
	if orgID == "" {
		var err error
		orgID, err = s.linkedin.ResolveOrganizationID(ctx, token)
		if err != nil {
			sess.AppendLog(fmt.Sprintf("[error] Could not auto-detect org id: %v", err))
			return PublishOutput{}, err
		}
		sess.AppendLog(fmt.Sprintf("[info] Auto-detected org id: %s", orgID))
	}

	payload := linkedin.BuildUGCPayload(orgID, article)

	if in.DryRun {
		sess.AppendLog("[dry-run] Dry run enabled. Payload preview (truncated):")
		sess.AppendLog(jsonPreview(payload, 1200))
		return PublishOutput{DryRun: true, OrgID: orgID, Payload: payload}, nil
	}

	sess.AppendLog("[info] Sending post to LinkedIn API.")
	res, err := s.linkedin.CreatePost(ctx, token, payload)
	if err != nil {
		s.logPublishError(sess, err)
		return PublishOutput{}, err
	}
	sess.AppendLog("[success] Posted to LinkedIn. Response (truncated):")
	sess.AppendLog(jsonPreview(res, 1000))

	logger.InfoWithFields("article published", logger.Fields{
		"session_id": sess.ID,
		"request_id": trace.RequestIDFromContext(ctx),
		"org_id":     orgID,
		"status":     res.StatusCode,
	})
	return PublishOutput{OrgID: orgID, Payload: payload, Result: &res}, nil
}

// logPublishError keeps HTTP errors (which carry the response body) visually
// distinct from everything else in the session log.
func (s *PosterService) logPublishError(sess *session.Session, err error) {
	var httpErr *linkedin.HTTPError
	if errors.As(err, &httpErr) {
		sess.AppendLog(fmt.Sprintf("[http-error] status=%d -- %s", httpErr.Status, httpErr.Body))
		return
	}
	sess.AppendLog(fmt.Sprintf("[error] Publishing failed: %v", err))
}

// jsonPreview renders v as JSON truncated to max runes for log display.
func jsonPreview(v any, max int) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	rs := []rune(string(b))
	if len(rs) > max {
		rs = rs[:max]
	}
	return string(rs)
}
