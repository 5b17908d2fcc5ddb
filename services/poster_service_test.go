package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkedin-poster/generator"
	"linkedin-poster/linkedin"
	"linkedin-poster/services"
	"linkedin-poster/session"
)

func testConfig() services.Config {
	return services.Config{
		DefaultModel:  "gemini-pro-latest",
		Models:        []string{"gemini-pro-latest"},
		DryRunDefault: true,
	}
}

// failingBackend always errors, simulating an unreachable Gemini endpoint.
type failingBackend struct{}

func (failingBackend) GenerateContent(_ context.Context, _ generator.GenerateRequest) (any, error) {
	return nil, errors.New("gemini unreachable")
}

// countingPlatform is an httptest LinkedIn stand-in that counts requests so
// tests can prove no network call happened.
func countingPlatform(t *testing.T, handler http.HandlerFunc) (*linkedin.Client, *int64) {
	t.Helper()
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		if handler != nil {
			handler(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return linkedin.NewClient(srv.URL), &calls
}

func TestGeneratePlaceholderWhenNoBackendAndNoKey(t *testing.T) {
	svc := services.NewPosterService(testConfig(), nil, nil)
	sess := session.NewStore().Create()

	result, err := svc.Generate(context.Background(), sess, services.GenerateInput{Prompt: "X"})
	require.NoError(t, err)

	assert.Equal(t, "placeholder", result.Source)
	assert.Equal(t, generator.PlaceholderArticle("X"), result.Article)
	assert.True(t, strings.HasPrefix(result.Article, "# Prompt\nX\n\n"))
	assert.Equal(t, result.Article, sess.Article())
}

func TestGenerateFallsBackToPlaceholderOnGeminiFailure(t *testing.T) {
	gemini := generator.NewClient(failingBackend{}, 1, time.Millisecond)
	svc := services.NewPosterService(testConfig(), gemini, nil)
	sess := session.NewStore().Create()

	result, err := svc.Generate(context.Background(), sess, services.GenerateInput{
		Prompt:    "cloud native",
		GeminiKey: "gk-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "placeholder", result.Source)
	assert.Equal(t, generator.PlaceholderArticle("cloud native"), result.Article)

	logs := strings.Join(sess.Logs(), "\n")
	assert.Contains(t, logs, "[warn] Gemini generation failed")
}

type staticOverride struct {
	article string
	err     error
}

func (o staticOverride) Generate(_ context.Context, _ generator.GenerateRequest) (string, error) {
	return o.article, o.err
}

func TestGeneratePrefersOverrideBackend(t *testing.T) {
	svc := services.NewPosterService(testConfig(), nil, nil,
		services.WithGeneratorOverride(staticOverride{article: "override article"}))
	sess := session.NewStore().Create()

	result, err := svc.Generate(context.Background(), sess, services.GenerateInput{Prompt: "X"})
	require.NoError(t, err)

	assert.Equal(t, "override", result.Source)
	assert.Equal(t, "override article", result.Article)
}

func TestGenerateOverrideFailurePropagates(t *testing.T) {
	svc := services.NewPosterService(testConfig(), nil, nil,
		services.WithGeneratorOverride(staticOverride{err: errors.New("override broken")}))
	sess := session.NewStore().Create()

	_, err := svc.Generate(context.Background(), sess, services.GenerateInput{Prompt: "X"})
	require.Error(t, err)
	assert.Empty(t, sess.Article())
}

func TestGenerateSavesArticleToFile(t *testing.T) {
	svc := services.NewPosterService(testConfig(), nil, nil)
	sess := session.NewStore().Create()
	savePath := filepath.Join(t.TempDir(), "article.txt")

	result, err := svc.Generate(context.Background(), sess, services.GenerateInput{
		Prompt:   "X",
		SavePath: savePath,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(savePath)
	require.NoError(t, err)
	assert.Equal(t, result.Article, string(data))
}

func TestGenerateSaveFailureIsNotFatal(t *testing.T) {
	svc := services.NewPosterService(testConfig(), nil, nil)
	sess := session.NewStore().Create()

	result, err := svc.Generate(context.Background(), sess, services.GenerateInput{
		Prompt:   "X",
		SavePath: filepath.Join(t.TempDir(), "missing", "article.txt"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Article)
	assert.Contains(t, strings.Join(sess.Logs(), "\n"), "[error] Could not save file")
}

func TestPublishRefusesWithoutArticle(t *testing.T) {
	li, calls := countingPlatform(t, nil)
	svc := services.NewPosterService(testConfig(), nil, li)
	sess := session.NewStore().Create()

	_, err := svc.Publish(context.Background(), sess, services.PublishInput{
		LinkedInKey: "lk-1",
		DryRun:      false,
	})
	require.ErrorIs(t, err, services.ErrNoArticle)
	assert.EqualValues(t, 0, atomic.LoadInt64(calls))
}

func TestPublishRefusesWithoutToken(t *testing.T) {
	li, calls := countingPlatform(t, nil)
	svc := services.NewPosterService(testConfig(), nil, li)
	sess := session.NewStore().Create()
	sess.SetArticle("Hello world")

	_, err := svc.Publish(context.Background(), sess, services.PublishInput{DryRun: false})
	require.ErrorIs(t, err, services.ErrNoToken)
	// The resolver must not be consulted before the token check passes.
	assert.EqualValues(t, 0, atomic.LoadInt64(calls))
}

func TestPublishDryRunBuildsPayloadWithoutNetworkCall(t *testing.T) {
	li, calls := countingPlatform(t, nil)
	svc := services.NewPosterService(testConfig(), nil, li)
	sess := session.NewStore().Create()
	sess.SetArticle("Hello world")

	out, err := svc.Publish(context.Background(), sess, services.PublishInput{
		OrgID:       "12345",
		LinkedInKey: "lk-1",
		DryRun:      true,
	})
	require.NoError(t, err)

	assert.True(t, out.DryRun)
	assert.Equal(t, "urn:li:organization:12345", out.Payload.Author)
	assert.Equal(t, "Hello world", out.Payload.SpecificContent.ShareContent.ShareCommentary.Text)
	assert.EqualValues(t, 0, atomic.LoadInt64(calls))

	logs := strings.Join(sess.Logs(), "\n")
	assert.Contains(t, logs, "[dry-run]")
	assert.Contains(t, logs, "urn:li:organization:12345")
}

func TestPublishResolvesOrganizationAndPosts(t *testing.T) {
	li, calls := countingPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/organizationalEntityAcls":
			w.Write([]byte(`{"elements":[{"organizationalTarget":"urn:li:organization:777"}]}`))
		case "/ugcPosts":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"urn:li:share:1"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	svc := services.NewPosterService(testConfig(), nil, li)
	sess := session.NewStore().Create()
	sess.SetArticle("Hello world")

	out, err := svc.Publish(context.Background(), sess, services.PublishInput{
		LinkedInKey: "lk-1",
		DryRun:      false,
	})
	require.NoError(t, err)

	assert.Equal(t, "777", out.OrgID)
	require.NotNil(t, out.Result)
	assert.Equal(t, "urn:li:share:1", out.Result.Body["id"])
	assert.EqualValues(t, 2, atomic.LoadInt64(calls))

	logs := strings.Join(sess.Logs(), "\n")
	assert.Contains(t, logs, "[info] Auto-detected org id: 777")
	assert.Contains(t, logs, "[success] Posted to LinkedIn")
}

func TestPublishResolutionFailureAborts(t *testing.T) {
	li, calls := countingPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[]}`))
	})
	svc := services.NewPosterService(testConfig(), nil, li)
	sess := session.NewStore().Create()
	sess.SetArticle("Hello world")

	_, err := svc.Publish(context.Background(), sess, services.PublishInput{
		LinkedInKey: "lk-1",
		DryRun:      false,
	})
	require.ErrorIs(t, err, linkedin.ErrNoOrganization)
	// Only the resolver call; no post was attempted.
	assert.EqualValues(t, 1, atomic.LoadInt64(calls))
	assert.Contains(t, strings.Join(sess.Logs(), "\n"), "[error] Could not auto-detect org id")
}

func TestPublishHTTPErrorIsLoggedWithBody(t *testing.T) {
	li, _ := countingPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"insufficient permissions"}`))
	})
	svc := services.NewPosterService(testConfig(), nil, li)
	sess := session.NewStore().Create()
	sess.SetArticle("Hello world")

	_, err := svc.Publish(context.Background(), sess, services.PublishInput{
		OrgID:       "12345",
		LinkedInKey: "lk-1",
		DryRun:      false,
	})

	var httpErr *linkedin.HTTPError
	require.ErrorAs(t, err, &httpErr)
	logs := strings.Join(sess.Logs(), "\n")
	assert.Contains(t, logs, "[http-error]")
	assert.Contains(t, logs, "insufficient permissions")
}

type recordingPublisher struct {
	article string
	orgID   string
	token   string
}

func (p *recordingPublisher) PostArticle(_ context.Context, article, orgID, token string) (linkedin.PublishResult, error) {
	p.article, p.orgID, p.token = article, orgID, token
	return linkedin.PublishResult{StatusCode: http.StatusOK}, nil
}

func TestPublishPrefersOverrideBackend(t *testing.T) {
	li, calls := countingPlatform(t, nil)
	override := &recordingPublisher{}
	svc := services.NewPosterService(testConfig(), nil, li,
		services.WithPublisherOverride(override))
	sess := session.NewStore().Create()
	sess.SetArticle("Hello world")

	out, err := svc.Publish(context.Background(), sess, services.PublishInput{
		OrgID:       "12345",
		LinkedInKey: "lk-1",
		DryRun:      false,
	})
	require.NoError(t, err)

	assert.Equal(t, "Hello world", override.article)
	assert.Equal(t, "12345", override.orgID)
	assert.Equal(t, "lk-1", override.token)
	require.NotNil(t, out.Result)
	assert.EqualValues(t, 0, atomic.LoadInt64(calls))
}

func TestPublishDryRunSkipsOverrideBackend(t *testing.T) {
	li, calls := countingPlatform(t, nil)
	override := &recordingPublisher{}
	svc := services.NewPosterService(testConfig(), nil, li,
		services.WithPublisherOverride(override))
	sess := session.NewStore().Create()
	sess.SetArticle("Hello world")

	out, err := svc.Publish(context.Background(), sess, services.PublishInput{
		OrgID:       "12345",
		LinkedInKey: "lk-1",
		DryRun:      true,
	})
	require.NoError(t, err)

	assert.True(t, out.DryRun)
	assert.Equal(t, "urn:li:organization:12345", out.Payload.Author)
	assert.Empty(t, override.article)
	assert.EqualValues(t, 0, atomic.LoadInt64(calls))
}
