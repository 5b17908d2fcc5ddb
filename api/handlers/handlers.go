package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkedin-poster/dto"
	"linkedin-poster/linkedin"
	"linkedin-poster/services"
	"linkedin-poster/session"
)

const headerSessionID = "X-Session-Id"

// sessionFrom resolves the caller's session from the X-Session-Id header,
// creating one on first contact, and echoes the id back in the response
// header so the front-end can hold on to it.
func sessionFrom(c *gin.Context, store *session.Store) *session.Session {
	sess := store.GetOrCreate(c.GetHeader(headerSessionID))
	c.Header(headerSessionID, sess.ID)
	return sess
}

// CreateSessionHandler godoc
// @Summary      Create session
// @Description  Start a fresh session for keys, article state and logs
// @Tags         sessions
// @Produce      json
// @Success      201  {object}  dto.SessionResponse
// @Router       /sessions [post]
func CreateSessionHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := store.Create()
		c.Header(headerSessionID, sess.ID)
		c.JSON(http.StatusCreated, dto.SessionResponse{SessionID: sess.ID})
	}
}

// GenerateHandler godoc
// @Summary      Generate article
// @Description  Generate article text from a prompt; falls back to a placeholder when no backend is reachable
// @Tags         poster
// @Accept       json
// @Param        request  body  dto.GenerateRequest  true  "Generation parameters"
// @Produce      json
// @Success      200  {object}  dto.GenerateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /generate [post]
func GenerateHandler(svc *services.PosterService, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}

		sess := sessionFrom(c, store)
		result, err := svc.Generate(c.Request.Context(), sess, services.GenerateInput{
			Prompt:    req.Prompt,
			Model:     req.Model,
			GeminiKey: req.GeminiAPIKey,
			SavePath:  req.SavePath,
		})
		if err != nil {
			c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, dto.GenerateResponse{
			SessionID: sess.ID,
			Article:   result.Article,
			Source:    result.Source,
		})
	}
}

// PublishHandler godoc
// @Summary      Publish article
// @Description  Publish the session article as an organization post, or preview the payload in dry-run mode
// @Tags         poster
// @Accept       json
// @Param        request  body  dto.PublishRequest  true  "Publish parameters"
// @Produce      json
// @Success      200  {object}  dto.PublishResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /publish [post]
func PublishHandler(svc *services.PosterService, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.PublishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}

		dryRun := svc.Config().DryRunDefault
		if req.DryRun != nil {
			dryRun = *req.DryRun
		}

		sess := sessionFrom(c, store)
		out, err := svc.Publish(c.Request.Context(), sess, services.PublishInput{
			OrgID:       req.OrgID,
			LinkedInKey: req.LinkedInAPIKey,
			DryRun:      dryRun,
		})
		if err != nil {
			c.JSON(publishErrorStatus(err), dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, dto.PublishResponse{
			SessionID: sess.ID,
			DryRun:    out.DryRun,
			OrgID:     out.OrgID,
			Payload:   payloadOrNil(out),
			Result:    out.Result,
		})
	}
}

func payloadOrNil(out services.PublishOutput) *linkedin.UGCPayload {
	if out.Payload.Author == "" {
		return nil
	}
	p := out.Payload
	return &p
}

// publishErrorStatus maps the publish error taxonomy onto HTTP statuses:
// refusals and resolution failures are the caller's to fix, upstream HTTP
// errors are a bad gateway.
func publishErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNoArticle), errors.Is(err, services.ErrNoToken):
		return http.StatusBadRequest
	case errors.Is(err, linkedin.ErrNoOrganization):
		return http.StatusUnprocessableEntity
	default:
		var httpErr *linkedin.HTTPError
		if errors.As(err, &httpErr) {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}
}

// GetArticleHandler godoc
// @Summary      Get session article
// @Description  Return the last generated article; format=html adds a rendered markdown preview
// @Tags         poster
// @Param        format  query  string  false  "Set to html for a rendered preview"
// @Produce      json
// @Success      200  {object}  dto.ArticleResponse
// @Router       /article [get]
func GetArticleHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c, store)
		resp := dto.ArticleResponse{SessionID: sess.ID, Article: sess.Article()}
		if c.Query("format") == "html" && resp.Article != "" {
			html, err := services.RenderArticleHTML(resp.Article)
			if err != nil {
				c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
				return
			}
			resp.HTML = html
		}
		c.JSON(http.StatusOK, resp)
	}
}

// UpdateArticleHandler godoc
// @Summary      Update session article
// @Description  Replace the session article with an edited version
// @Tags         poster
// @Accept       json
// @Param        request  body  dto.UpdateArticleRequest  true  "Edited article"
// @Produce      json
// @Success      200  {object}  dto.ArticleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /article [put]
func UpdateArticleHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateArticleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		sess := sessionFrom(c, store)
		sess.SetArticle(req.Article)
		sess.AppendLog("[info] Article updated manually.")
		c.JSON(http.StatusOK, dto.ArticleResponse{SessionID: sess.ID, Article: req.Article})
	}
}

// LogsHandler godoc
// @Summary      Get session logs
// @Description  Return the most recent session log lines (capped at 100)
// @Tags         poster
// @Produce      json
// @Success      200  {object}  dto.LogsResponse
// @Router       /logs [get]
func LogsHandler(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c, store)
		c.JSON(http.StatusOK, dto.LogsResponse{SessionID: sess.ID, Logs: sess.Logs()})
	}
}

// MetaHandler godoc
// @Summary      Backend status and defaults
// @Description  Report available models, defaults and which backends are wired
// @Tags         poster
// @Produce      json
// @Success      200  {object}  dto.MetaResponse
// @Router       /meta [get]
func MetaHandler(svc *services.PosterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := svc.Config()
		c.JSON(http.StatusOK, dto.MetaResponse{
			Models:            cfg.Models,
			DefaultModel:      cfg.DefaultModel,
			DryRunDefault:     cfg.DryRunDefault,
			DefaultSavePath:   cfg.DefaultSavePath,
			GeminiAvailable:   svc.GeminiAvailable(),
			GeneratorOverride: svc.HasGeneratorOverride(),
			PublisherOverride: svc.HasPublisherOverride(),
		})
	}
}
