package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"comicgen/pkg/comic"
	"comicgen/pkg/inference"
	"comicgen/pkg/schema"
	"comicgen/pkg/store"
	"comicgen/pkg/utils"
)

// POST /generate-comic
func (s *Server) handlePostGenerate(c echo.Context) error {
	var body schema.GenerateRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, failed("invalid json"))
	}
	req, err := validateGenerate(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, failed(comic.UserMessage(err)))
	}
	if s.generator == nil {
		return c.JSON(http.StatusInternalServerError, failed("comic generation is not configured, set GEMINI_API_KEY"))
	}

	ctx := c.Request().Context()
	logger := log.FromContext(ctx)
	logger.Info("generate comic", "prompt", utils.LimitStr(req.Prompt, 80), "style", req.Style, "panels", req.PanelCount)

	res, err := s.generator.Generate(ctx, req)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, failed(comic.UserMessage(err)))
	}

	resp := schema.GenerateResponse{
		Images:  lo.Map(res.Images, func(img *inference.Image, _ int) string { return base64.StdEncoding.EncodeToString(img.Data) }),
		Scripts: res.Scripts,
		Message: fmt.Sprintf("generated %d panels", len(res.Images)),
	}
	if res.FallbackScripts {
		resp.Message += " using placeholder scripts"
	}

	if saved := s.persist(ctx, req, res); saved != nil {
		resp.ComicID = saved.ID
		if !saved.CreatedAt.IsZero() {
			resp.CreatedAt = &saved.CreatedAt
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// persist stores a generated comic. Failures are only logged, the client
// still gets its images.
func (s *Server) persist(ctx context.Context, req comic.Request, res *comic.Result) *store.Comic {
	if s.saver == nil {
		return nil
	}
	logger := log.FromContext(ctx)

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	saved, err := s.saver.Save(saveCtx, store.SaveInput{
		Prompt:  req.Prompt,
		Style:   req.Style,
		Scripts: res.Scripts,
		Prompts: res.Prompts,
		Images:  res.Images,
	})
	if err != nil {
		logger.Error("saving comic failed", "err", err)
		return nil
	}
	if s.gallery != nil {
		s.gallery.Invalidate()
	}
	return saved
}

func validateGenerate(body schema.GenerateRequest) (comic.Request, error) {
	prompt := strings.TrimSpace(body.Prompt)
	if prompt == "" {
		return comic.Request{}, &comic.ValidationError{Field: "prompt", Message: "is required"}
	}
	if utf8.RuneCountInString(prompt) > schema.MaxPromptLength {
		return comic.Request{}, &comic.ValidationError{Field: "prompt", Message: fmt.Sprintf("must be at most %d characters", schema.MaxPromptLength)}
	}

	style, ok := schema.ParseStyle(body.Style)
	if !ok {
		return comic.Request{}, &comic.ValidationError{
			Field:   "style",
			Message: "must be one of " + strings.Join(lo.Map(schema.Styles, func(s schema.Style, _ int) string { return string(s) }), ", "),
		}
	}

	panels := schema.DefaultPanels
	if body.PanelCount != nil {
		panels = *body.PanelCount
	}
	if panels < schema.MinPanels || panels > schema.MaxPanels {
		return comic.Request{}, &comic.ValidationError{Field: "panelCount", Message: fmt.Sprintf("must be between %d and %d", schema.MinPanels, schema.MaxPanels)}
	}

	return comic.Request{Prompt: prompt, Style: style, PanelCount: panels}, nil
}

func failed(msg string) schema.GenerateResponse {
	return schema.GenerateResponse{Images: []string{}, Scripts: []schema.PanelScript{}, Error: msg}
}

// POST /db/init
func (s *Server) handlePostDBInit(c echo.Context) error {
	if s.setup == nil {
		return c.JSON(http.StatusServiceUnavailable, utils.ErrJSON("database is not configured"))
	}
	report := s.setup.Check(c.Request().Context())
	return c.JSON(http.StatusOK, report)
}
