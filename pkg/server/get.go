package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"comicgen/pkg/store"
	"comicgen/pkg/utils"
)

func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"service": "Comic Generator API",
		"status":  "ok",
	})
}

type comicsResponse struct {
	Success bool           `json:"success"`
	Comics  []*store.Comic `json:"comics"`
	Total   int            `json:"total"`
}

type comicResponse struct {
	Success bool         `json:"success"`
	Comic   *store.Comic `json:"comic"`
}

// GET /comics?limit=N
func (s *Server) handleGetComics(c echo.Context) error {
	if s.gallery == nil {
		return c.JSON(http.StatusServiceUnavailable, utils.ErrJSON("gallery is not configured"))
	}

	limit, err := parseLimit(c.QueryParam("limit"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON(err.Error()))
	}

	ctx := c.Request().Context()
	comics, err := s.gallery.List(ctx, limit)
	if err != nil {
		log.FromContext(ctx).Error("listing comics failed", "err", err)
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed to load comics"))
	}
	if comics == nil {
		comics = []*store.Comic{}
	}
	return c.JSON(http.StatusOK, comicsResponse{Success: true, Comics: comics, Total: len(comics)})
}

// GET /comics/:id
func (s *Server) handleGetComic(c echo.Context) error {
	if s.gallery == nil {
		return c.JSON(http.StatusServiceUnavailable, utils.ErrJSON("gallery is not configured"))
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, utils.ErrJSON("comic id must be a positive integer"))
	}

	ctx := c.Request().Context()
	comic, err := s.gallery.Get(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, utils.ErrJSON("comic not found"))
	case err != nil:
		log.FromContext(ctx).Error("loading comic failed", "id", id, "err", err)
		return c.JSON(http.StatusInternalServerError, utils.ErrJSON("failed to load comic"))
	}
	return c.JSON(http.StatusOK, comicResponse{Success: true, Comic: comic})
}

// parseLimit defaults an empty value and clamps the rest to the allowed range.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return store.DefaultListLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("limit must be an integer")
	}
	return min(max(n, 1), store.MaxListLimit), nil
}
