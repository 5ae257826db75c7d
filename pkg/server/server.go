package server

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/segmentio/ksuid"

	"comicgen/pkg/comic"
	"comicgen/pkg/store"
)

type Generator interface {
	Generate(ctx context.Context, req comic.Request) (*comic.Result, error)
}

type Saver interface {
	Save(ctx context.Context, in store.SaveInput) (*store.Comic, error)
}

type Gallery interface {
	List(ctx context.Context, limit int) ([]*store.Comic, error)
	Get(ctx context.Context, id int64) (*store.Comic, error)
	Invalidate()
}

type SetupChecker interface {
	Check(ctx context.Context) *store.SetupReport
}

// Options wires the server. Nil dependencies turn their endpoints off.
type Options struct {
	Generator   Generator
	Saver       Saver
	Gallery     Gallery
	Setup       SetupChecker
	SaveTimeout time.Duration
}

type Server struct {
	Echo *echo.Echo
	Ctx  context.Context

	generator   Generator
	saver       Saver
	gallery     Gallery
	setup       SetupChecker
	saveTimeout time.Duration
}

func NewServer(ctx context.Context, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:        func() string { return ksuid.New().String() },
		RequestIDHandler: withRequestLogger,
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = time.Minute
	}

	s := &Server{
		Echo:        e,
		Ctx:         ctx,
		generator:   opts.Generator,
		saver:       opts.Saver,
		gallery:     opts.Gallery,
		setup:       opts.Setup,
		saveTimeout: opts.SaveTimeout,
	}

	s.registerRoutes()
	return s
}

// withRequestLogger puts a logger tagged with the request id into the request context.
func withRequestLogger(c echo.Context, id string) {
	req := c.Request()
	logger := log.With("request_id", id)
	c.SetRequest(req.WithContext(log.WithContext(req.Context(), logger)))
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	s.Echo.POST("/generate-comic", s.handlePostGenerate)

	s.Echo.GET("/comics", s.handleGetComics)
	s.Echo.GET("/comics/:id", s.handleGetComic)

	s.Echo.POST("/db/init", s.handlePostDBInit)
}

func (s *Server) Start(addr string) error {
	log.Info("server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server")
	return s.Echo.Shutdown(ctx)
}
