package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
	glog "github.com/labstack/gommon/log"

	"comicgen/pkg/comic"
	"comicgen/pkg/config"
	"comicgen/pkg/inference"
	"comicgen/pkg/safety"
	"comicgen/pkg/server"
	"comicgen/pkg/store"
)

func main() {
	ctx, done := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	setupLogging(cfg)

	opts := server.Options{SaveTimeout: cfg.SaveTimeout}

	if gen, err := newGenerator(ctx, cfg); err != nil {
		log.Warn("comic generation disabled", "err", err)
	} else {
		opts.Generator = gen
	}

	var (
		repo    store.Repository
		migr    store.Migrator
		objects store.ObjectStore
	)
	if cfg.DatabaseEnabled() {
		db, err := store.NewDB(ctx, cfg.PgURL, cfg.PgHost)
		if err != nil {
			log.Error("database unavailable, persistence disabled", "err", err)
		} else {
			defer db.Close()
			r := store.NewComicRepository(db)
			repo, migr = r, r
		}
	}
	if cfg.StorageEnabled() {
		s, err := store.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.StorageBucket)
		if err != nil {
			log.Error("storage unavailable, persistence disabled", "err", err)
		} else {
			objects = s
		}
	}

	if repo != nil {
		trusted := cfg.StorageTrustedHost
		if trusted == "" {
			trusted = store.HostOf(cfg.SupabaseURL)
		}
		opts.Gallery = store.NewGallery(repo, trusted, cfg.GalleryCacheTTL)
		if objects != nil {
			opts.Saver = store.NewWriter(repo, objects, store.ParseImageFormat(cfg.StorageImageFormat))
		}
	}
	if opts.Saver == nil {
		log.Warn("comics will not be saved, set DATABASE_URL, SUPABASE_URL and SUPABASE_KEY")
	}
	opts.Setup = store.NewSetup(migr, objects)

	srv := server.NewServer(ctx, opts)
	srv.Echo.Logger.SetLevel(echoLevel(cfg.LogLevel))

	finishedShutDown := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", "err", err)
		}
		done()
		close(finishedShutDown)
	}()

	if err := srv.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "err", err)
		done()
	}
	<-finishedShutDown
}

func newGenerator(ctx context.Context, cfg *config.Config) (*comic.Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}
	client, err := inference.NewGeminiClient(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}

	var text inference.Inferencer = inference.NewGeminiInferencer(client.Models, cfg.TextModel)
	if cfg.TextProvider == config.ProviderOpenAI {
		text = inference.NewOpenAIInferencer(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	}
	images := inference.NewGeminiImageGenerator(client.Models, cfg.ImageModel)

	log.Info("comic generation ready", "text_provider", cfg.TextProvider, "image_model", cfg.ImageModel)
	return comic.NewGenerator(text, images, comic.Config{
		Concurrency:     cfg.PanelConcurrency,
		MaxPromptTokens: cfg.PromptMaxTokens,
		ImageRate:       cfg.ImageRatePerSec,
		Policy:          safety.NewRegexPolicy(),
	}), nil
}

func setupLogging(cfg *config.Config) {
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.LogFormat == "json" {
		log.SetFormatter(log.JSONFormatter)
	}
	log.SetReportTimestamp(true)
}

func echoLevel(level string) glog.Lvl {
	switch level {
	case "debug":
		return glog.DEBUG
	case "warn":
		return glog.WARN
	case "error":
		return glog.ERROR
	default:
		return glog.INFO
	}
}
