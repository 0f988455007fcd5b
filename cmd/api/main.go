package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikhilbhutani/mediatranscriber/internal/api"
	"github.com/nikhilbhutani/mediatranscriber/internal/api/middleware"
	"github.com/nikhilbhutani/mediatranscriber/internal/auth"
	"github.com/nikhilbhutani/mediatranscriber/internal/cache"
	"github.com/nikhilbhutani/mediatranscriber/internal/config"
	"github.com/nikhilbhutani/mediatranscriber/internal/database"
	"github.com/nikhilbhutani/mediatranscriber/internal/history"
	"github.com/nikhilbhutani/mediatranscriber/internal/logger"
	"github.com/nikhilbhutani/mediatranscriber/internal/multimodal/audio"
	"github.com/nikhilbhutani/mediatranscriber/internal/multimodal/stt"
	"github.com/nikhilbhutani/mediatranscriber/internal/transcriber"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New(logger.Config{})
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	extractor := audio.NewFFmpegExtractor(audio.FFmpegConfig{
		BinPath: cfg.Media.FFmpegPath,
		TempDir: cfg.Media.TempDir,
	}, logger.For(log, "ffmpeg"))

	svc := transcriber.NewService(newSTT(cfg.STT), extractor, cfg.STT.DefaultModel, logger.For(log, "transcriber"))

	deps := api.Deps{
		Transcriber:    svc,
		MaxUploadBytes: cfg.Media.MaxUploadBytes,
		CORSOrigins:    cfg.CORSOrigins,
		Log:            log,
	}

	// Database connection (optional, enables transcription history)
	if cfg.Database.URL != "" {
		db, err := database.NewPool(ctx, cfg.Database)
		if err != nil {
			log.Warn().Err(err).Msg("database unavailable, running without history")
		} else {
			defer db.Close()

			if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsPath, logger.For(log, "migrations")); err != nil {
				log.Warn().Err(err).Msg("migrations failed")
			}
			hist := history.NewService(db)
			deps.Recorder = hist
			deps.History = hist
		}
	}

	// Redis connection (optional, shares rate limits across replicas)
	var rc *cache.Cache
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, falling back to in-process rate limiting")
		} else {
			defer rdb.Close()
			rc = cache.NewCache(rdb)
		}
	}

	if cfg.RateLimit.RPS > 0 {
		if rc != nil {
			deps.Limiter = middleware.NewRedisRateLimiter(rc, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		} else {
			rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
			defer rl.Close()
			deps.Limiter = rl
		}
	}

	if cfg.Auth.JWTSecret != "" {
		deps.JWT = auth.NewJWTMiddleware(cfg.Auth.JWTSecret)
	}

	handler := api.NewRouter(deps).Setup()

	// No read/write timeout: long media uploads and transcriptions run to completion.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          stdLogger(log),
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("environment", cfg.Environment).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced shutdown")
	}
	log.Info().Msg("server stopped")
}

func newSTT(cfg config.STTConfig) stt.TranscriptionService {
	if cfg.Backend == "local" {
		return stt.NewLocalSTT(stt.LocalSTTConfig{
			BaseURL: cfg.LocalBaseURL,
			Model:   cfg.DefaultModel,
		})
	}
	return stt.NewOpenAISTT(stt.OpenAISTTConfig{
		APIKey:  cfg.OpenAIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.DefaultModel,
	})
}
