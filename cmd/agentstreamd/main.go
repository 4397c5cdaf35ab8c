// Command agentstreamd runs the agentstream HTTP server: a streamed chat
// endpoint backed by a provider SDK, with Redis-backed out-of-band stop
// signals and file-based session persistence.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/agentstream"
	"github.com/hupe1980/agentstream/config"
	"github.com/hupe1980/agentstream/core"
	"github.com/hupe1980/agentstream/logging"
	"github.com/hupe1980/agentstream/server"
	"github.com/hupe1980/agentstream/session"
	sig "github.com/hupe1980/agentstream/signal"
	"github.com/hupe1980/agentstream/source"
	"github.com/hupe1980/agentstream/source/anthropic"
	"github.com/hupe1980/agentstream/source/openai"
)

func main() {
	cfg := config.Load()

	logger := logging.NewSlogLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, false)
	logger.Info("starting agentstream server addr=%s provider=%s", cfg.Addr(), cfg.Provider)

	// Signal store. Redis must be reachable at startup; afterwards failures
	// degrade cancellation only.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	})
	signalStore := sig.NewRedisStore(redisClient, func(o *sig.RedisOptions) {
		o.StopTTL = cfg.StopTTL
		o.Logger = logger.WithComponent("signal")
	})

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPing()
	if !signalStore.Ping(pingCtx) {
		log.Fatalf("redis unavailable at startup (%s)", cfg.RedisAddr())
	}
	logger.Info("redis connected addr=%s", cfg.RedisAddr())

	sessionStore, err := session.NewFileStore(cfg.SessionDir, func(o *session.FileStoreOptions) {
		o.Logger = logger.WithComponent("session")
	})
	if err != nil {
		log.Fatalf("failed to initialize session store: %v", err)
	}

	src, err := buildSource(cfg, sessionStore, logger)
	if err != nil {
		log.Fatalf("failed to initialize generation source: %v", err)
	}

	app := agentstream.New(src, func(o *agentstream.Options) {
		o.SignalStore = signalStore
		o.SessionStore = sessionStore
		o.Logger = logger
	})

	srv := server.New(app, func(o *server.Options) {
		o.Logger = logger.WithComponent("server")
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	srv.RegisterRoutes(e)

	go func() {
		if err := e.Start(cfg.Addr()); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()
	logger.Info("server started addr=%s", cfg.Addr())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("redis close failed: %v", err)
	}
	logger.Info("shutdown complete")
}

// buildSource selects the generation source from config. The scripted source
// keeps the server usable without provider credentials.
func buildSource(cfg *config.Config, sessions core.SessionStore, logger logging.Logger) (core.GenerationSource, error) {
	switch cfg.Provider {
	case "openai":
		return openai.New(func(o *openai.Options) {
			if cfg.ModelID != "" {
				o.Model = cfg.ModelID
			}
			o.Temperature = cfg.Temperature
			o.MaxCompletionTokens = cfg.MaxTokens
			o.SystemPrompt = cfg.SystemPrompt
			o.Sessions = sessions
			o.Logger = logger
		}), nil
	case "scripted":
		return source.NewScriptedSource(
			source.TextScript("Hello! ", "This is the scripted development source."),
			func(o *source.ScriptedOptions) { o.Delay = 200 * time.Millisecond },
		), nil
	default: // anthropic
		return anthropic.New(func(o *anthropic.Options) {
			if cfg.ModelID != "" {
				o.Model = anthropicsdk.Model(cfg.ModelID)
			}
			o.Temperature = cfg.Temperature
			o.MaxTokens = cfg.MaxTokens
			o.SystemPrompt = cfg.SystemPrompt
			o.Sessions = sessions
			o.Logger = logger
		}), nil
	}
}
