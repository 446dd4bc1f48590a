package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/poly-workshop/chat-gateway/internal/application/chatgateway"
	"github.com/poly-workshop/chat-gateway/internal/infrastructure/config"
	"github.com/poly-workshop/chat-gateway/internal/infrastructure/health"
	"github.com/poly-workshop/chat-gateway/internal/infrastructure/llmprovider/cohere"
	"github.com/poly-workshop/chat-gateway/internal/infrastructure/server/httpserver"
	"github.com/poly-workshop/chat-gateway/internal/infrastructure/transport/httpadapter"
	"github.com/poly-workshop/go-webmods/app"
)

func main() {
	// Optional .env for local development; env vars win in deployment.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("load .env failed", "error", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs"
	}
	app.InitWithConfigPath("chat-gateway", configPath)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := cohere.NewProvider(
		cfg.LLM.Providers.Cohere.BaseURL,
		cfg.LLM.Providers.Cohere.APIKey,
		cfg.LLM.Providers.Cohere.Model,
		cfg.LLM.Providers.Cohere.Timeout,
	)
	appSvc := chatgateway.NewService(provider)
	chatSvc := httpadapter.NewChatService(appSvc, cfg.UsageCallback.URL, cfg.UsageCallback.Timeout)

	ready := health.HTTPReadyChecker(nil, cfg.LLM.Providers.Cohere.BaseURL)

	srv, err := httpserver.New(cfg.HTTP.Listen, chatSvc, ready)
	if err != nil {
		slog.Error("create http server failed", "error", err)
		os.Exit(1)
	}

	healthSrv := &http.Server{
		Addr: cfg.Health.Listen,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/livez":
				health.Livez(w, r)
			case "/readyz":
				health.Readyz(ready)(w, r)
			default:
				http.NotFound(w, r)
			}
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- srv.Start(ctx)
	}()
	go func() {
		slog.Info("health listening", "addr", cfg.Health.Listen)
		errCh <- healthSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = healthSrv.Shutdown(shutdownCtx)
		// Both servers send on errCh; wait for the chat server to finish
		// draining in-flight requests before exiting.
		<-errCh
		<-errCh
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
			slog.Error("server exited", "error", err)
			os.Exit(1)
		}
	}
}
