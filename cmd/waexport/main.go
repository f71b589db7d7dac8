package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mosesoghene/whats-app-group-export/internal/browser"
	"github.com/mosesoghene/whats-app-group-export/internal/config"
	"github.com/mosesoghene/whats-app-group-export/internal/handlers"
	"github.com/mosesoghene/whats-app-group-export/internal/selector"
	"github.com/mosesoghene/whats-app-group-export/internal/session"
)

var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("waexport %s\n", version)
		os.Exit(0)
	}

	if len(os.Args) > 1 && os.Args[1] == "config" {
		config.HandleConfigCommand(cfg)
		os.Exit(0)
	}

	if err := os.MkdirAll(cfg.StateDir, 0755); err != nil {
		slog.Error("cannot create state dir", "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		slog.Error("cannot create output dir", "err", err)
		os.Exit(1)
	}

	b, err := browser.Init(cfg)
	if err != nil {
		slog.Warn("chrome startup failed, retrying once", "err", err)
		time.Sleep(time.Second)
		b, err = browser.Init(cfg)
		if err != nil {
			slog.Error("chrome failed to start after retry",
				"err", err,
				"hint", "set WAEX_CDP_URL to attach to a running browser, or delete the profile directory",
				"profile", cfg.ProfileDir,
			)
			os.Exit(1)
		}
		slog.Info("chrome started on retry")
	}

	sess := session.New(b, selector.Default(), cfg)

	mux := http.NewServeMux()
	h := handlers.New(sess, b, cfg)

	var srv *http.Server
	shutdownOnce := &sync.Once{}
	doShutdown := func() {
		shutdownOnce.Do(func() {
			slog.Info("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if srv != nil {
				_ = srv.Shutdown(ctx)
			}
			b.Close()
			slog.Info("chrome closed")
		})
	}

	h.RegisterRoutes(mux, doShutdown)

	handler := handlers.RequestIDMiddleware(
		handlers.LoggingMiddleware(
			handlers.RateLimitMiddleware(
				handlers.CorsMiddleware(
					handlers.AuthMiddleware(cfg, mux)))))

	srv = &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	setupSignalHandler(doShutdown, func() {
		b.Close()
	})

	slog.Info("waexport listening", "addr", cfg.ListenAddr(), "cdp", cfg.CdpURL, "output", cfg.OutputDir)
	if cfg.Token != "" {
		slog.Info("auth enabled", "token", config.MaskToken(cfg.Token))
	} else {
		slog.Info("auth disabled (set WAEX_TOKEN to enable)")
	}

	go runStartupHealthCheck(cfg)

	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("server", "err", err)
		os.Exit(1)
	}
}

func setupSignalHandler(shutdownFn func(), forceFn func()) {
	go func() {
		sig := make(chan os.Signal, 2)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		go shutdownFn()
		<-sig
		slog.Warn("force shutdown requested")
		forceFn()
		os.Exit(130)
	}()
}

func runStartupHealthCheck(cfg *config.RuntimeConfig) {
	time.Sleep(500 * time.Millisecond)
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%s/health", cfg.Port))
	if err != nil {
		slog.Error("startup health check failed", "err", err)
		return
	}
	_ = resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		slog.Info("startup health check passed")
	} else {
		slog.Warn("startup health check unexpected status", "status", resp.StatusCode)
	}
}
