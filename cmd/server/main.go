package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/brgarcias/apartment-gift-list/internal/app"
	"github.com/brgarcias/apartment-gift-list/internal/config"
	"github.com/brgarcias/apartment-gift-list/internal/logger"
)

func main() {
	logger.Init()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize app", map[string]any{
			"error": err.Error(),
		})
	}

	go func() {
		logger.Info("server listening", map[string]any{
			"port": cfg.AppPort,
		})
		if err := application.Run(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	logger.Info("server stopped", nil)
}
