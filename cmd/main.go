package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cat-eye-locator/config"
	"cat-eye-locator/internal/api/telegram"
	"cat-eye-locator/internal/api/web"
	"cat-eye-locator/internal/container"
	"cat-eye-locator/internal/infrastructure/storage"
	"cat-eye-locator/internal/infrastructure/vision"
	"cat-eye-locator/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Модель загружается один раз и общая для всех запросов
	detector, err := vision.Load(ctx, cfg, logr)
	if err != nil {
		logr.WithError(err).Fatal("Failed to load detector")
	}
	defer detector.Close()

	sessionRepo := storage.NewMemorySessionRepository()
	appContainer := container.New(sessionRepo, detector, logr)

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, logr)
		if err != nil {
			logr.WithError(err).Fatal("Failed to create bot")
		}
		go func() {
			if err := bot.Run(ctx); err != nil {
				logr.WithError(err).Error("Bot error")
			}
		}()
	}

	handler := web.NewHandler(appContainer.LocatorService, logr)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logr.WithError(err).Error("Server shutdown")
		}
	}()

	logr.WithField("port", cfg.Port).Info("Server is running")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logr.WithError(err).Fatal("Server error")
	}
}
