package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuzimmicah/tmonitor/internal/auth"
	"github.com/cuzimmicah/tmonitor/internal/config"
	apphttp "github.com/cuzimmicah/tmonitor/internal/http"
	applogger "github.com/cuzimmicah/tmonitor/internal/logger"
	"github.com/cuzimmicah/tmonitor/internal/normalizer"
	"github.com/cuzimmicah/tmonitor/internal/repository/file"
	"github.com/cuzimmicah/tmonitor/internal/service"
	"github.com/cuzimmicah/tmonitor/internal/writer"

	"go.uber.org/zap"
)

func main() {
	// Отменяемый контекст для всего приложения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.LoadConfig()

	logger, err := applogger.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			log.Printf("Error during logger sync: %v", err)
		}
	}()

	// Без секрета standalone-сервер не стартует
	if cfg.APIKey == "" {
		logger.Error("TWITTER_API_KEY not found in environment variables")
		os.Exit(1)
	}

	logger.Info("Starting TwitterAPI.io Webhook Monitor",
		zap.String("addr", net.JoinHostPort(cfg.Host, cfg.Port)))
	logger.Info("Available endpoints: POST /webhook, GET /health, GET /stats, GET /metrics")

	// Хранилище дневных файлов
	repo := file.NewTweetRepository(cfg.DataDir, logger)

	// Единственный писатель: сериализует перезаписи дневного файла
	tweetWriter := writer.NewWriter(repo, cfg.QueueSize, logger)
	tweetWriter.Start(ctx)

	verifier := auth.NewVerifier(cfg.APIKey)
	norm := normalizer.NewNormalizer(logger, false)
	webhookService := service.NewWebhookService(verifier, norm, tweetWriter, logger)

	httpServer := apphttp.NewHTTPServer(apphttp.Options{
		Addr:        net.JoinHostPort(cfg.Host, cfg.Port),
		ServiceName: "TwitterAPI Monitor",
	}, webhookService, repo, logger)

	go func() {
		if err := httpServer.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", zap.Error(err))
			return
		}
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	// Graceful shutdown: сначала перестаём принимать запросы,
	// потом даём писателю дописать очередь
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	tweetWriter.Stop()
	tweetWriter.Wait()
	cancel()

	logger.Info("TwitterAPI.io Webhook Monitor stopped")
}
