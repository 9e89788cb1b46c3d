// Package handler реализует serverless-адаптер для Vercel.
// Та же логика вебхука, что и у standalone-сервера, но без персистентности:
// маршруты монтируются под /api, батчи только логируются.
package handler

import (
	"net/http"
	"sync"

	"github.com/cuzimmicah/tmonitor/internal/auth"
	"github.com/cuzimmicah/tmonitor/internal/config"
	apphttp "github.com/cuzimmicah/tmonitor/internal/http"
	applogger "github.com/cuzimmicah/tmonitor/internal/logger"
	"github.com/cuzimmicah/tmonitor/internal/normalizer"
	"github.com/cuzimmicah/tmonitor/internal/service"

	"go.uber.org/zap"
)

var (
	once sync.Once
	app  http.Handler
)

// Handler служит точкой входа serverless-рантайма
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		app = newApp(config.LoadConfig())
	})
	app.ServeHTTP(w, r)
}

// newApp собирает лог-only вариант сервиса.
// Отсутствие секрета здесь не фатально: процессом управляет платформа,
// поэтому верификатор просто отклоняет каждый запрос как неавторизованный.
func newApp(cfg *config.Config) http.Handler {
	logger, err := applogger.NewLogger(cfg.LogLevel)
	if err != nil {
		logger = zap.NewNop()
	}

	verifier := auth.NewVerifier(cfg.APIKey)
	norm := normalizer.NewNormalizer(logger, true) // serverless проставляет processed_at
	sink := service.NewLogSink(logger)
	webhookService := service.NewWebhookService(verifier, norm, sink, logger)

	keyConfigured := cfg.APIKey != ""

	server := apphttp.NewHTTPServer(apphttp.Options{
		Prefix:           "/api",
		ServiceName:      "TwitterAPI Monitor (Vercel)",
		StampTimestamps:  true,
		APIKeyConfigured: &keyConfigured,
	}, webhookService, nil, logger)

	return server.Handler()
}
