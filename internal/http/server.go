package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cuzimmicah/tmonitor/internal/auth"
	"github.com/cuzimmicah/tmonitor/internal/metrics"
	"github.com/cuzimmicah/tmonitor/internal/service"
	"github.com/cuzimmicah/tmonitor/pkg/utils"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type WebhookProcessor interface {
	ProcessWebhook(ctx context.Context, apiKey string, body []byte) (int, error)
}

// StatsProvider отдаёт данные для /stats; в serverless-варианте отсутствует
type StatsProvider interface {
	CountToday(ctx context.Context) (int, bool, error)
	TodayFilename() string
}

// Options описывает различия между standalone и serverless вариантами
type Options struct {
	Addr             string
	Prefix           string // "" для standalone, "/api" для serverless
	ServiceName      string // имя сервиса в /health
	StampTimestamps  bool   // добавлять timestamp в ответы вебхука (serverless)
	APIKeyConfigured *bool  // поле api_key_configured в /health (serverless)
}

type HTTPServer struct {
	server  *http.Server
	opts    Options
	service WebhookProcessor
	stats   StatsProvider
	logger  *zap.Logger
}

func NewHTTPServer(opts Options, webhookService WebhookProcessor, stats StatsProvider, logger *zap.Logger) *HTTPServer {
	router := mux.NewRouter()

	s := &HTTPServer{
		server: &http.Server{
			Addr:    opts.Addr,
			Handler: router,
		},
		opts:    opts,
		service: webhookService,
		stats:   stats,
		logger:  logger,
	}

	router.Use(s.recoveryMiddleware)
	router.Use(s.metricsMiddleware)
	router.Use(s.loggingMiddleware)

	router.HandleFunc(opts.Prefix+"/webhook", s.handleWebhook).Methods("POST")
	router.HandleFunc(opts.Prefix+"/health", s.handleHealth).Methods("GET")

	// /stats и /metrics есть только у standalone-варианта
	if stats != nil {
		router.HandleFunc(opts.Prefix+"/stats", s.handleStats).Methods("GET")
		router.Handle(opts.Prefix+"/metrics", promhttp.Handler()).Methods("GET")
	}

	return s
}

func (s *HTTPServer) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler отдаёт корневой обработчик; нужен serverless-адаптеру
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// responseWriter для отслеживания статус кода и размера
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// middleware верхнего уровня: паника в обработчике превращается в общий 500
// без утечки деталей наружу
func (s *HTTPServer) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("Panic in handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path))
				s.writeJSON(w, http.StatusInternalServerError, s.errorBody("Internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// middleware для сбора метрик HTTP запросов с использованием шаблона пути
func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		method := r.Method
		status := strconv.Itoa(rw.statusCode)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		metrics.HTTPRequests.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
		metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(rw.size))
	})
}

// middleware для логирования HTTP запросов
func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.logger.Info("HTTP request",
			zap.String("request_id", utils.NewUUID().String()),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("ip", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()),
			zap.Int("status", rw.statusCode),
			zap.Int("response_size", rw.size),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type webhookResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	TweetsCount int    `json:"tweets_count"`
	Timestamp   string `json:"timestamp,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp,omitempty"`
}

type healthResponse struct {
	Status           string `json:"status"`
	Timestamp        string `json:"timestamp"`
	Service          string `json:"service"`
	APIKeyConfigured *bool  `json:"api_key_configured,omitempty"`
}

type statsResponse struct {
	TweetsToday int    `json:"tweets_today"`
	LastUpdated string `json:"last_updated"`
	File        string `json:"file,omitempty"`
	Message     string `json:"message,omitempty"`
}

func (s *HTTPServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error("Failed to read request body", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, s.errorBody("Internal server error"))
		return
	}

	count, err := s.service.ProcessWebhook(r.Context(), r.Header.Get(auth.HeaderName), body)
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		s.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
	case errors.Is(err, service.ErrInvalidPayload):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No JSON data provided"})
	case err != nil:
		s.logger.Error("Error in webhook handler", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, s.errorBody("Internal server error"))
	default:
		message := "No tweets to process"
		if count > 0 {
			message = fmt.Sprintf("Processed %d tweets", count)
		}

		resp := webhookResponse{
			Status:      "success",
			Message:     message,
			TweetsCount: count,
		}
		if s.opts.StampTimestamps {
			resp.Timestamp = time.Now().Format(time.RFC3339)
		}
		s.writeJSON(w, http.StatusOK, resp)
	}
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		Timestamp:        time.Now().Format(time.RFC3339),
		Service:          s.opts.ServiceName,
		APIKeyConfigured: s.opts.APIKeyConfigured,
	})
}

func (s *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	count, exists, err := s.stats.CountToday(r.Context())
	if err != nil {
		s.logger.Error("Error getting stats", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Error retrieving stats"})
		return
	}

	resp := statsResponse{
		TweetsToday: count,
		LastUpdated: time.Now().Format(time.RFC3339),
	}
	if exists {
		resp.File = s.stats.TodayFilename()
	} else {
		resp.Message = "No tweets received today"
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) errorBody(message string) errorResponse {
	resp := errorResponse{Error: message}
	if s.opts.StampTimestamps {
		resp.Timestamp = time.Now().Format(time.RFC3339)
	}
	return resp
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
