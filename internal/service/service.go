package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cuzimmicah/tmonitor/internal/domain"

	"go.uber.org/zap"
)

// Ошибки конвейера; HTTP-слой переводит их в 401/400
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidPayload = errors.New("no JSON data provided")
)

type Authorizer interface {
	Verify(received string) (bool, string)
}

type Normalizer interface {
	Normalize(payload *domain.WebhookPayload) []domain.ProcessedTweet
}

// TweetSink принимает нормализованный батч: писатель дневного файла
// в standalone-варианте, лог-only sink в serverless
type TweetSink interface {
	Store(ctx context.Context, tweets []domain.ProcessedTweet)
}

// WebhookService прогоняет запрос через конвейер: auth -> parse -> normalize -> sink
type WebhookService struct {
	auth       Authorizer
	normalizer Normalizer
	sink       TweetSink
	logger     *zap.Logger
}

func NewWebhookService(auth Authorizer, normalizer Normalizer, sink TweetSink, logger *zap.Logger) *WebhookService {
	return &WebhookService{
		auth:       auth,
		normalizer: normalizer,
		sink:       sink,
		logger:     logger,
	}
}

// ProcessWebhook обрабатывает один вызов вебхука и возвращает число обработанных твитов.
// Ошибки персистентности сюда не доходят: батч уже принят, сбой записи только логируется.
func (s *WebhookService) ProcessWebhook(ctx context.Context, apiKey string, body []byte) (int, error) {
	ok, reason := s.auth.Verify(apiKey)
	if !ok {
		s.logger.Warn("[WebhookService] Unauthorized webhook request",
			zap.String("reason", reason))
		return 0, ErrUnauthorized
	}

	if len(body) == 0 {
		s.logger.Warn("[WebhookService] Received webhook request with no JSON data")
		return 0, ErrInvalidPayload
	}

	var payload domain.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		s.logger.Warn("[WebhookService] Received webhook request with invalid JSON",
			zap.Error(err))
		return 0, ErrInvalidPayload
	}

	s.logger.Info("[WebhookService] Received valid webhook request",
		zap.String("event_type", payload.EventType),
		zap.String("rule_tag", payload.RuleTag))

	processed := s.normalizer.Normalize(&payload)
	if len(processed) == 0 {
		s.logger.Info("[WebhookService] No tweets to process")
		return 0, nil
	}

	s.sink.Store(ctx, processed)

	return len(processed), nil
}
