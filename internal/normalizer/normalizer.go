package normalizer

import (
	"encoding/json"
	"time"

	"github.com/cuzimmicah/tmonitor/internal/domain"
	"github.com/cuzimmicah/tmonitor/pkg/utils"

	"go.uber.org/zap"
)

// Normalizer приводит сырой батч провайдера к стабильной внутренней записи.
// При stampProcessedAt каждой записи проставляется время обработки (serverless-вариант).
type Normalizer struct {
	logger           *zap.Logger
	stampProcessedAt bool
}

func NewNormalizer(logger *zap.Logger, stampProcessedAt bool) *Normalizer {
	return &Normalizer{
		logger:           logger,
		stampProcessedAt: stampProcessedAt,
	}
}

// Normalize разворачивает батч в записи, сохраняя порядок твитов.
// Отсутствующие поля деградируют в значения по умолчанию, а не в ошибку.
// Битая запись пропускается с логом, остальной батч выживает.
func (n *Normalizer) Normalize(payload *domain.WebhookPayload) []domain.ProcessedTweet {
	n.logger.Info("[Normalizer] Processing tweets",
		zap.Int("count", len(payload.Tweets)),
		zap.String("rule_tag", payload.RuleTag),
		zap.String("rule_id", payload.RuleID))

	ruleInfo := domain.RuleInfo{
		RuleID:  payload.RuleID,
		RuleTag: payload.RuleTag,
	}

	processed := make([]domain.ProcessedTweet, 0, len(payload.Tweets))
	for i, raw := range payload.Tweets {
		var tweet domain.Tweet
		if err := json.Unmarshal(raw, &tweet); err != nil {
			n.logger.Error("[Normalizer] Skipping malformed tweet entry",
				zap.Int("index", i),
				zap.String("rule_tag", payload.RuleTag),
				zap.Error(err))
			continue
		}

		record := domain.ProcessedTweet{
			ID:        tweet.ID,
			Text:      tweet.Text,
			CreatedAt: tweet.CreatedAt,
			Metrics: domain.Metrics{
				RetweetCount: tweet.RetweetCount,
				LikeCount:    tweet.LikeCount,
				ReplyCount:   tweet.ReplyCount,
			},
			RuleInfo: ruleInfo,
		}

		// Отсутствующий author даёт три null-поля, а не ошибку
		if tweet.Author != nil {
			record.Author = *tweet.Author
		}

		if n.stampProcessedAt {
			now := time.Now().Format(time.RFC3339)
			record.ProcessedAt = &now
		}

		processed = append(processed, record)

		var username string
		if record.Author.Username != nil {
			username = *record.Author.Username
		}
		n.logger.Info("[Normalizer] Tweet received",
			zap.String("username", username),
			zap.String("preview", utils.Truncate(record.Text, 100)))
	}

	return processed
}
