package service

import (
	"context"

	"github.com/cuzimmicah/tmonitor/internal/domain"

	"go.uber.org/zap"
)

// LogSink реализует sink serverless-варианта: батч только логируется, без персистентности
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Store(ctx context.Context, tweets []domain.ProcessedTweet) {
	s.logger.Info("[LogSink] Successfully processed tweets",
		zap.Int("count", len(tweets)),
		zap.String("rule_tag", ruleTag(tweets)))
}

func ruleTag(tweets []domain.ProcessedTweet) string {
	if len(tweets) == 0 {
		return ""
	}
	return tweets[0].RuleInfo.RuleTag
}
