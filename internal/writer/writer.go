package writer

import (
	"context"
	"sync"
	"time"

	"github.com/cuzimmicah/tmonitor/internal/domain"
	"github.com/cuzimmicah/tmonitor/internal/metrics"

	"go.uber.org/zap"
)

type TweetStore interface {
	Append(ctx context.Context, tweets []domain.ProcessedTweet) (int, error)
}

// Writer выступает единственным писателем дневного файла.
// Батчи из запросов складываются в очередь и пишутся одной горутиной,
// поэтому перезаписи файла в пределах дня не гонятся между собой.
type Writer struct {
	store  TweetStore
	queue  chan []domain.ProcessedTweet
	logger *zap.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewWriter(store TweetStore, queueSize int, logger *zap.Logger) *Writer {
	return &Writer{
		store:  store,
		queue:  make(chan []domain.ProcessedTweet, queueSize),
		logger: logger,
	}
}

// Store ставит батч в очередь, не блокируя запрос.
// При переполненной очереди батч отбрасывается с предупреждением.
func (w *Writer) Store(ctx context.Context, tweets []domain.ProcessedTweet) {
	select {
	case w.queue <- tweets:
		metrics.WriterBatchesReceived.Inc()
	default:
		metrics.WriterBatchesDropped.Inc()
		w.logger.Warn("[Writer] Queue full, dropping batch",
			zap.Int("count", len(tweets)))
	}
}

func (w *Writer) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		w.logger.Debug("[Writer] Started")

		for {
			select {
			case batch, ok := <-w.queue:
				if !ok {
					w.logger.Info("[Writer] Queue closed, exiting")
					return
				}

				startTime := time.Now()

				count, err := w.store.Append(ctx, batch)
				if err != nil {
					// Батч отбрасывается: без ретраев, только лог
					metrics.WriterBatchesFailed.Inc()
					w.logger.Error("[Writer] Failed to persist batch",
						zap.Int("count", len(batch)),
						zap.String("rule_tag", ruleTag(batch)),
						zap.Error(err))
					continue
				}

				metrics.WriterTweetsPersisted.Add(float64(count))
				metrics.WriterBatchProcessingTime.Observe(time.Since(startTime).Seconds())

				w.logger.Info("[Writer] Batch persisted",
					zap.Int("count", count),
					zap.String("rule_tag", ruleTag(batch)),
					zap.Duration("processing_time", time.Since(startTime)))

			case <-ctx.Done():
				w.logger.Info("[Writer] Context cancelled, exiting")
				return
			}
		}
	}()
}

// Stop закрывает очередь; новые батчи после этого не принимаются
func (w *Writer) Stop() {
	w.closeOnce.Do(func() {
		close(w.queue)
	})
}

// Wait блокируется до завершения пишущей горутины
func (w *Writer) Wait() {
	w.wg.Wait()
}

func ruleTag(batch []domain.ProcessedTweet) string {
	if len(batch) == 0 {
		return ""
	}
	return batch[0].RuleInfo.RuleTag
}
