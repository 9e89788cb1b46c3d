package writer

import (
	"context"
	"testing"
	"time"

	"github.com/cuzimmicah/tmonitor/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Append(ctx context.Context, tweets []domain.ProcessedTweet) (int, error) {
	args := m.Called(ctx, tweets)
	return args.Int(0), args.Error(1)
}

func batch(texts ...string) []domain.ProcessedTweet {
	tweets := make([]domain.ProcessedTweet, 0, len(texts))
	for _, text := range texts {
		tweets = append(tweets, domain.ProcessedTweet{
			Text:     text,
			RuleInfo: domain.RuleInfo{RuleID: "r1", RuleTag: "demo"},
		})
	}
	return tweets
}

func TestWriter_PersistsQueuedBatches(t *testing.T) {
	mockStore := new(MockStore)
	logger, _ := zap.NewDevelopment()
	w := NewWriter(mockStore, 10, logger)

	batch1 := batch("a", "b")
	batch2 := batch("c")

	done := make(chan struct{}, 2)
	mockStore.On("Append", mock.Anything, batch1).Return(2, nil).Run(func(mock.Arguments) { done <- struct{}{} })
	mockStore.On("Append", mock.Anything, batch2).Return(1, nil).Run(func(mock.Arguments) { done <- struct{}{} })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	w.Start(ctx)
	w.Store(ctx, batch1)
	w.Store(ctx, batch2)

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for store calls")
		}
	}

	w.Stop()
	w.Wait()
	mockStore.AssertExpectations(t)
}

func TestWriter_DropsBatchWhenQueueFull(t *testing.T) {
	mockStore := new(MockStore)
	logger, _ := zap.NewDevelopment()
	w := NewWriter(mockStore, 1, logger)

	first := batch("kept")
	second := batch("dropped")

	// Писатель ещё не запущен: второй батч не влезает в очередь и отбрасывается
	w.Store(context.Background(), first)
	w.Store(context.Background(), second)

	mockStore.On("Append", mock.Anything, first).Return(1, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	w.Start(ctx)
	w.Stop()
	w.Wait()

	mockStore.AssertNumberOfCalls(t, "Append", 1)
	mockStore.AssertCalled(t, "Append", mock.Anything, first)
}

func TestWriter_ContinuesAfterStoreError(t *testing.T) {
	mockStore := new(MockStore)
	logger, _ := zap.NewDevelopment()
	w := NewWriter(mockStore, 10, logger)

	failing := batch("fails")
	ok := batch("succeeds")

	w.Store(context.Background(), failing)
	w.Store(context.Background(), ok)

	mockStore.On("Append", mock.Anything, failing).Return(0, assert.AnError)
	mockStore.On("Append", mock.Anything, ok).Return(1, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	w.Start(ctx)
	w.Stop()
	w.Wait()

	mockStore.AssertExpectations(t)
}
