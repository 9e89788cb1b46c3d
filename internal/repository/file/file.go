package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cuzimmicah/tmonitor/internal/domain"
	"github.com/cuzimmicah/tmonitor/internal/metrics"

	"go.uber.org/zap"
)

// TweetRepository хранит нормализованные твиты в файлах tweets_YYYYMMDD.json,
// по одному файлу на календарный день (локальное время сервера).
// Запись устроена как чтение всего файла, дозапись в хвост и полная перезапись;
// mutex сериализует перезапись, rename делает её атомарной для читателей /stats.
type TweetRepository struct {
	dir    string
	mu     sync.Mutex
	logger *zap.Logger
	now    func() time.Time
}

func NewTweetRepository(dir string, logger *zap.Logger) *TweetRepository {
	return &TweetRepository{
		dir:    dir,
		logger: logger,
		now:    time.Now,
	}
}

func (r *TweetRepository) filename(t time.Time) string {
	return filepath.Join(r.dir, fmt.Sprintf("tweets_%s.json", t.Format("20060102")))
}

// TodayFilename возвращает путь дневного файла на текущую дату
func (r *TweetRepository) TodayFilename() string {
	return r.filename(r.now())
}

// Append дописывает записи в конец дневного файла и возвращает число записанных.
// Порядок внутри батча и относительно прежнего содержимого сохраняется.
func (r *TweetRepository) Append(ctx context.Context, tweets []domain.ProcessedTweet) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	start := time.Now()
	defer func() {
		metrics.StoreOperationDuration.WithLabelValues("append").Observe(time.Since(start).Seconds())
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	path := r.filename(r.now())

	existing, err := r.load(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load daily file: %w", err)
	}

	existing = append(existing, tweets...)

	if err := r.write(path, existing); err != nil {
		return 0, fmt.Errorf("failed to write daily file: %w", err)
	}

	r.logger.Info("[TweetRepository] Saved tweets to file",
		zap.Int("count", len(tweets)),
		zap.Int("total", len(existing)),
		zap.String("file", path))

	return len(tweets), nil
}

// CountToday возвращает число твитов в сегодняшнем файле.
// exists=false, если файл ещё не создавался.
func (r *TweetRepository) CountToday(ctx context.Context) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	start := time.Now()
	defer func() {
		metrics.StoreOperationDuration.WithLabelValues("count_today").Observe(time.Since(start).Seconds())
	}()

	r.mu.Lock()
	defer r.mu.Unlock()

	path := r.filename(r.now())
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 0, false, nil
	}

	tweets, err := r.load(path)
	if err != nil {
		return 0, true, err
	}

	return len(tweets), true, nil
}

func (r *TweetRepository) load(path string) ([]domain.ProcessedTweet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var tweets []domain.ProcessedTweet
	if err := json.Unmarshal(data, &tweets); err != nil {
		return nil, err
	}
	return tweets, nil
}

// write пишет во временный файл и подменяет дневной файл через rename,
// чтобы параллельный читатель не увидел недописанный JSON
func (r *TweetRepository) write(path string, tweets []domain.ProcessedTweet) error {
	tmp, err := os.CreateTemp(r.dir, ".tweets-*.json")
	if err != nil {
		return err
	}

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false) // не-ASCII и спецсимволы сохраняются как есть

	if err := enc.Encode(tweets); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
