package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP метрики
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_size_bytes",
		Help:    "HTTP response size in bytes",
		Buckets: prometheus.ExponentialBuckets(100, 10, 5),
	}, []string{"method", "path"})

	// Метрики файлового хранилища
	StoreOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_operation_duration_seconds",
		Help:    "Daily file store operation duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// Метрики писателя
	WriterBatchesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "writer_batches_received_total",
		Help: "Total number of tweet batches accepted by the writer queue",
	})

	WriterBatchesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "writer_batches_dropped_total",
		Help: "Total number of tweet batches dropped because the queue was full",
	})

	WriterBatchesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "writer_batches_failed_total",
		Help: "Total number of tweet batches that failed to persist",
	})

	WriterTweetsPersisted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "writer_tweets_persisted_total",
		Help: "Total number of tweets written to daily files",
	})

	WriterBatchProcessingTime = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "writer_batch_processing_seconds",
		Help:    "Histogram of batch persistence durations",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // от 1ms до ~16 секунд
	})
)
