package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/logger"
)

// AuditWriterConfig holds configuration for the audit writer.
type AuditWriterConfig struct {
	// BufferSize is the capacity of the entry queue. Entries beyond it are dropped.
	BufferSize int
	// BatchSize flushes a batch once it holds this many entries.
	BatchSize int
	// FlushInterval flushes a partial batch after this long.
	FlushInterval time.Duration
	// WriteTimeout bounds each batch write.
	WriteTimeout time.Duration
}

// DefaultAuditWriterConfig returns sensible defaults for the audit writer.
func DefaultAuditWriterConfig() AuditWriterConfig {
	return AuditWriterConfig{
		BufferSize:    1000,
		BatchSize:     50,
		FlushInterval: time.Second,
		WriteTimeout:  5 * time.Second,
	}
}

// AuditWriter queues audit entries and writes them in batches on one goroutine,
// so request paths never wait on the log store.
type AuditWriter struct {
	svc     LoggingService
	cfg     AuditWriterConfig
	entryCh chan *model.LogEntry
	stopCh  chan struct{}
	done    chan struct{}
	once    sync.Once

	enqueued int64
	dropped  int64
	written  int64
	errors   int64
}

// NewAuditWriter starts a writer over svc. It returns nil when svc is nil;
// a nil writer accepts and discards entries.
func NewAuditWriter(svc LoggingService, cfg AuditWriterConfig) *AuditWriter {
	if svc == nil {
		return nil
	}
	defaults := DefaultAuditWriterConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaults.BufferSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = defaults.FlushInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}

	w := &AuditWriter{
		svc:     svc,
		cfg:     cfg,
		entryCh: make(chan *model.LogEntry, cfg.BufferSize),
		stopCh:  make(chan struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Log enqueues entry. It reports false when the queue is full or the writer stopped.
func (w *AuditWriter) Log(entry *model.LogEntry) bool {
	if w == nil {
		return false
	}
	select {
	case <-w.stopCh:
		atomic.AddInt64(&w.dropped, 1)
		return false
	default:
	}

	select {
	case w.entryCh <- entry:
		atomic.AddInt64(&w.enqueued, 1)
		return true
	default:
		atomic.AddInt64(&w.dropped, 1)
		return false
	}
}

// Stop flushes queued entries and stops the writer. Safe to call more than once.
func (w *AuditWriter) Stop() {
	if w == nil {
		return
	}
	w.once.Do(func() {
		close(w.stopCh)
		<-w.done
	})
}

// Stats returns writer counters.
func (w *AuditWriter) Stats() (enqueued, dropped, written, errors int64) {
	if w == nil {
		return 0, 0, 0, 0
	}
	return atomic.LoadInt64(&w.enqueued),
		atomic.LoadInt64(&w.dropped),
		atomic.LoadInt64(&w.written),
		atomic.LoadInt64(&w.errors)
}

func (w *AuditWriter) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]*model.LogEntry, 0, w.cfg.BatchSize)
	for {
		select {
		case entry := <-w.entryCh:
			batch = append(batch, entry)
			if len(batch) >= w.cfg.BatchSize {
				batch = w.flush(batch)
			}
		case <-ticker.C:
			batch = w.flush(batch)
		case <-w.stopCh:
			for {
				select {
				case entry := <-w.entryCh:
					batch = append(batch, entry)
					if len(batch) >= w.cfg.BatchSize {
						batch = w.flush(batch)
					}
				default:
					w.flush(batch)
					return
				}
			}
		}
	}
}

func (w *AuditWriter) flush(batch []*model.LogEntry) []*model.LogEntry {
	if len(batch) == 0 {
		return batch
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.WriteTimeout)
	defer cancel()

	if err := w.svc.CreateLogs(ctx, batch); err != nil {
		atomic.AddInt64(&w.errors, int64(len(batch)))
		log := logger.Logger()
		log.Warn().Err(err).Int("entries", len(batch)).Msg("Failed to write audit batch")
	} else {
		atomic.AddInt64(&w.written, int64(len(batch)))
	}
	return make([]*model.LogEntry, 0, w.cfg.BatchSize)
}
