package service

import (
	"context"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoggingService persists audit entries for carts, checkouts and catalog
// writes, and answers the admin audit query.
type LoggingService interface {
	CreateLog(ctx context.Context, entry *model.LogEntry) error
	CreateLogs(ctx context.Context, entries []*model.LogEntry) error
	QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error)
	CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error)
}

type mongoLoggingService struct {
	repo repository.LogsRepositoryInterface
}

// NewLoggingService returns a LoggingService backed by repo.
func NewLoggingService(repo repository.LogsRepositoryInterface) LoggingService {
	return &mongoLoggingService{repo: repo}
}

func (s *mongoLoggingService) CreateLog(ctx context.Context, entry *model.LogEntry) error {
	return s.repo.Create(ctx, toLogDocument(entry, time.Now()))
}

// CreateLogs writes a batch in one round trip. Entries share the batch time
// unless they carry their own.
func (s *mongoLoggingService) CreateLogs(ctx context.Context, entries []*model.LogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	now := time.Now()
	batch := make([]*repository.LogEntryDocument, 0, len(entries))
	for _, entry := range entries {
		batch = append(batch, toLogDocument(entry, now))
	}
	return s.repo.CreateMany(ctx, batch)
}

func (s *mongoLoggingService) QueryLogs(ctx context.Context, opts model.LogQueryOptions) ([]model.LogEntry, error) {
	found, err := s.repo.Query(ctx, opts)
	if err != nil {
		return nil, err
	}

	entries := make([]model.LogEntry, 0, len(found))
	for _, doc := range found {
		entries = append(entries, fromLogDocument(doc))
	}
	return entries, nil
}

func (s *mongoLoggingService) CountLogs(ctx context.Context, opts model.LogQueryOptions) (int64, error) {
	return s.repo.Count(ctx, opts)
}

// toLogDocument assigns an ID and timestamp to entries that lack them.
func toLogDocument(entry *model.LogEntry, now time.Time) *repository.LogEntryDocument {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = now
	}

	return &repository.LogEntryDocument{
		ID:         entry.ID,
		Timestamp:  entry.Timestamp,
		Level:      entry.Level,
		Message:    entry.Message,
		RequestID:  entry.RequestID,
		SessionID:  entry.SessionID,
		ActionType: entry.ActionType,
		ProductID:  entry.ProductID,
		ItemCount:  entry.ItemCount,
		Total:      entry.Total,
		Version:    entry.Version,
		Error:      entry.Error,
		Fields:     entry.Fields,
	}
}

func fromLogDocument(doc *repository.LogEntryDocument) model.LogEntry {
	return model.LogEntry{
		ID:         doc.ID,
		Timestamp:  doc.Timestamp,
		Level:      doc.Level,
		Message:    doc.Message,
		RequestID:  doc.RequestID,
		SessionID:  doc.SessionID,
		ActionType: doc.ActionType,
		ProductID:  doc.ProductID,
		ItemCount:  doc.ItemCount,
		Total:      doc.Total,
		Version:    doc.Version,
		Error:      doc.Error,
		Fields:     doc.Fields,
	}
}
