package service

import (
	"context"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/logger"
	"github.com/guttosm/cart-service/internal/metrics"
)

// MetricsObserver records cart sizes.
func MetricsObserver() CartObserver {
	return func(_ string, cart model.Cart) {
		metrics.ObserveCartSize(cart.ItemCount())
	}
}

// EventObserver publishes every cart change. Publish failures are logged.
func EventObserver(publisher EventPublisher, timeout time.Duration) CartObserver {
	return func(sessionID string, cart model.Cart) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := publisher.PublishCartUpdated(ctx, sessionID, cart); err != nil {
			log := logger.Logger()
			log.Warn().Err(err).Str("session_id", sessionID).Uint64("version", cart.Version).Msg("Failed to publish cart update")
		}
	}
}

// AuditObserver queues an audit entry for every cart change.
func AuditObserver(writer *AuditWriter) CartObserver {
	return func(sessionID string, cart model.Cart) {
		writer.Log(&model.LogEntry{
			Timestamp:  cart.UpdatedAt,
			Level:      "info",
			Message:    "cart changed",
			SessionID:  sessionID,
			ActionType: model.ActionCartChanged,
			ItemCount:  cart.ItemCount(),
			Total:      cart.Total.String(),
			Version:    cart.Version,
		})
	}
}
