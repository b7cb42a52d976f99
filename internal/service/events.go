package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/metrics"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
)

// Event subjects, relative to the configured prefix.
const (
	SubjectCartUpdated  = "cart.updated"
	SubjectOrderCreated = "order.created"
)

// EventPublisher announces cart and order changes to other services.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, sessionID string, cart model.Cart) error
	PublishOrderCreated(ctx context.Context, order *model.Order) error
	Close() error
}

// CartUpdatedEvent is the payload of SubjectCartUpdated.
type CartUpdatedEvent struct {
	SessionID string          `json:"session_id"`
	Version   uint64          `json:"version"`
	ItemCount int             `json:"item_count"`
	LineCount int             `json:"line_count"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderCreatedEvent is the payload of SubjectOrderCreated.
type OrderCreatedEvent struct {
	OrderID       string          `json:"order_id"`
	SessionID     string          `json:"session_id"`
	CustomerEmail string          `json:"customer_email"`
	ItemCount     int             `json:"item_count"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NATSConn is the subset of *nats.Conn used for publishing.
type NATSConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher publishes JSON events on NATS core subjects.
type NATSPublisher struct {
	conn   NATSConn
	prefix string
}

// NewNATSPublisher creates a publisher writing to "<prefix>.<subject>".
func NewNATSPublisher(conn NATSConn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// ConnectNATS dials url with reconnects enabled.
func ConnectNATS(url, name string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
}

// PublishCartUpdated publishes a cart summary.
func (p *NATSPublisher) PublishCartUpdated(ctx context.Context, sessionID string, cart model.Cart) error {
	return p.publish(ctx, SubjectCartUpdated, CartUpdatedEvent{
		SessionID: sessionID,
		Version:   cart.Version,
		ItemCount: cart.ItemCount(),
		LineCount: cart.LineCount(),
		Total:     cart.Total,
		UpdatedAt: cart.UpdatedAt,
	})
}

// PublishOrderCreated publishes an order summary.
func (p *NATSPublisher) PublishOrderCreated(ctx context.Context, order *model.Order) error {
	return p.publish(ctx, SubjectOrderCreated, OrderCreatedEvent{
		OrderID:       order.ID,
		SessionID:     order.SessionID,
		CustomerEmail: order.CustomerEmail,
		ItemCount:     order.ItemCount,
		Total:         order.Total,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
	})
}

// Close drains the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

// Subject returns the full subject name for s.
func (p *NATSPublisher) Subject(s string) string {
	if p.prefix == "" {
		return s
	}
	return p.prefix + "." + s
}

func (p *NATSPublisher) publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full := p.Subject(subject)
	data, err := json.Marshal(payload)
	if err == nil {
		err = p.conn.Publish(full, data)
	}
	metrics.RecordEventPublished(full, err)
	return err
}

// NoopPublisher discards events.
type NoopPublisher struct{}

// PublishCartUpdated does nothing.
func (NoopPublisher) PublishCartUpdated(context.Context, string, model.Cart) error { return nil }

// PublishOrderCreated does nothing.
func (NoopPublisher) PublishOrderCreated(context.Context, *model.Order) error { return nil }

// Close does nothing.
func (NoopPublisher) Close() error { return nil }
