package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderLineDocument is the stored form of an order line.
type OrderLineDocument struct {
	ProductID   string               `bson:"product_id"`
	ProductName string               `bson:"product_name"`
	ProductType string               `bson:"product_type,omitempty"`
	PosterSize  string               `bson:"poster_size,omitempty"`
	UnitPrice   primitive.Decimal128 `bson:"unit_price"`
	Quantity    int                  `bson:"quantity"`
	Subtotal    primitive.Decimal128 `bson:"subtotal"`
}

// OrderDocument is the stored form of an order.
type OrderDocument struct {
	ID            string               `bson:"_id"`
	SessionID     string               `bson:"session_id"`
	CustomerEmail string               `bson:"customer_email"`
	Notes         string               `bson:"notes,omitempty"`
	Lines         []OrderLineDocument  `bson:"lines"`
	Total         primitive.Decimal128 `bson:"total"`
	ItemCount     int                  `bson:"item_count"`
	Status        string               `bson:"status"`
	CreatedAt     time.Time            `bson:"created_at"`
}

// MongoOrderRepository stores orders in the orders collection.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

// NewMongoOrderRepository creates an order repository over db.Orders.
func NewMongoOrderRepository(db *MongoDB) *MongoOrderRepository {
	return &MongoOrderRepository{collection: db.Orders}
}

// Create inserts order. The caller assigns the id.
func (r *MongoOrderRepository) Create(ctx context.Context, order *model.Order) error {
	doc, err := orderToDocument(order)
	if err != nil {
		return err
	}
	_, err = r.collection.InsertOne(ctx, doc)
	return err
}

// Get returns the order with id or ErrNotFound.
func (r *MongoOrderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	var doc OrderDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel()
}

// ListBySession returns a session's orders, newest first.
func (r *MongoOrderRepository) ListBySession(ctx context.Context, sessionID string, limit int) ([]model.Order, error) {
	findOptions := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"session_id": sessionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []OrderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	orders := make([]model.Order, 0, len(docs))
	for i := range docs {
		o, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

func orderToDocument(o *model.Order) (*OrderDocument, error) {
	total, err := toDecimal128(o.Total)
	if err != nil {
		return nil, fmt.Errorf("order total: %w", err)
	}

	doc := &OrderDocument{
		ID:            o.ID,
		SessionID:     o.SessionID,
		CustomerEmail: o.CustomerEmail,
		Notes:         o.Notes,
		Lines:         make([]OrderLineDocument, 0, len(o.Lines)),
		Total:         total,
		ItemCount:     o.ItemCount,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
	for _, line := range o.Lines {
		unit, err := toDecimal128(line.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("line %s unit price: %w", line.ProductID, err)
		}
		subtotal, err := toDecimal128(line.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("line %s subtotal: %w", line.ProductID, err)
		}
		doc.Lines = append(doc.Lines, OrderLineDocument{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ProductType: string(line.ProductType),
			PosterSize:  line.PosterSize,
			UnitPrice:   unit,
			Quantity:    line.Quantity,
			Subtotal:    subtotal,
		})
	}
	return doc, nil
}

func (d *OrderDocument) toModel() (*model.Order, error) {
	total, err := fromDecimal128(d.Total)
	if err != nil {
		return nil, fmt.Errorf("order %s total: %w", d.ID, err)
	}

	o := &model.Order{
		ID:            d.ID,
		SessionID:     d.SessionID,
		CustomerEmail: d.CustomerEmail,
		Notes:         d.Notes,
		Lines:         make([]model.OrderLine, 0, len(d.Lines)),
		Total:         total,
		ItemCount:     d.ItemCount,
		Status:        model.OrderStatus(d.Status),
		CreatedAt:     d.CreatedAt,
	}
	for _, line := range d.Lines {
		unit, err := fromDecimal128(line.UnitPrice)
		if err != nil {
			return nil, err
		}
		subtotal, err := fromDecimal128(line.Subtotal)
		if err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, model.OrderLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ProductType: model.ProductType(line.ProductType),
			PosterSize:  line.PosterSize,
			UnitPrice:   unit,
			Quantity:    line.Quantity,
			Subtotal:    subtotal,
		})
	}
	return o, nil
}
