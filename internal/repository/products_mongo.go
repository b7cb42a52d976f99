package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductDocument is the MongoDB shape of a product. Money is stored as Decimal128.
type ProductDocument struct {
	ID                 string                          `bson:"_id"`
	Name               string                          `bson:"name"`
	Price              primitive.Decimal128            `bson:"price"`
	DiscountPercentage primitive.Decimal128            `bson:"discount_percentage"`
	PosterPricing      map[string]primitive.Decimal128 `bson:"poster_pricing,omitempty"`
	CreatedAt          time.Time                       `bson:"created_at"`
	UpdatedAt          time.Time                       `bson:"updated_at"`
}

// MongoProductRepository stores products in the products collection.
type MongoProductRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewMongoProductRepository creates a product repository over db.Products.
func NewMongoProductRepository(db *MongoDB) *MongoProductRepository {
	return &MongoProductRepository{collection: db.Products, now: time.Now}
}

// Get returns the product with id or ErrNotFound.
func (r *MongoProductRepository) Get(ctx context.Context, id string) (*model.Product, error) {
	var doc ProductDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toModel()
}

// List returns products ordered by name.
func (r *MongoProductRepository) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}})
	if limit > 0 {
		findOptions.SetLimit(int64(limit))
	}
	if offset > 0 {
		findOptions.SetSkip(int64(offset))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []ProductDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(docs))
	for i := range docs {
		p, err := docs[i].toModel()
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

// Upsert inserts or replaces the product, keeping the original creation time.
func (r *MongoProductRepository) Upsert(ctx context.Context, product *model.Product) error {
	doc, err := productToDocument(product)
	if err != nil {
		return err
	}
	now := r.now().UTC()

	update := bson.M{
		"$set": bson.M{
			"name":                doc.Name,
			"price":               doc.Price,
			"discount_percentage": doc.DiscountPercentage,
			"poster_pricing":      doc.PosterPricing,
			"updated_at":          now,
		},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, options.Update().SetUpsert(true))
	return err
}

// Delete removes the product or returns ErrNotFound.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func productToDocument(p *model.Product) (*ProductDocument, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return nil, fmt.Errorf("price: %w", err)
	}
	discount, err := toDecimal128(p.DiscountPercentage)
	if err != nil {
		return nil, fmt.Errorf("discount_percentage: %w", err)
	}

	doc := &ProductDocument{
		ID:                 p.ID,
		Name:               p.Name,
		Price:              price,
		DiscountPercentage: discount,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if len(p.PosterPricing) > 0 {
		doc.PosterPricing = make(map[string]primitive.Decimal128, len(p.PosterPricing))
		for size, v := range p.PosterPricing {
			d, err := toDecimal128(v)
			if err != nil {
				return nil, fmt.Errorf("poster_pricing[%s]: %w", size, err)
			}
			doc.PosterPricing[size] = d
		}
	}
	return doc, nil
}

func (d *ProductDocument) toModel() (*model.Product, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s price: %w", d.ID, err)
	}
	discount, err := fromDecimal128(d.DiscountPercentage)
	if err != nil {
		return nil, fmt.Errorf("product %s discount: %w", d.ID, err)
	}

	p := &model.Product{
		ID:                 d.ID,
		Name:               d.Name,
		Price:              price,
		DiscountPercentage: discount,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if len(d.PosterPricing) > 0 {
		p.PosterPricing = make(map[string]decimal.Decimal, len(d.PosterPricing))
		for size, v := range d.PosterPricing {
			dec, err := fromDecimal128(v)
			if err != nil {
				return nil, fmt.Errorf("product %s poster size %s: %w", d.ID, size, err)
			}
			p.PosterPricing[size] = dec
		}
	}
	return p, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

// fromDecimal128 treats an unset Decimal128 as zero.
func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	if d == (primitive.Decimal128{}) {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(d.String())
}
