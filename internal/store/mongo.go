package store

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/pviana/store-manager/internal/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	productsCollection = "products"
	salesCollection    = "sales"
)

// MongoProductStore implements ProductStore on a Mongo collection.
type MongoProductStore struct {
	col *mongo.Collection
}

// NewMongoProductStore creates a ProductStore backed by the products collection.
func NewMongoProductStore(db *mongo.Database) *MongoProductStore {
	return &MongoProductStore{col: db.Collection(productsCollection)}
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *MongoProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	var product Product
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return &product, nil
}

// FindByName retrieves a product by its exact name.
// Returns ErrProductNotFound if no product exists with the given name.
func (s *MongoProductStore) FindByName(ctx context.Context, name string) (*Product, error) {
	var product Product
	if err := s.col.FindOne(ctx, bson.M{"name": name}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by name: %w", err)
	}
	return &product, nil
}

// FindAll retrieves all products.
// It returns a slice of products, which may be empty if no products exist.
func (s *MongoProductStore) FindAll(ctx context.Context) ([]Product, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	products := make([]Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Create adds a new product to the system.
func (s *MongoProductStore) Create(ctx context.Context, name string, quantity int64) (*Product, error) {
	res, err := s.col.InsertOne(ctx, bson.M{"name": name, "quantity": quantity})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &Product{
		ID:       res.InsertedID.(primitive.ObjectID),
		Name:     name,
		Quantity: quantity,
	}, nil
}

// Update replaces a product's name and quantity.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *MongoProductStore) Update(ctx context.Context, id primitive.ObjectID, name string, quantity int64) (*Product, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name, "quantity": quantity}})
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, apperrors.ErrProductNotFound
	}
	return &Product{ID: id, Name: name, Quantity: quantity}, nil
}

// AdjustQuantity applies a signed delta to a product's quantity. The $inc
// operator makes each adjustment atomic on the store side, which is the only
// concurrency guarantee this layer gives.
func (s *MongoProductStore) AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int64) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"quantity": delta}})
	if err != nil {
		return fmt.Errorf("failed to adjust product quantity: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}

// DeleteByID removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *MongoProductStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}

// MongoSaleStore implements SaleStore on a Mongo collection.
type MongoSaleStore struct {
	col *mongo.Collection
}

// NewMongoSaleStore creates a SaleStore backed by the sales collection.
func NewMongoSaleStore(db *mongo.Database) *MongoSaleStore {
	return &MongoSaleStore{col: db.Collection(salesCollection)}
}

// FindByID retrieves a sale by its unique identifier.
// Returns ErrSaleNotFound if no sale exists with the given ID.
func (s *MongoSaleStore) FindByID(ctx context.Context, id primitive.ObjectID) (*Sale, error) {
	var sale Sale
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&sale); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to find sale by ID: %w", err)
	}
	return &sale, nil
}

// FindAll retrieves all sales.
// It returns a slice of sales, which may be empty if no sales exist.
func (s *MongoSaleStore) FindAll(ctx context.Context) ([]Sale, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to find all sales: %w", err)
	}
	sales := make([]Sale, 0)
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, fmt.Errorf("failed to decode sales: %w", err)
	}
	return sales, nil
}

// Create records a new sale with the given item list.
func (s *MongoSaleStore) Create(ctx context.Context, items []SaleItem) (*Sale, error) {
	res, err := s.col.InsertOne(ctx, bson.M{"itensSold": items})
	if err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}
	return &Sale{
		ID:        res.InsertedID.(primitive.ObjectID),
		ItemsSold: items,
	}, nil
}

// Update replaces a sale's item list in full.
// Returns ErrSaleNotFound if no sale exists with the given ID.
func (s *MongoSaleStore) Update(ctx context.Context, id primitive.ObjectID, items []SaleItem) (*Sale, error) {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"itensSold": items}})
	if err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, apperrors.ErrSaleNotFound
	}
	return &Sale{ID: id, ItemsSold: items}, nil
}

// DeleteByID removes a sale by its unique identifier.
// Returns ErrSaleNotFound if no sale exists with the given ID.
func (s *MongoSaleStore) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete sale by ID: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrSaleNotFound
	}
	return nil
}
