// Package store provides the persistence contracts for products and sales.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry with its current stock quantity.
type Product struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Quantity int64              `bson:"quantity" json:"quantity"`
}

// SaleItem references a product by ID only. The reference is weak: deleting
// the product leaves the sale item dangling.
type SaleItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int64              `bson:"quantity" json:"quantity"`
}

// Sale is an ordered list of sold items. The itensSold spelling is the
// persisted and wire contract, kept as-is.
type Sale struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ItemsSold []SaleItem         `bson:"itensSold" json:"itensSold"`
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id primitive.ObjectID) (*Product, error)

	// FindByName retrieves a product by its exact, case-sensitive name.
	// Returns ErrProductNotFound if no product exists with the given name.
	FindByName(ctx context.Context, name string) (*Product, error)

	// FindAll returns all available products.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// Create adds a new product to the system.
	Create(ctx context.Context, name string, quantity int64) (*Product, error)

	// Update replaces a product's name and quantity.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id primitive.ObjectID, name string, quantity int64) (*Product, error)

	// AdjustQuantity applies a signed delta to a product's quantity as a
	// single atomic store operation.
	// Returns ErrProductNotFound if no product exists with the given ID.
	AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int64) error

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

// SaleStore is an interface for sale storage operations.
type SaleStore interface {
	// FindByID retrieves a single sale by its unique identifier.
	// Returns ErrSaleNotFound if no sale exists with the given ID.
	FindByID(ctx context.Context, id primitive.ObjectID) (*Sale, error)

	// FindAll returns all recorded sales.
	// Returns an empty slice if no sales exist.
	FindAll(ctx context.Context) ([]Sale, error)

	// Create records a new sale with the given item list.
	Create(ctx context.Context, items []SaleItem) (*Sale, error)

	// Update replaces a sale's item list in full.
	// Returns ErrSaleNotFound if no sale exists with the given ID.
	Update(ctx context.Context, id primitive.ObjectID, items []SaleItem) (*Sale, error)

	// DeleteByID removes a sale by its ID.
	// Returns ErrSaleNotFound if no sale exists with the given ID.
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}
