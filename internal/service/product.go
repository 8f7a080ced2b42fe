// Package service provides the business logic for products and sales.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/pviana/store-manager/internal/errors"
	"github.com/pviana/store-manager/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// Create adds a new product. Rejects payloads failing validation and
	// names already in use.
	Create(ctx context.Context, payload ProductPayload) (*store.Product, error)

	// FindAll returns all available products.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]store.Product, error)

	// FindByID retrieves a single product by its identifier in hex form.
	FindByID(ctx context.Context, id string) (*store.Product, error)

	// UpdateByID replaces a product's name and quantity.
	UpdateByID(ctx context.Context, id string, payload ProductPayload) (*store.Product, error)

	// DeleteByID removes a product and returns its pre-deletion snapshot.
	DeleteByID(ctx context.Context, id string) (*store.Product, error)
}

// Products implements ProductService.
type Products struct {
	store    store.ProductStore
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProductService creates a new instance of ProductService with the provided store.
func NewProductService(st store.ProductStore, logger *slog.Logger) *Products {
	return &Products{
		store:    st,
		validate: validator.New(),
		logger:   logger.With("component", "product_service"),
	}
}

// Create validates the payload, enforces name uniqueness and persists the product.
func (s *Products) Create(ctx context.Context, payload ProductPayload) (*store.Product, error) {
	if verr := validateProduct(s.validate, payload); verr != nil {
		return nil, verr
	}

	_, err := s.store.FindByName(ctx, payload.Name)
	if err == nil {
		return nil, apperrors.NewInvalidData("Product already exists")
	}
	if !errors.Is(err, apperrors.ErrProductNotFound) {
		return nil, fmt.Errorf("failed to check product name %q: %w", payload.Name, err)
	}

	product, err := s.store.Create(ctx, payload.Name, int64(*payload.Quantity))
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// FindAll retrieves a list of all products.
func (s *Products) FindAll(ctx context.Context) ([]store.Product, error) {
	products, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, nil
}

// FindByID retrieves a product by its ID. A malformed ID is reported as
// invalid_data, a well-formed but absent one as not_found.
func (s *Products) FindByID(ctx context.Context, id string) (*store.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewInvalidData("Wrong id format")
	}
	product, err := s.store.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, apperrors.ErrProductNotFound) {
			return nil, apperrors.NewNotFound("Product not found")
		}
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	return product, nil
}

// UpdateByID validates the payload and replaces the product's fields.
func (s *Products) UpdateByID(ctx context.Context, id string, payload ProductPayload) (*store.Product, error) {
	if verr := validateProduct(s.validate, payload); verr != nil {
		return nil, verr
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewInvalidData("Wrong id format")
	}
	product, err := s.store.Update(ctx, oid, payload.Name, int64(*payload.Quantity))
	if err != nil {
		if errors.Is(err, apperrors.ErrProductNotFound) {
			return nil, apperrors.NewNotFound("Product not found")
		}
		return nil, fmt.Errorf("failed to update product with ID %s: %w", id, err)
	}
	return product, nil
}

// DeleteByID removes a product and returns the snapshot taken before deletion.
func (s *Products) DeleteByID(ctx context.Context, id string) (*store.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewInvalidData("Wrong id format")
	}
	product, err := s.store.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, apperrors.ErrProductNotFound) {
			return nil, apperrors.NewNotFound("Product not found")
		}
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	if err := s.store.DeleteByID(ctx, oid); err != nil {
		if errors.Is(err, apperrors.ErrProductNotFound) {
			return nil, apperrors.NewNotFound("Product not found")
		}
		return nil, fmt.Errorf("failed to delete product with ID %s: %w", id, err)
	}
	return product, nil
}
