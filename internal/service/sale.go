package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/pviana/store-manager/internal/errors"
	"github.com/pviana/store-manager/internal/store"
	"github.com/pviana/store-manager/pkg/messaging"
	"github.com/pviana/store-manager/pkg/messaging/events"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
)

// SaleService defines the methods for managing sales, including the
// cross-entity checks and stock mutations a sale carries with it.
type SaleService interface {
	// Create validates a sale structurally, referentially and against
	// available stock, persists it and decrements the referenced products'
	// stock.
	Create(ctx context.Context, items []SaleItemPayload) (*store.Sale, error)

	// FindAll returns all recorded sales.
	FindAll(ctx context.Context) ([]store.Sale, error)

	// FindByID retrieves a single sale by its identifier in hex form.
	FindByID(ctx context.Context, id string) (*store.Sale, error)

	// UpdateByID replaces a sale's item list. Stock is not reconciled
	// against the previous list.
	UpdateByID(ctx context.Context, id string, items []SaleItemPayload) (*store.Sale, error)

	// DeleteByID removes a sale, re-credits the sold quantities to stock and
	// returns the pre-deletion snapshot.
	DeleteByID(ctx context.Context, id string) (*store.Sale, error)
}

// Sales implements SaleService.
type Sales struct {
	saleStore    store.SaleStore
	productStore store.ProductStore
	publisher    messaging.Publisher
	validate     *validator.Validate
	logger       *slog.Logger
	salesCounter metric.Int64Counter
}

// NewSaleService creates a new instance of SaleService with the provided stores and publisher.
func NewSaleService(saleStore store.SaleStore, productStore store.ProductStore, publisher messaging.Publisher, logger *slog.Logger) *Sales {
	meter := otel.Meter("store-manager")
	salesCounter, err := meter.Int64Counter("sales_created", metric.WithDescription("Total number of created sales"))
	if err != nil {
		panic(fmt.Sprintf("failed to create sales_created counter: %v", err))
	}
	return &Sales{
		saleStore:    saleStore,
		productStore: productStore,
		publisher:    publisher,
		validate:     validator.New(),
		logger:       logger.With("component", "sale_service"),
		salesCounter: salesCounter,
	}
}

// Create runs the structural, referential and stock checks concurrently: all
// three are dispatched against the same input before any is awaited. A
// structural or referential failure wins over a stock failure.
//
// The stock check and the later decrement are separate round-trips: two
// overlapping sales can both pass the check against the same stale quantity
// and both decrement. Only each individual $inc is atomic. A conditional
// decrement (quantity >= requested) would close the window but is not what
// this service does today.
func (s *Sales) Create(ctx context.Context, items []SaleItemPayload) (*store.Sale, error) {
	var structuralErr *apperrors.Error
	var missing, short int

	g := new(errgroup.Group)
	g.Go(func() error {
		structuralErr = validateSaleItems(s.validate, items)
		return nil
	})
	g.Go(func() error {
		missing = s.missingProducts(ctx, items)
		return nil
	})
	g.Go(func() error {
		short = s.insufficientStock(ctx, items)
		return nil
	})
	_ = g.Wait()

	if structuralErr != nil || missing > 0 {
		return nil, apperrors.NewInvalidData("Wrong product ID or invalid quantity")
	}
	if short > 0 {
		return nil, apperrors.NewStockProblem("Such amount is not permitted to sell")
	}

	sale, err := s.saleStore.Create(ctx, toSaleItems(items))
	if err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	// Best effort: adjustment failures are logged, never returned.
	s.adjustStock(ctx, sale.ItemsSold, -1)

	event := events.SaleCreatedEvent{
		SaleID:    sale.ID.Hex(),
		Items:     toEventItems(sale.ItemsSold),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish SaleCreatedEvent", "sale_id", sale.ID.Hex(), "error", err)
	}
	s.salesCounter.Add(ctx, 1)

	return sale, nil
}

// FindAll retrieves a list of all sales.
func (s *Sales) FindAll(ctx context.Context) ([]store.Sale, error) {
	sales, err := s.saleStore.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales: %w", err)
	}
	return sales, nil
}

// FindByID retrieves a sale by its ID.
func (s *Sales) FindByID(ctx context.Context, id string) (*store.Sale, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewNotFound("Sale not found")
	}
	sale, err := s.saleStore.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, apperrors.ErrSaleNotFound) {
			return nil, apperrors.NewNotFound("Sale not found")
		}
		return nil, fmt.Errorf("failed to fetch sale by ID %s: %w", id, err)
	}
	return sale, nil
}

// UpdateByID re-runs the structural and referential checks and replaces the
// item list in place. The stock delta between old and new lists is not
// applied.
func (s *Sales) UpdateByID(ctx context.Context, id string, items []SaleItemPayload) (*store.Sale, error) {
	var structuralErr *apperrors.Error
	var missing int

	g := new(errgroup.Group)
	g.Go(func() error {
		structuralErr = validateSaleItems(s.validate, items)
		return nil
	})
	g.Go(func() error {
		missing = s.missingProducts(ctx, items)
		return nil
	})
	_ = g.Wait()

	if structuralErr != nil || missing > 0 {
		return nil, apperrors.NewInvalidData("Wrong product ID or invalid quantity")
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewNotFound("Sale not found")
	}
	sale, err := s.saleStore.Update(ctx, oid, toSaleItems(items))
	if err != nil {
		if errors.Is(err, apperrors.ErrSaleNotFound) {
			return nil, apperrors.NewNotFound("Sale not found")
		}
		return nil, fmt.Errorf("failed to update sale with ID %s: %w", id, err)
	}
	return sale, nil
}

// DeleteByID removes a sale and re-credits every sold quantity back to its
// product as a compensating action. A malformed ID and a missing sale are
// reported the same way.
func (s *Sales) DeleteByID(ctx context.Context, id string) (*store.Sale, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.NewInvalidData("Wrong sale ID format")
	}
	sale, err := s.saleStore.FindByID(ctx, oid)
	if err != nil {
		if errors.Is(err, apperrors.ErrSaleNotFound) {
			return nil, apperrors.NewInvalidData("Wrong sale ID format")
		}
		return nil, fmt.Errorf("failed to fetch sale by ID %s: %w", id, err)
	}
	if err := s.saleStore.DeleteByID(ctx, oid); err != nil {
		if errors.Is(err, apperrors.ErrSaleNotFound) {
			return nil, apperrors.NewInvalidData("Wrong sale ID format")
		}
		return nil, fmt.Errorf("failed to delete sale with ID %s: %w", id, err)
	}

	s.adjustStock(ctx, sale.ItemsSold, 1)

	event := events.SaleDeletedEvent{
		SaleID:    sale.ID.Hex(),
		Items:     toEventItems(sale.ItemsSold),
		DeletedAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish SaleDeletedEvent", "sale_id", sale.ID.Hex(), "error", err)
	}

	return sale, nil
}

// missingProducts resolves every item's product concurrently and counts the
// ones that cannot be resolved, malformed IDs included. Only the aggregate
// count matters, completion order does not.
func (s *Sales) missingProducts(ctx context.Context, items []SaleItemPayload) int {
	var n atomic.Int64
	g := new(errgroup.Group)
	for _, item := range items {
		oid, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			n.Add(1)
			continue
		}
		g.Go(func() error {
			if _, err := s.productStore.FindByID(ctx, oid); err != nil {
				n.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(n.Load())
}

// insufficientStock re-resolves every item's product concurrently and counts
// the ones whose recorded quantity is below the requested one. Items that
// cannot be resolved count as failures here too; the referential check's
// verdict takes precedence in Create.
func (s *Sales) insufficientStock(ctx context.Context, items []SaleItemPayload) int {
	var n atomic.Int64
	g := new(errgroup.Group)
	for _, item := range items {
		if item.Quantity == nil {
			n.Add(1)
			continue
		}
		oid, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			n.Add(1)
			continue
		}
		requested := int64(*item.Quantity)
		g.Go(func() error {
			product, err := s.productStore.FindByID(ctx, oid)
			if err != nil {
				n.Add(1)
				return nil
			}
			if product.Quantity < requested {
				n.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(n.Load())
}

// adjustStock applies direction*quantity to every referenced product
// concurrently. Failures are logged and swallowed so the primary operation's
// outcome never depends on the compensating step.
func (s *Sales) adjustStock(ctx context.Context, items []store.SaleItem, direction int64) {
	g := new(errgroup.Group)
	for _, item := range items {
		delta := direction * item.Quantity
		productID := item.ProductID
		g.Go(func() error {
			if err := s.productStore.AdjustQuantity(ctx, productID, delta); err != nil {
				s.logger.ErrorContext(ctx, "Stock adjustment failed",
					"product_id", productID.Hex(),
					"delta", delta,
					"error", err,
				)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// toSaleItems converts validated payload items into store items. Callers must
// have run the structural and referential checks first.
func toSaleItems(items []SaleItemPayload) []store.SaleItem {
	sold := make([]store.SaleItem, len(items))
	for i, item := range items {
		oid, _ := primitive.ObjectIDFromHex(item.ProductID)
		sold[i] = store.SaleItem{
			ProductID: oid,
			Quantity:  int64(*item.Quantity),
		}
	}
	return sold
}

func toEventItems(items []store.SaleItem) []events.SaleItem {
	out := make([]events.SaleItem, len(items))
	for i, item := range items {
		out[i] = events.SaleItem{
			ProductID: item.ProductID.Hex(),
			Quantity:  item.Quantity,
		}
	}
	return out
}
