package store

import (
	"context"
	"sync"

	apperrors "github.com/pviana/store-manager/internal/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryProductStore implements ProductStore using an in-memory map.
type memoryProductStore struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]Product
}

// NewMemoryProductStore creates a new in-memory ProductStore.
func NewMemoryProductStore() ProductStore {
	return &memoryProductStore{
		products: make(map[primitive.ObjectID]Product),
	}
}

func (s *memoryProductStore) FindByID(_ context.Context, id primitive.ObjectID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	return &p, nil
}

func (s *memoryProductStore) FindByName(_ context.Context, name string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, apperrors.ErrProductNotFound
}

func (s *memoryProductStore) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	return list, nil
}

func (s *memoryProductStore) Create(_ context.Context, name string, quantity int64) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Quantity: quantity,
	}
	s.products[product.ID] = product

	return &product, nil
}

func (s *memoryProductStore) Update(_ context.Context, id primitive.ObjectID, name string, quantity int64) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return nil, apperrors.ErrProductNotFound
	}
	product := Product{ID: id, Name: name, Quantity: quantity}
	s.products[id] = product
	return &product, nil
}

func (s *memoryProductStore) AdjustQuantity(_ context.Context, id primitive.ObjectID, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return apperrors.ErrProductNotFound
	}
	p.Quantity += delta
	s.products[id] = p
	return nil
}

func (s *memoryProductStore) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return apperrors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// memorySaleStore implements SaleStore using an in-memory map.
type memorySaleStore struct {
	mu    sync.RWMutex
	sales map[primitive.ObjectID]Sale
}

// NewMemorySaleStore creates a new in-memory SaleStore.
func NewMemorySaleStore() SaleStore {
	return &memorySaleStore{
		sales: make(map[primitive.ObjectID]Sale),
	}
}

func (s *memorySaleStore) FindByID(_ context.Context, id primitive.ObjectID) (*Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sale, ok := s.sales[id]
	if !ok {
		return nil, apperrors.ErrSaleNotFound
	}
	return &sale, nil
}

func (s *memorySaleStore) FindAll(_ context.Context) ([]Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		list = append(list, sale)
	}
	return list, nil
}

func (s *memorySaleStore) Create(_ context.Context, items []SaleItem) (*Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sale := Sale{
		ID:        primitive.NewObjectID(),
		ItemsSold: items,
	}
	s.sales[sale.ID] = sale

	return &sale, nil
}

func (s *memorySaleStore) Update(_ context.Context, id primitive.ObjectID, items []SaleItem) (*Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sales[id]; !ok {
		return nil, apperrors.ErrSaleNotFound
	}
	sale := Sale{ID: id, ItemsSold: items}
	s.sales[id] = sale
	return &sale, nil
}

func (s *memorySaleStore) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sales[id]; !ok {
		return apperrors.ErrSaleNotFound
	}
	delete(s.sales, id)
	return nil
}
