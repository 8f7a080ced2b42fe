package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	apperrors "github.com/pviana/store-manager/internal/errors"
	"github.com/pviana/store-manager/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mockProductStore is a mock implementation of the ProductStore interface
type mockProductStore struct {
	product     *store.Product
	products    []store.Product
	byName      *store.Product
	byNameError error
	error       error
	adjustError error
	deleteError error
}

func (m *mockProductStore) FindByID(_ context.Context, _ primitive.ObjectID) (*store.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductStore) FindByName(_ context.Context, _ string) (*store.Product, error) {
	if m.byNameError != nil {
		return nil, m.byNameError
	}
	return m.byName, nil
}

func (m *mockProductStore) FindAll(_ context.Context) ([]store.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.products, nil
}

func (m *mockProductStore) Create(_ context.Context, name string, quantity int64) (*store.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return &store.Product{ID: m.product.ID, Name: name, Quantity: quantity}, nil
}

func (m *mockProductStore) Update(_ context.Context, id primitive.ObjectID, name string, quantity int64) (*store.Product, error) {
	if m.error != nil {
		return nil, m.error
	}
	return &store.Product{ID: id, Name: name, Quantity: quantity}, nil
}

func (m *mockProductStore) AdjustQuantity(_ context.Context, _ primitive.ObjectID, _ int64) error {
	return m.adjustError
}

func (m *mockProductStore) DeleteByID(_ context.Context, _ primitive.ObjectID) error {
	return m.deleteError
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func Test_ProductService_Create(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff96")
	testCases := []struct {
		name            string
		mockStore       *mockProductStore
		payload         ProductPayload
		expectedCode    string
		expectedMessage string
	}{
		{
			name: "Success - product created",
			mockStore: &mockProductStore{
				product:     &store.Product{ID: mockID},
				byNameError: apperrors.ErrProductNotFound,
			},
			payload: ProductPayload{Name: "Martelo de Thor", Quantity: floatPtr(10)},
		},
		{
			name: "Error - name already in use",
			mockStore: &mockProductStore{
				byName: &store.Product{ID: mockID, Name: "Martelo de Thor", Quantity: 10},
			},
			payload:         ProductPayload{Name: "Martelo de Thor", Quantity: floatPtr(10)},
			expectedCode:    apperrors.CodeInvalidData,
			expectedMessage: "Product already exists",
		},
		{
			name:            "Error - name too short",
			mockStore:       &mockProductStore{},
			payload:         ProductPayload{Name: "Ex", Quantity: floatPtr(10)},
			expectedCode:    apperrors.CodeInvalidData,
			expectedMessage: `"name" length must be at least 5 characters long`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewProductService(tc.mockStore, testLogger())
			// when
			created, err := service.Create(context.Background(), tc.payload)
			// then
			if tc.expectedCode != "" {
				var svcErr *apperrors.Error
				require.ErrorAs(t, err, &svcErr)
				assert.Equal(t, tc.expectedCode, svcErr.Code)
				assert.Equal(t, tc.expectedMessage, svcErr.Message)
				assert.Nil(t, created)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, created)
			assert.Equal(t, tc.payload.Name, created.Name)
			assert.Equal(t, int64(*tc.payload.Quantity), created.Quantity)
		})
	}
}

func Test_ProductService_FindByID(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff96")
	testCases := []struct {
		name            string
		mockStore       *mockProductStore
		id              string
		expectedCode    string
		expectedMessage string
	}{
		{
			name: "Success - product found",
			mockStore: &mockProductStore{
				product: &store.Product{ID: mockID, Name: "Martelo de Thor", Quantity: 10},
			},
			id: mockID.Hex(),
		},
		{
			name:            "Error - malformed id",
			mockStore:       &mockProductStore{},
			id:              "not-a-hex-id",
			expectedCode:    apperrors.CodeInvalidData,
			expectedMessage: "Wrong id format",
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				error: apperrors.ErrProductNotFound,
			},
			id:              mockID.Hex(),
			expectedCode:    apperrors.CodeNotFound,
			expectedMessage: "Product not found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewProductService(tc.mockStore, testLogger())
			// when
			found, err := service.FindByID(context.Background(), tc.id)
			// then
			if tc.expectedCode != "" {
				var svcErr *apperrors.Error
				require.ErrorAs(t, err, &svcErr)
				assert.Equal(t, tc.expectedCode, svcErr.Code)
				assert.Equal(t, tc.expectedMessage, svcErr.Message)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.mockStore.product, found)
		})
	}
}

func Test_ProductService_FindByID_StoreFailure(t *testing.T) {
	// given
	mockID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff96")
	service := NewProductService(&mockProductStore{error: errors.New("connection reset")}, testLogger())
	// when
	found, err := service.FindByID(context.Background(), mockID.Hex())
	// then
	require.Error(t, err)
	var svcErr *apperrors.Error
	assert.False(t, errors.As(err, &svcErr), "store failures must not surface as client errors")
	assert.Nil(t, found)
}

func Test_ProductService_UpdateByID(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff96")
	testCases := []struct {
		name            string
		mockStore       *mockProductStore
		id              string
		payload         ProductPayload
		expectedCode    string
		expectedMessage string
	}{
		{
			name:      "Success - product updated",
			mockStore: &mockProductStore{},
			id:        mockID.Hex(),
			payload:   ProductPayload{Name: "Machado de Thor", Quantity: floatPtr(20)},
		},
		{
			name:            "Error - invalid payload rejected before the id is parsed",
			mockStore:       &mockProductStore{},
			id:              "not-a-hex-id",
			payload:         ProductPayload{Name: "Machado de Thor"},
			expectedCode:    apperrors.CodeInvalidData,
			expectedMessage: `"quantity" is required`,
		},
		{
			name:            "Error - malformed id",
			mockStore:       &mockProductStore{},
			id:              "not-a-hex-id",
			payload:         ProductPayload{Name: "Machado de Thor", Quantity: floatPtr(20)},
			expectedCode:    apperrors.CodeInvalidData,
			expectedMessage: "Wrong id format",
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				error: apperrors.ErrProductNotFound,
			},
			id:              mockID.Hex(),
			payload:         ProductPayload{Name: "Machado de Thor", Quantity: floatPtr(20)},
			expectedCode:    apperrors.CodeNotFound,
			expectedMessage: "Product not found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewProductService(tc.mockStore, testLogger())
			// when
			updated, err := service.UpdateByID(context.Background(), tc.id, tc.payload)
			// then
			if tc.expectedCode != "" {
				var svcErr *apperrors.Error
				require.ErrorAs(t, err, &svcErr)
				assert.Equal(t, tc.expectedCode, svcErr.Code)
				assert.Equal(t, tc.expectedMessage, svcErr.Message)
				assert.Nil(t, updated)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, updated)
			assert.Equal(t, tc.payload.Name, updated.Name)
			assert.Equal(t, int64(*tc.payload.Quantity), updated.Quantity)
		})
	}
}

func Test_ProductService_DeleteByID(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff96")
	testCases := []struct {
		name            string
		mockStore       *mockProductStore
		id              string
		expectedCode    string
		expectedMessage string
	}{
		{
			name: "Success - returns the pre-deletion snapshot",
			mockStore: &mockProductStore{
				product: &store.Product{ID: mockID, Name: "Martelo de Thor", Quantity: 10},
			},
			id: mockID.Hex(),
		},
		{
			name:            "Error - malformed id",
			mockStore:       &mockProductStore{},
			id:              "not-a-hex-id",
			expectedCode:    apperrors.CodeInvalidData,
			expectedMessage: "Wrong id format",
		},
		{
			name: "Error - product not found",
			mockStore: &mockProductStore{
				error: apperrors.ErrProductNotFound,
			},
			id:              mockID.Hex(),
			expectedCode:    apperrors.CodeNotFound,
			expectedMessage: "Product not found",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			service := NewProductService(tc.mockStore, testLogger())
			// when
			deleted, err := service.DeleteByID(context.Background(), tc.id)
			// then
			if tc.expectedCode != "" {
				var svcErr *apperrors.Error
				require.ErrorAs(t, err, &svcErr)
				assert.Equal(t, tc.expectedCode, svcErr.Code)
				assert.Equal(t, tc.expectedMessage, svcErr.Message)
				assert.Nil(t, deleted)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.mockStore.product, deleted)
		})
	}
}
