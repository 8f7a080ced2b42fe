package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	apperrors "github.com/pviana/store-manager/internal/errors"
	"github.com/pviana/store-manager/internal/service"
	"github.com/pviana/store-manager/internal/store"
	"github.com/pviana/store-manager/pkg/web"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mockSaleService is a mock implementation of the SaleService interface
type mockSaleService struct {
	sale  *store.Sale
	sales []store.Sale
	error error
}

func (m *mockSaleService) Create(_ context.Context, _ []service.SaleItemPayload) (*store.Sale, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.sale, nil
}

func (m *mockSaleService) FindAll(_ context.Context) ([]store.Sale, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.sales, nil
}

func (m *mockSaleService) FindByID(_ context.Context, _ string) (*store.Sale, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.sale, nil
}

func (m *mockSaleService) UpdateByID(_ context.Context, _ string, _ []service.SaleItemPayload) (*store.Sale, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.sale, nil
}

func (m *mockSaleService) DeleteByID(_ context.Context, _ string) (*store.Sale, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.sale, nil
}

func newSaleRouter(svc service.SaleService) *chi.Mux {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	mux := chi.NewRouter()
	NewSaleHandler(svc, logger).RegisterRoutes(mux)
	return mux
}

func Test_SaleAPI_Create(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff96")
	mockProductID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff97")
	mockSale := &store.Sale{ID: mockID, ItemsSold: []store.SaleItem{{ProductID: mockProductID, Quantity: 2}}}
	testCases := []struct {
		name         string
		mockService  mockSaleService
		body         string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - sale recorded with 200",
			mockService:  mockSaleService{sale: mockSale},
			body:         `[{"productId":"5f43cbf4c45ff5a4f8b0ff97","quantity":2}]`,
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, mockSale),
		},
		{
			name: "Error - invalid data maps to 422",
			mockService: mockSaleService{
				error: apperrors.NewInvalidData("Wrong product ID or invalid quantity"),
			},
			body:         `[{"productId":"not-a-hex-id","quantity":2}]`,
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: toJSON(t, errEnvelope{Err: web.ErrBody{Code: apperrors.CodeInvalidData, Message: "Wrong product ID or invalid quantity"}}),
		},
		{
			name: "Error - stock problem maps to 404",
			mockService: mockSaleService{
				error: apperrors.NewStockProblem("Such amount is not permitted to sell"),
			},
			body:         `[{"productId":"5f43cbf4c45ff5a4f8b0ff97","quantity":200}]`,
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, errEnvelope{Err: web.ErrBody{Code: apperrors.CodeStockProblem, Message: "Such amount is not permitted to sell"}}),
		},
		{
			name:         "Error - malformed body maps to 422",
			mockService:  mockSaleService{},
			body:         `{not-json`,
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: toJSON(t, errEnvelope{Err: web.ErrBody{Code: apperrors.CodeInvalidData, Message: "Invalid request body"}}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newSaleRouter(&tc.mockService)
			req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func Test_SaleAPI_FindAll(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff96")
	mockProductID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff97")
	// given
	mux := newSaleRouter(&mockSaleService{
		sales: []store.Sale{{ID: mockID, ItemsSold: []store.SaleItem{{ProductID: mockProductID, Quantity: 2}}}},
	})
	req := httptest.NewRequest(http.MethodGet, "/sales", nil)
	rec := httptest.NewRecorder()
	// when
	mux.ServeHTTP(rec, req)
	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	expected := toJSON(t, map[string][]store.Sale{
		"sales": {{ID: mockID, ItemsSold: []store.SaleItem{{ProductID: mockProductID, Quantity: 2}}}},
	})
	assert.JSONEq(t, expected, rec.Body.String())
}

func Test_SaleAPI_FindByID(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff96")
	mockProductID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff97")
	mockSale := &store.Sale{ID: mockID, ItemsSold: []store.SaleItem{{ProductID: mockProductID, Quantity: 2}}}
	testCases := []struct {
		name         string
		mockService  mockSaleService
		saleID       string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - sale found",
			mockService:  mockSaleService{sale: mockSale},
			saleID:       mockID.Hex(),
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, mockSale),
		},
		{
			name: "Error - malformed id maps to 404",
			mockService: mockSaleService{
				error: apperrors.NewNotFound("Sale not found"),
			},
			saleID:       "not-a-hex-id",
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, errEnvelope{Err: web.ErrBody{Code: apperrors.CodeNotFound, Message: "Sale not found"}}),
		},
		{
			name: "Error - missing sale maps to 404",
			mockService: mockSaleService{
				error: apperrors.NewNotFound("Sale not found"),
			},
			saleID:       mockID.Hex(),
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, errEnvelope{Err: web.ErrBody{Code: apperrors.CodeNotFound, Message: "Sale not found"}}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newSaleRouter(&tc.mockService)
			req := httptest.NewRequest(http.MethodGet, "/sales/"+tc.saleID, nil)
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func Test_SaleAPI_UpdateByID(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff96")
	mockProductID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff97")
	mockSale := &store.Sale{ID: mockID, ItemsSold: []store.SaleItem{{ProductID: mockProductID, Quantity: 7}}}
	testCases := []struct {
		name         string
		mockService  mockSaleService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - sale updated",
			mockService:  mockSaleService{sale: mockSale},
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, mockSale),
		},
		{
			name: "Error - missing sale maps to 422",
			mockService: mockSaleService{
				error: apperrors.NewNotFound("Sale not found"),
			},
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: toJSON(t, errEnvelope{Err: web.ErrBody{Code: apperrors.CodeNotFound, Message: "Sale not found"}}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newSaleRouter(&tc.mockService)
			body := `[{"productId":"5f43cbf4c45ff5a4f8b0ff97","quantity":7}]`
			req := httptest.NewRequest(http.MethodPut, "/sales/"+mockID.Hex(), strings.NewReader(body))
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func Test_SaleAPI_DeleteByID(t *testing.T) {
	mockID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff96")
	mockProductID, _ := primitive.ObjectIDFromHex("5f43cbf4c45ff5a4f8b0ff97")
	mockSale := &store.Sale{ID: mockID, ItemsSold: []store.SaleItem{{ProductID: mockProductID, Quantity: 2}}}
	testCases := []struct {
		name         string
		mockService  mockSaleService
		saleID       string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - returns deleted sale",
			mockService:  mockSaleService{sale: mockSale},
			saleID:       mockID.Hex(),
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, mockSale),
		},
		{
			name: "Error - malformed or missing sale maps to 422",
			mockService: mockSaleService{
				error: apperrors.NewInvalidData("Wrong sale ID format"),
			},
			saleID:       "not-a-hex-id",
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: toJSON(t, errEnvelope{Err: web.ErrBody{Code: apperrors.CodeInvalidData, Message: "Wrong sale ID format"}}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newSaleRouter(&tc.mockService)
			req := httptest.NewRequest(http.MethodDelete, "/sales/"+tc.saleID, nil)
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}
