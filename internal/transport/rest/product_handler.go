// Package rest provides the HTTP handlers for the store-manager API.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	apperrors "github.com/pviana/store-manager/internal/errors"
	"github.com/pviana/store-manager/internal/service"
	"github.com/pviana/store-manager/internal/store"
	"github.com/pviana/store-manager/pkg/web"
)

type ProductHandler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new instance of ProductHandler with the provided service.
func NewProductHandler(service service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for products.
// Every product failure maps to 422 regardless of its code.
func (h *ProductHandler) RegisterRoutes(r *chi.Mux) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.UpdateByID)
			r.Delete("/", h.DeleteByID)
		})
	})
}

// Create handles the creation of a new product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var payload service.ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusUnprocessableEntity, apperrors.CodeInvalidData, "Invalid request body")
		return
	}
	created, err := h.service.Create(r.Context(), payload)
	if err != nil {
		respondProductError(w, r, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID.Hex(), "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// FindAll retrieves a list of all products.
func (h *ProductHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		respondProductError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, map[string][]store.Product{"products": list})
}

// FindByID retrieves a product by its ID.
func (h *ProductHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		respondProductError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID.Hex(), "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// UpdateByID replaces a product's name and quantity.
func (h *ProductHandler) UpdateByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")
	var payload service.ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusUnprocessableEntity, apperrors.CodeInvalidData, "Invalid request body")
		return
	}
	updated, err := h.service.UpdateByID(r.Context(), id, payload)
	if err != nil {
		respondProductError(w, r, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID.Hex(), "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID and returns the deleted product.
func (h *ProductHandler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")
	deleted, err := h.service.DeleteByID(r.Context(), id)
	if err != nil {
		respondProductError(w, r, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", deleted.ID.Hex())
	web.RespondJSON(w, mLogger, http.StatusOK, deleted)
}

// respondProductError maps a product failure to its HTTP response: every
// typed error becomes 422, anything else is an internal failure.
func respondProductError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var svcErr *apperrors.Error
	if errors.As(err, &svcErr) {
		logger.WarnContext(r.Context(), "Product request rejected", "code", svcErr.Code, "message", svcErr.Message)
		web.RespondError(w, logger, http.StatusUnprocessableEntity, svcErr.Code, svcErr.Message)
		return
	}
	logger.ErrorContext(r.Context(), "Product request failed", "error", err)
	web.RespondError(w, logger, http.StatusInternalServerError, "internal_error", "Internal server error")
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *ProductHandler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID, _ := web.GetRequestID(r.Context())
	return h.logger.With("request_id", reqID)
}
