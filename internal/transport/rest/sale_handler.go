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

type SaleHandler struct {
	service service.SaleService
	logger  *slog.Logger
}

// NewSaleHandler creates a new instance of SaleHandler with the provided service.
func NewSaleHandler(service service.SaleService, logger *slog.Logger) *SaleHandler {
	return &SaleHandler{
		service: service,
		logger:  logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for sales.
func (h *SaleHandler) RegisterRoutes(r *chi.Mux) {
	r.Route("/sales", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.UpdateByID)
			r.Delete("/", h.DeleteByID)
		})
	})
}

// Create records a new sale. An invalid_data failure maps to 422, a stock
// shortage to 404; success is reported as 200, not 201.
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var items []service.SaleItemPayload
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusUnprocessableEntity, apperrors.CodeInvalidData, "Invalid request body")
		return
	}
	sale, err := h.service.Create(r.Context(), items)
	if err != nil {
		var svcErr *apperrors.Error
		if errors.As(err, &svcErr) {
			status := http.StatusUnprocessableEntity
			if svcErr.Code == apperrors.CodeStockProblem {
				status = http.StatusNotFound
			}
			mLogger.WarnContext(r.Context(), "Sale rejected", "code", svcErr.Code, "message", svcErr.Message)
			web.RespondError(w, mLogger, status, svcErr.Code, svcErr.Message)
			return
		}
		respondSaleInternalError(w, r, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Sale created successfully", "ID", sale.ID.Hex(), "items", len(sale.ItemsSold))
	web.RespondJSON(w, mLogger, http.StatusOK, sale)
}

// FindAll retrieves a list of all sales.
func (h *SaleHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		respondSaleInternalError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved sale list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, map[string][]store.Sale{"sales": list})
}

// FindByID retrieves a sale by its ID. Every failure maps to 404.
func (h *SaleHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")
	sale, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		var svcErr *apperrors.Error
		if errors.As(err, &svcErr) {
			mLogger.WarnContext(r.Context(), "Sale request rejected", "code", svcErr.Code, "message", svcErr.Message)
			web.RespondError(w, mLogger, http.StatusNotFound, svcErr.Code, svcErr.Message)
			return
		}
		respondSaleInternalError(w, r, mLogger, err)
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved sale", "ID", sale.ID.Hex())
	web.RespondJSON(w, mLogger, http.StatusOK, sale)
}

// UpdateByID replaces a sale's item list. Every failure maps to 422.
func (h *SaleHandler) UpdateByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")
	var items []service.SaleItemPayload
	if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusUnprocessableEntity, apperrors.CodeInvalidData, "Invalid request body")
		return
	}
	sale, err := h.service.UpdateByID(r.Context(), id, items)
	if err != nil {
		respondSaleError(w, r, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Sale updated successfully", "ID", sale.ID.Hex())
	web.RespondJSON(w, mLogger, http.StatusOK, sale)
}

// DeleteByID removes a sale and returns the deleted sale. Every failure maps
// to 422.
func (h *SaleHandler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")
	sale, err := h.service.DeleteByID(r.Context(), id)
	if err != nil {
		respondSaleError(w, r, mLogger, err)
		return
	}
	mLogger.InfoContext(r.Context(), "Sale deleted successfully", "ID", sale.ID.Hex())
	web.RespondJSON(w, mLogger, http.StatusOK, sale)
}

// respondSaleError maps a typed sale failure to 422 and anything else to an
// internal failure.
func respondSaleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var svcErr *apperrors.Error
	if errors.As(err, &svcErr) {
		logger.WarnContext(r.Context(), "Sale request rejected", "code", svcErr.Code, "message", svcErr.Message)
		web.RespondError(w, logger, http.StatusUnprocessableEntity, svcErr.Code, svcErr.Message)
		return
	}
	respondSaleInternalError(w, r, logger, err)
}

func respondSaleInternalError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	logger.ErrorContext(r.Context(), "Sale request failed", "error", err)
	web.RespondError(w, logger, http.StatusInternalServerError, "internal_error", "Internal server error")
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *SaleHandler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID, _ := web.GetRequestID(r.Context())
	return h.logger.With("request_id", reqID)
}
