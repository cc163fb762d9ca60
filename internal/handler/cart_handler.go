package handler

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/transport"

	"github.com/rs/zerolog"
)

// AddItemsRequest is the body of POST /api/cart/items.
type AddItemsRequest struct {
	Items []model.LineItemRequest `json:"items"`
}

// ItemErrorResponse reports which line item of a batch failed.
type ItemErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Index   int         `json:"index"`
	Cart    *model.Cart `json:"cart,omitempty"`
}

// CartHandler handles cart HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Get(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AddItems handles POST /api/cart/items requests.
func (h *CartHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	var req AddItemsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	cart, err := h.service.AddItems(r.Context(), middleware.SessionID(r.Context()), req.Items)
	if err == nil {
		writeJSON(w, http.StatusOK, cart)
		return
	}

	var itemErr *service.ItemError
	if !errors.As(err, &itemErr) {
		writeDomainError(w, r, err, h.logger)
		return
	}

	resp := ItemErrorResponse{Index: itemErr.Index, Cart: cart}
	status := http.StatusInternalServerError
	var de *model.DomainError
	switch {
	case errors.As(err, &de):
		status = http.StatusBadRequest
		resp.Error, resp.Message = de.Code, de.Message
	case transport.IsRejection(err):
		status = http.StatusUnprocessableEntity
		resp.Error, resp.Message = model.ErrCodeBackendRejected, model.MsgAddToCartFailed
	default:
		resp.Error, resp.Message = model.ErrCodeInternalError, model.MsgTryAgain
	}

	h.logger.Warn().Err(err).Int("item_index", itemErr.Index).Int("status", status).Msg("add to cart failed")
	writeJSON(w, status, resp)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), middleware.SessionID(r.Context())); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
