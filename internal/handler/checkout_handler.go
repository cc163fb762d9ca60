package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler exposes the checkout server actions.
type CheckoutHandler struct {
	service service.CheckoutService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// State handles GET /api/checkout requests.
func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetState(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, result, err)
}

// SubmitInformation handles POST /api/checkout/information requests.
func (h *CheckoutHandler) SubmitInformation(w http.ResponseWriter, r *http.Request) {
	var req model.InformationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	result, err := h.service.SubmitInformation(r.Context(), middleware.SessionID(r.Context()), &req)
	h.respond(w, r, result, err)
}

// SubmitAddress handles POST /api/checkout/address requests.
func (h *CheckoutHandler) SubmitAddress(w http.ResponseWriter, r *http.Request) {
	var req model.AddressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	result, err := h.service.SubmitAddress(r.Context(), middleware.SessionID(r.Context()), &req)
	h.respond(w, r, result, err)
}

// SelectShippingMethod handles POST /api/checkout/shipping-method requests.
func (h *CheckoutHandler) SelectShippingMethod(w http.ResponseWriter, r *http.Request) {
	var req model.ShippingMethodRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	result, err := h.service.SelectShippingMethod(r.Context(), middleware.SessionID(r.Context()), &req)
	h.respond(w, r, result, err)
}

// ConfirmPayment handles POST /api/checkout/payment-confirmation requests.
func (h *CheckoutHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentConfirmation
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	result, err := h.service.ConfirmPayment(r.Context(), middleware.SessionID(r.Context()), &req)
	h.respond(w, r, result, err)
}

// PlaceOrder handles POST /api/checkout/place-order requests.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.PlaceOrder(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, result, err)
}

// GoBack handles POST /api/checkout/back requests.
func (h *CheckoutHandler) GoBack(w http.ResponseWriter, r *http.Request) {
	var req model.GoBackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	result, err := h.service.GoBack(r.Context(), middleware.SessionID(r.Context()), &req)
	h.respond(w, r, result, err)
}

func (h *CheckoutHandler) respond(w http.ResponseWriter, r *http.Request, result *model.ActionResult, err error) {
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeAction(w, result)
}
