package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FailureListResponse is a page of subscription failures.
type FailureListResponse struct {
	Failures []model.SubscriptionFailure `json:"failures"`
	Limit    int                         `json:"limit"`
	Offset   int                         `json:"offset"`
}

// RecoveryHandler serves the admin subscription recovery ledger.
type RecoveryHandler struct {
	service service.RecoveryService
	logger  zerolog.Logger
}

// NewRecoveryHandler creates a new recovery handler.
func NewRecoveryHandler(service service.RecoveryService, logger zerolog.Logger) *RecoveryHandler {
	return &RecoveryHandler{
		service: service,
		logger:  logger.With().Str("handler", "recovery").Logger(),
	}
}

// List handles GET /admin/subscription-failures requests with pagination.
func (h *RecoveryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.intParam(w, r, "limit", 50)
	if !ok {
		return
	}
	offset, ok := h.intParam(w, r, "offset", 0)
	if !ok {
		return
	}
	unresolvedOnly := r.URL.Query().Get("unresolved") == "true"

	failures, err := h.service.List(r.Context(), limit, offset, unresolvedOnly)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, FailureListResponse{Failures: failures, Limit: limit, Offset: offset})
}

// GetByID handles GET /admin/subscription-failures/{id} requests.
func (h *RecoveryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	failure, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, failure)
}

// Resolve handles POST /admin/subscription-failures/{id}/resolve requests.
func (h *RecoveryHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Resolve(r.Context(), id); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RecoveryHandler) idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "invalid failure ID format", h.logger)
		return uuid.Nil, false
	}
	return id, true
}

func (h *RecoveryHandler) intParam(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeMissingField, "invalid "+name+" parameter", h.logger)
		return 0, false
	}
	return value, true
}
