package handler

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// defaultLang is used when the route carries no language segment.
const defaultLang = "en"

// PageHandler serves shop page data.
type PageHandler struct {
	service service.PageService
	logger  zerolog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(service service.PageService, logger zerolog.Logger) *PageHandler {
	return &PageHandler{
		service: service,
		logger:  logger.With().Str("handler", "page").Logger(),
	}
}

// Resolve handles GET /shop/{lang}/* requests.
func (h *PageHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if lang == "" {
		lang = defaultLang
	}
	slug := chi.URLParam(r, "*")

	page, err := h.service.Resolve(r.Context(), middleware.SessionID(r.Context()), slug, lang)
	if errors.Is(err, model.ErrRedirectRequired) {
		http.Redirect(w, r, "/shop/"+lang+"/cart", http.StatusSeeOther)
		return
	}
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
