package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"storefront/internal/model"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// statusByCode maps domain error codes to HTTP statuses.
var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:          http.StatusBadRequest,
	model.ErrCodeMissingField:         http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:      http.StatusBadRequest,
	model.ErrCodeIncompleteCode:       http.StatusBadRequest,
	model.ErrCodeBackupCodesNotSaved:  http.StatusBadRequest,
	model.ErrCodePasswordRequired:     http.StatusBadRequest,
	model.ErrCodeNotFound:             http.StatusNotFound,
	model.ErrCodeSubscriptionNotFound: http.StatusNotFound,
	model.ErrCodeRedirectRequired:     http.StatusSeeOther,
	model.ErrCodeInvalidStep:          http.StatusConflict,
	model.ErrCodeStepBackward:         http.StatusConflict,
	model.ErrCodePaymentNotProcessed:  http.StatusConflict,
	model.ErrCodeDismissNotAllowed:    http.StatusConflict,
	model.ErrCodePaymentNotConfirmed:  http.StatusUnprocessableEntity,
	model.ErrCodeBackendRejected:      http.StatusUnprocessableEntity,
	model.ErrCodeUnauthorised:         http.StatusUnauthorized,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: chimw.GetReqID(r.Context()),
	})
}

// writeDomainError maps err to a response. Errors that are not domain errors
// become a 500 with a generic message.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if errors.As(err, &de) {
		status, ok := statusByCode[de.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		writeError(w, r, status, de.Code, de.Message, logger)
		return
	}

	logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, model.MsgTryAgain, logger)
}

// decodeJSON decodes a request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewDomainError(model.ErrCodeInvalidJSON, "request body is required")
		}
		return model.NewDomainError(model.ErrCodeInvalidJSON, fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

// writeAction writes a server action result. Failed actions are 422 with the
// result as the body so the client keeps the returned state.
func writeAction(w http.ResponseWriter, result *model.ActionResult) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}
