package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// BackupCodesResponse carries freshly generated backup codes.
type BackupCodesResponse struct {
	BackupCodes []string `json:"backupCodes"`
}

// MFAHandler handles MFA status, banner and enrollment requests.
type MFAHandler struct {
	service service.MFAService
	logger  zerolog.Logger
}

// NewMFAHandler creates a new MFA handler.
func NewMFAHandler(service service.MFAService, logger zerolog.Logger) *MFAHandler {
	return &MFAHandler{
		service: service,
		logger:  logger.With().Str("handler", "mfa").Logger(),
	}
}

// Status handles GET /api/mfa/status requests.
func (h *MFAHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Status(r.Context()))
}

// Banner handles GET /api/mfa/banner requests.
func (h *MFAHandler) Banner(w http.ResponseWriter, r *http.Request) {
	banner, err := h.service.Banner(r.Context(), middleware.DeviceID(r.Context()))
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, banner)
}

// Dismiss handles POST /api/mfa/banner/dismiss requests.
func (h *MFAHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	var req model.MFADismissRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if err := h.service.Dismiss(r.Context(), middleware.DeviceID(r.Context()), req.DaysRemaining); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Enrollment handles GET /api/mfa/enrollment requests.
func (h *MFAHandler) Enrollment(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Enrollment(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, resp, err)
}

// ChooseApp handles POST /api/mfa/enrollment/app requests.
func (h *MFAHandler) ChooseApp(w http.ResponseWriter, r *http.Request) {
	var req model.MFAChooseAppRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	resp, err := h.service.ChooseApp(r.Context(), middleware.SessionID(r.Context()), req.App)
	h.respond(w, r, resp, err)
}

// Continue handles POST /api/mfa/enrollment/continue requests.
func (h *MFAHandler) Continue(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Continue(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, resp, err)
}

// SubmitCode handles POST /api/mfa/enrollment/code requests.
func (h *MFAHandler) SubmitCode(w http.ResponseWriter, r *http.Request) {
	var req model.MFAEnrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	resp, err := h.service.SubmitCode(r.Context(), middleware.SessionID(r.Context()), req.Code)
	h.respond(w, r, resp, err)
}

// Finish handles POST /api/mfa/enrollment/finish requests.
func (h *MFAHandler) Finish(w http.ResponseWriter, r *http.Request) {
	var req model.MFAFinishRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	resp, err := h.service.Finish(r.Context(), middleware.SessionID(r.Context()), req.Saved)
	h.respond(w, r, resp, err)
}

// Restart handles DELETE /api/mfa/enrollment requests.
func (h *MFAHandler) Restart(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Restart(r.Context(), middleware.SessionID(r.Context()))
	h.respond(w, r, resp, err)
}

// Disable handles POST /api/mfa/disable requests.
func (h *MFAHandler) Disable(w http.ResponseWriter, r *http.Request) {
	var req model.MFAPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if err := h.service.Disable(r.Context(), req.Password, req.Code); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RegenerateBackupCodes handles POST /api/mfa/backup-codes requests.
func (h *MFAHandler) RegenerateBackupCodes(w http.ResponseWriter, r *http.Request) {
	var req model.MFAPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	codes, err := h.service.RegenerateBackupCodes(r.Context(), req.Password)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, BackupCodesResponse{BackupCodes: codes})
}

func (h *MFAHandler) respond(w http.ResponseWriter, r *http.Request, resp *model.MFAEnrollmentResponse, err error) {
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}
