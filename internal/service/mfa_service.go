package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/companion"
	"storefront/internal/mfa"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/transport"

	"github.com/rs/zerolog"
)

// notApplicableStatuses are status-endpoint responses meaning MFA does not
// apply to the caller.
var notApplicableStatuses = map[int]bool{
	http.StatusBadRequest:          true,
	http.StatusUnauthorized:        true,
	http.StatusNotFound:            true,
	http.StatusInternalServerError: true,
}

// mfaService implements MFAService.
type mfaService struct {
	api        companion.MFAAPI
	dismissals repository.DismissalRepository
	wizards    repository.EnrollmentRepository
	now        func() time.Time
	logger     zerolog.Logger
}

// NewMFAService creates a new MFA service.
func NewMFAService(
	api companion.MFAAPI,
	dismissals repository.DismissalRepository,
	wizards repository.EnrollmentRepository,
	logger zerolog.Logger,
) MFAService {
	return &mfaService{
		api:        api,
		dismissals: dismissals,
		wizards:    wizards,
		now:        time.Now,
		logger:     logger.With().Str("service", "mfa").Logger(),
	}
}

// Status fetches the caller's MFA status. Responses in notApplicableStatuses
// mean "not applicable"; any other failure sets the error flag.
func (s *mfaService) Status(ctx context.Context) *model.MFAStatusResult {
	status, err := s.api.Status(ctx)
	if err != nil {
		code := transport.StatusCode(err)
		if notApplicableStatuses[code] {
			s.logger.Debug().Int("status", code).Msg("mfa not applicable")
			return &model.MFAStatusResult{}
		}
		s.logger.Error().Err(err).Msg("failed to fetch mfa status")
		return &model.MFAStatusResult{Error: true}
	}
	return &model.MFAStatusResult{Status: *status, Applicable: true}
}

// Banner evaluates the grace-period banner for a device.
func (s *mfaService) Banner(ctx context.Context, deviceID string) (*model.MFABanner, error) {
	result := s.Status(ctx)
	if !result.Applicable || result.Error {
		return &model.MFABanner{}, nil
	}

	key := mfa.DismissalKey(result.Status.DaysRemaining)
	dismissedUntil, err := s.dismissals.Get(ctx, deviceID, key)
	if err != nil {
		// An unreadable dismissal shows the banner rather than hiding it.
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to read banner dismissal")
		dismissedUntil = nil
	}

	banner := mfa.Evaluate(result.Status, dismissedUntil, s.now())
	return &banner, nil
}

// Dismiss snoozes the banner for the given days-remaining value.
func (s *mfaService) Dismiss(ctx context.Context, deviceID string, daysRemaining int) error {
	if !mfa.CanDismiss(daysRemaining) {
		return model.ErrDismissNotAllowed
	}

	key := mfa.DismissalKey(daysRemaining)
	expiry := mfa.DismissalExpiry(s.now())
	if err := s.dismissals.Set(ctx, deviceID, key, expiry); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to store banner dismissal")
		return fmt.Errorf("failed to dismiss banner: %w", err)
	}

	s.logger.Debug().Str("key", key).Time("expires_at", expiry).Msg("banner dismissed")

	return nil
}

// Enrollment returns the session's enrollment wizard.
func (s *mfaService) Enrollment(ctx context.Context, sessionID string) (*model.MFAEnrollmentResponse, error) {
	w, err := s.loadWizard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &model.MFAEnrollmentResponse{Success: true, Wizard: w}, nil
}

// ChooseApp requests a secret and QR code for the chosen app.
func (s *mfaService) ChooseApp(ctx context.Context, sessionID, app string) (*model.MFAEnrollmentResponse, error) {
	w, err := s.loadWizard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	app = strings.TrimSpace(app)
	if app == "" {
		return enrollmentFailure(w, model.MissingFieldError("app")), nil
	}
	if w.Step != model.MFAStepChooseApp {
		return enrollmentFailure(w, model.ErrInvalidStep), nil
	}

	setup, err := s.api.InitializeEnrollment(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to initialize mfa enrollment")
		w.Error = model.MsgMFASetupFailed
		return s.saveAndRespond(ctx, sessionID, w, false)
	}

	if err := mfa.ChooseApp(w, app, *setup); err != nil {
		return enrollmentFailure(w, err), nil
	}
	return s.saveAndRespond(ctx, sessionID, w, true)
}

// Continue moves from the QR code to code entry.
func (s *mfaService) Continue(ctx context.Context, sessionID string) (*model.MFAEnrollmentResponse, error) {
	w, err := s.loadWizard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := mfa.Continue(w); err != nil {
		return enrollmentFailure(w, err), nil
	}
	return s.saveAndRespond(ctx, sessionID, w, true)
}

// SubmitCode verifies a TOTP code. Incomplete codes are stored without a
// backend call. A rejected code is cleared and the backend's message shown.
func (s *mfaService) SubmitCode(ctx context.Context, sessionID, code string) (*model.MFAEnrollmentResponse, error) {
	w, err := s.loadWizard(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	ready, err := mfa.EnterCode(w, code)
	if err != nil {
		return enrollmentFailure(w, err), nil
	}
	if !ready {
		resp, err := s.saveAndRespond(ctx, sessionID, w, false)
		if resp != nil {
			resp.Error = model.ErrIncompleteCode.Message
		}
		return resp, err
	}

	result, err := s.api.CompleteEnrollment(ctx, w.Code)
	if err != nil {
		message := model.MsgMFAVerifyFailed
		var se *transport.StatusError
		if errors.As(err, &se) && transport.IsRejection(err) && se.Message != "" {
			message = se.Message
		}
		s.logger.Warn().Err(err).Msg("mfa verification failed")
		mfa.VerificationFailed(w, message)
		return s.saveAndRespond(ctx, sessionID, w, false)
	}

	if err := mfa.Verified(w); err != nil {
		return enrollmentFailure(w, err), nil
	}
	resp, err := s.saveAndRespond(ctx, sessionID, w, true)
	if err != nil {
		return nil, err
	}
	// Backup codes are returned once and never stored.
	resp.BackupCodes = result.BackupCodes

	s.logger.Info().Int("backup_codes", len(result.BackupCodes)).Msg("mfa enrollment verified")

	return resp, nil
}

// Finish completes enrollment once backup codes are acknowledged.
func (s *mfaService) Finish(ctx context.Context, sessionID string, saved bool) (*model.MFAEnrollmentResponse, error) {
	w, err := s.loadWizard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := mfa.Finish(w, saved); err != nil {
		return enrollmentFailure(w, err), nil
	}
	return s.saveAndRespond(ctx, sessionID, w, true)
}

// Restart discards the session's wizard.
func (s *mfaService) Restart(ctx context.Context, sessionID string) (*model.MFAEnrollmentResponse, error) {
	if err := s.wizards.Delete(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to reset enrollment: %w", err)
	}
	return &model.MFAEnrollmentResponse{Success: true, Wizard: mfa.NewWizard()}, nil
}

// Disable turns MFA off after re-authentication.
func (s *mfaService) Disable(ctx context.Context, password, code string) error {
	if password == "" {
		return model.ErrPasswordRequired
	}
	if err := s.api.Disable(ctx, password, mfa.NormalizeCode(code)); err != nil {
		return s.passwordActionError(err, "disable", model.MsgMFADisableFailed)
	}
	s.logger.Info().Msg("mfa disabled")
	return nil
}

// RegenerateBackupCodes invalidates old backup codes and returns new ones.
func (s *mfaService) RegenerateBackupCodes(ctx context.Context, password string) ([]string, error) {
	if password == "" {
		return nil, model.ErrPasswordRequired
	}
	codes, err := s.api.RegenerateBackupCodes(ctx, password)
	if err != nil {
		return nil, s.passwordActionError(err, "regenerate backup codes", model.MsgMFARegenerateFailed)
	}
	s.logger.Info().Int("backup_codes", len(codes)).Msg("backup codes regenerated")
	return codes, nil
}

func (s *mfaService) passwordActionError(err error, action, message string) error {
	if transport.IsRejection(err) {
		s.logger.Warn().Err(err).Str("action", action).Msg("mfa action rejected")
		return model.RejectedError(message)
	}
	s.logger.Error().Err(err).Str("action", action).Msg("mfa action failed")
	return fmt.Errorf("failed to %s: %w", action, err)
}

func (s *mfaService) loadWizard(ctx context.Context, sessionID string) (*model.MFAWizard, error) {
	w, err := s.wizards.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load enrollment: %w", err)
	}
	if !mfa.ValidWizard(w) {
		return mfa.NewWizard(), nil
	}
	return w, nil
}

func (s *mfaService) saveAndRespond(ctx context.Context, sessionID string, w *model.MFAWizard, success bool) (*model.MFAEnrollmentResponse, error) {
	if err := s.wizards.Save(ctx, sessionID, w); err != nil {
		return nil, fmt.Errorf("failed to save enrollment: %w", err)
	}
	return &model.MFAEnrollmentResponse{Success: success, Error: w.Error, Wizard: w}, nil
}

func enrollmentFailure(w *model.MFAWizard, err error) *model.MFAEnrollmentResponse {
	message := model.MsgTryAgain
	var de *model.DomainError
	if errors.As(err, &de) {
		message = de.Message
	}
	return &model.MFAEnrollmentResponse{Success: false, Error: message, Wizard: w}
}
