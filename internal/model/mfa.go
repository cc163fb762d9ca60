package model

import "time"

// MFAStatus is the grace-period status of the current customer.
type MFAStatus struct {
	Required          bool       `json:"required"`
	Enabled           bool       `json:"enabled"`
	InGracePeriod     bool       `json:"in_grace_period"`
	DaysRemaining     int        `json:"days_remaining"`
	GracePeriodEndsAt *time.Time `json:"grace_period_ends_at,omitempty"`
}

// MFAStatusResult is a fetched status plus how the fetch went.
type MFAStatusResult struct {
	Status MFAStatus `json:"status"`
	// Applicable is false when the backend reports MFA does not apply.
	Applicable bool `json:"applicable"`
	Error      bool `json:"error"`
}

// MFABanner is the grace-period warning banner as rendered.
type MFABanner struct {
	Show             bool   `json:"show"`
	Urgency          string `json:"urgency,omitempty"`
	DaysRemaining    int    `json:"daysRemaining"`
	CanDismiss       bool   `json:"canDismiss"`
	SecondsRemaining int64  `json:"secondsRemaining,omitempty"`
}

// MFASetup is the secret material returned when enrollment starts.
type MFASetup struct {
	Secret     string `json:"secret"`
	QRCode     string `json:"qr_code"`
	OTPAuthURL string `json:"otpauth_url,omitempty"`
}

// MFAEnrollResult is returned once enrollment is verified.
type MFAEnrollResult struct {
	BackupCodes []string `json:"backup_codes"`
}

// MFAEnrollRequest verifies an enrollment code.
type MFAEnrollRequest struct {
	Code string `json:"code"`
}

// MFAPasswordRequest carries a re-authentication password.
type MFAPasswordRequest struct {
	Password string `json:"password"`
	Code     string `json:"code,omitempty"`
}

// MFAStep is a step of the enrollment wizard.
type MFAStep string

const (
	MFAStepChooseApp   MFAStep = "choose_app"
	MFAStepScan        MFAStep = "scan"
	MFAStepVerify      MFAStep = "verify"
	MFAStepBackupCodes MFAStep = "backup_codes"
	MFAStepComplete    MFAStep = "complete"
)

// MFAWizard is the persisted enrollment wizard state. Backup codes are never
// part of it.
type MFAWizard struct {
	Step             MFAStep `json:"step"`
	App              string  `json:"app,omitempty"`
	Secret           string  `json:"secret,omitempty"`
	QRCode           string  `json:"qrCode,omitempty"`
	Code             string  `json:"code"`
	Error            string  `json:"error,omitempty"`
	BackupCodesSaved bool    `json:"backupCodesSaved"`
}

// MFAEnrollmentResponse is the wizard plus, once, the generated backup codes.
type MFAEnrollmentResponse struct {
	Success     bool       `json:"success"`
	Error       string     `json:"error,omitempty"`
	Wizard      *MFAWizard `json:"wizard"`
	BackupCodes []string   `json:"backupCodes,omitempty"`
}

// MFAChooseAppRequest starts enrollment with the chosen authenticator app.
type MFAChooseAppRequest struct {
	App string `json:"app"`
}

// MFAFinishRequest acknowledges that backup codes were saved.
type MFAFinishRequest struct {
	Saved bool `json:"saved"`
}

// MFADismissRequest snoozes the banner for the given days-remaining value.
type MFADismissRequest struct {
	DaysRemaining int `json:"daysRemaining"`
}
