package mfa

import (
	"strings"
	"unicode"

	"storefront/internal/model"
)

// CodeLength is the number of digits in a TOTP code.
const CodeLength = 6

var wizardOrder = []model.MFAStep{
	model.MFAStepChooseApp,
	model.MFAStepScan,
	model.MFAStepVerify,
	model.MFAStepBackupCodes,
	model.MFAStepComplete,
}

func stepIndex(step model.MFAStep) int {
	for i, s := range wizardOrder {
		if s == step {
			return i
		}
	}
	return -1
}

// NewWizard returns a wizard at its first step.
func NewWizard() *model.MFAWizard {
	return &model.MFAWizard{Step: model.MFAStepChooseApp}
}

// ValidWizard reports whether w is at a known step.
func ValidWizard(w *model.MFAWizard) bool {
	return w != nil && stepIndex(w.Step) >= 0
}

func expectStep(w *model.MFAWizard, step model.MFAStep) error {
	if w.Step != step {
		return model.ErrInvalidStep
	}
	return nil
}

// ChooseApp records the chosen authenticator app and the secret material
// issued for it, moving choose_app to scan.
func ChooseApp(w *model.MFAWizard, app string, setup model.MFASetup) error {
	if err := expectStep(w, model.MFAStepChooseApp); err != nil {
		return err
	}
	w.App = app
	w.Secret = setup.Secret
	w.QRCode = setup.QRCode
	w.Error = ""
	w.Step = model.MFAStepScan
	return nil
}

// Continue moves scan to verify.
func Continue(w *model.MFAWizard) error {
	if err := expectStep(w, model.MFAStepScan); err != nil {
		return err
	}
	w.Step = model.MFAStepVerify
	return nil
}

// NormalizeCode keeps only digits, truncated to CodeLength.
func NormalizeCode(input string) string {
	var b strings.Builder
	for _, r := range input {
		if b.Len() == CodeLength {
			break
		}
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Ready reports whether code is complete and may be submitted.
func Ready(code string) bool {
	return len(code) == CodeLength
}

// EnterCode stores the normalized code on a verify-step wizard and reports
// whether it is ready for submission.
func EnterCode(w *model.MFAWizard, input string) (bool, error) {
	if err := expectStep(w, model.MFAStepVerify); err != nil {
		return false, err
	}
	w.Code = NormalizeCode(input)
	return Ready(w.Code), nil
}

// VerificationFailed clears the code and shows message. Earlier steps keep
// their values.
func VerificationFailed(w *model.MFAWizard, message string) {
	w.Code = ""
	w.Error = message
}

// Verified moves verify to backup_codes.
func Verified(w *model.MFAWizard) error {
	if err := expectStep(w, model.MFAStepVerify); err != nil {
		return err
	}
	w.Code = ""
	w.Error = ""
	w.Secret = ""
	w.QRCode = ""
	w.Step = model.MFAStepBackupCodes
	return nil
}

// Finish completes the wizard once the user confirms the codes were saved.
func Finish(w *model.MFAWizard, saved bool) error {
	if err := expectStep(w, model.MFAStepBackupCodes); err != nil {
		return err
	}
	if !saved {
		return model.ErrBackupCodesNotSaved
	}
	w.BackupCodesSaved = true
	w.Step = model.MFAStepComplete
	return nil
}
