package mfa

import (
	"strconv"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFor_Boundaries(t *testing.T) {
	tests := []struct {
		days     int
		expected string
	}{
		{0, UrgencyCritical},
		{2, UrgencyCritical},
		{3, UrgencyUrgent},
		{6, UrgencyUrgent},
		{7, UrgencyWarning},
		{13, UrgencyWarning},
		{14, UrgencyInfo},
		{30, UrgencyInfo},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.days), func(t *testing.T) {
			assert.Equal(t, tt.expected, LevelFor(tt.days))
		})
	}
}

func TestCanDismiss(t *testing.T) {
	assert.False(t, CanDismiss(6))
	assert.True(t, CanDismiss(7))
	assert.True(t, CanDismiss(10))
}

func TestDismissalKey(t *testing.T) {
	assert.Equal(t, "mfa-banner-dismissed-10", DismissalKey(10))
	assert.NotEqual(t, DismissalKey(10), DismissalKey(6))
}

func graceStatus(days int, endsAt *time.Time) model.MFAStatus {
	return model.MFAStatus{
		Required:          true,
		InGracePeriod:     true,
		DaysRemaining:     days,
		GracePeriodEndsAt: endsAt,
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Second)

	tests := []struct {
		name           string
		status         model.MFAStatus
		dismissedUntil *time.Time
		expectShow     bool
		expectDismiss  bool
	}{
		{
			name:          "Shown in grace period",
			status:        graceStatus(10, nil),
			expectShow:    true,
			expectDismiss: true,
		},
		{
			name:       "Hidden when not required",
			status:     model.MFAStatus{InGracePeriod: true, DaysRemaining: 10},
			expectShow: false,
		},
		{
			name:       "Hidden when already enabled",
			status:     model.MFAStatus{Required: true, Enabled: true, InGracePeriod: true, DaysRemaining: 10},
			expectShow: false,
		},
		{
			name:       "Hidden outside grace period",
			status:     model.MFAStatus{Required: true, DaysRemaining: 0},
			expectShow: false,
		},
		{
			name:           "Hidden while dismissed",
			status:         graceStatus(10, nil),
			dismissedUntil: &future,
			expectShow:     false,
		},
		{
			name:           "Shown after dismissal expired",
			status:         graceStatus(10, nil),
			dismissedUntil: &past,
			expectShow:     true,
			expectDismiss:  true,
		},
		{
			name:          "Not dismissible below seven days",
			status:        graceStatus(6, nil),
			expectShow:    true,
			expectDismiss: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			banner := Evaluate(tt.status, tt.dismissedUntil, now)

			assert.Equal(t, tt.expectShow, banner.Show)
			assert.Equal(t, tt.expectDismiss, banner.CanDismiss)
			if tt.expectShow {
				assert.Equal(t, LevelFor(tt.status.DaysRemaining), banner.Urgency)
			}
		})
	}
}

func TestEvaluate_SecondsRemaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	endsAt := now.Add(90 * time.Minute)

	banner := Evaluate(graceStatus(1, &endsAt), nil, now)

	assert.True(t, banner.Show)
	assert.Equal(t, UrgencyCritical, banner.Urgency)
	assert.Equal(t, int64(5400), banner.SecondsRemaining)
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"123456", "123456"},
		{"123 456", "123456"},
		{"12-34-56-78", "123456"},
		{"abc", ""},
		{"١٢٣", ""},
		{"12", "12"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCode(tt.input))
		})
	}
}

func TestWizard_HappyPath(t *testing.T) {
	w := NewWizard()
	require.True(t, ValidWizard(w))

	require.NoError(t, ChooseApp(w, "google", model.MFASetup{Secret: "SECRET", QRCode: "data:image/png;base64,xyz"}))
	assert.Equal(t, model.MFAStepScan, w.Step)
	assert.Equal(t, "SECRET", w.Secret)

	require.NoError(t, Continue(w))
	assert.Equal(t, model.MFAStepVerify, w.Step)

	ready, err := EnterCode(w, "123")
	require.NoError(t, err)
	assert.False(t, ready)

	ready, err = EnterCode(w, "123 456")
	require.NoError(t, err)
	assert.True(t, ready)
	assert.Equal(t, "123456", w.Code)

	require.NoError(t, Verified(w))
	assert.Equal(t, model.MFAStepBackupCodes, w.Step)
	assert.Empty(t, w.Secret)
	assert.Empty(t, w.Code)

	assert.ErrorIs(t, Finish(w, false), model.ErrBackupCodesNotSaved)
	assert.Equal(t, model.MFAStepBackupCodes, w.Step)

	require.NoError(t, Finish(w, true))
	assert.Equal(t, model.MFAStepComplete, w.Step)
	assert.True(t, w.BackupCodesSaved)
}

func TestWizard_VerificationFailureKeepsEarlierSteps(t *testing.T) {
	w := &model.MFAWizard{Step: model.MFAStepVerify, App: "authy", Secret: "SECRET", Code: "123456"}

	VerificationFailed(w, "Invalid code")

	assert.Equal(t, model.MFAStepVerify, w.Step)
	assert.Empty(t, w.Code)
	assert.Equal(t, "Invalid code", w.Error)
	assert.Equal(t, "authy", w.App)
	assert.Equal(t, "SECRET", w.Secret)
}

func TestWizard_StrictlyForward(t *testing.T) {
	tests := []struct {
		name string
		step model.MFAStep
		act  func(w *model.MFAWizard) error
	}{
		{"choose app twice", model.MFAStepScan, func(w *model.MFAWizard) error { return ChooseApp(w, "x", model.MFASetup{}) }},
		{"continue from verify", model.MFAStepVerify, Continue},
		{"verify from scan", model.MFAStepScan, Verified},
		{"finish from verify", model.MFAStepVerify, func(w *model.MFAWizard) error { return Finish(w, true) }},
		{"code after completion", model.MFAStepComplete, func(w *model.MFAWizard) error { _, err := EnterCode(w, "123456"); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &model.MFAWizard{Step: tt.step}

			err := tt.act(w)

			assert.ErrorIs(t, err, model.ErrInvalidStep)
			assert.Equal(t, tt.step, w.Step)
		})
	}
}

func TestValidWizard(t *testing.T) {
	assert.False(t, ValidWizard(nil))
	assert.False(t, ValidWizard(&model.MFAWizard{Step: "bogus"}))
	assert.True(t, ValidWizard(&model.MFAWizard{Step: model.MFAStepComplete}))
}
