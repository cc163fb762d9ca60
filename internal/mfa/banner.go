package mfa

import (
	"fmt"
	"time"

	"storefront/internal/model"
)

const (
	// MinDismissDays is the smallest days-remaining value that may be dismissed.
	MinDismissDays = 7

	// DismissDuration is how long a dismissal suppresses the banner.
	DismissDuration = 24 * time.Hour
)

// DismissalKey is the durable storage key for a dismissal at daysRemaining.
func DismissalKey(daysRemaining int) string {
	return fmt.Sprintf("mfa-banner-dismissed-%d", daysRemaining)
}

// CanDismiss reports whether the banner may be snoozed at daysRemaining.
func CanDismiss(daysRemaining int) bool {
	return daysRemaining >= MinDismissDays
}

// DismissalExpiry returns when a dismissal made at now stops applying.
func DismissalExpiry(now time.Time) time.Time {
	return now.Add(DismissDuration)
}

// Evaluate builds the banner for status. dismissedUntil is the stored expiry for
// DismissalKey(status.DaysRemaining), or nil when none is stored.
func Evaluate(status model.MFAStatus, dismissedUntil *time.Time, now time.Time) model.MFABanner {
	if !status.Required || status.Enabled || !status.InGracePeriod {
		return model.MFABanner{}
	}
	if dismissedUntil != nil && now.Before(*dismissedUntil) {
		return model.MFABanner{}
	}

	banner := model.MFABanner{
		Show:          true,
		Urgency:       LevelFor(status.DaysRemaining),
		DaysRemaining: status.DaysRemaining,
		CanDismiss:    CanDismiss(status.DaysRemaining),
	}
	if status.GracePeriodEndsAt != nil {
		if remaining := status.GracePeriodEndsAt.Sub(now); remaining > 0 {
			banner.SecondsRemaining = int64(remaining / time.Second)
		}
	}

	return banner
}
