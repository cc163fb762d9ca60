// Package mfa holds the grace-period banner rules and the enrollment wizard
// transitions. It performs no I/O.
package mfa

// Urgency levels of the grace-period banner.
const (
	UrgencyCritical = "critical"
	UrgencyUrgent   = "urgent"
	UrgencyWarning  = "warning"
	UrgencyInfo     = "info"
)

// LevelFor bands days remaining in the grace period into an urgency level.
func LevelFor(daysRemaining int) string {
	switch {
	case daysRemaining < 3:
		return UrgencyCritical
	case daysRemaining < 7:
		return UrgencyUrgent
	case daysRemaining < 14:
		return UrgencyWarning
	default:
		return UrgencyInfo
	}
}
