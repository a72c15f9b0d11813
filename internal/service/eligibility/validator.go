// Package eligibility decides whether a cancellation qualifies for a makeup credit.
package eligibility

import (
	"time"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// Validate reports whether the reason is eligible under the config.
// Unknown reasons and an empty reason list are never eligible.
func Validate(reason domain.CancellationReason, config *domain.MakeupConfig) bool {
	if config == nil || !reason.IsKnown() {
		return false
	}
	for _, valid := range config.ValidReasons {
		if valid == reason {
			return true
		}
	}
	return false
}

// WithinCancellationWindow reports whether a cancellation registered at now
// is still inside maxDaysFromCancellation of cancelledAt.
func WithinCancellationWindow(cancelledAt, now time.Time, config *domain.MakeupConfig) bool {
	if config == nil {
		return false
	}
	window := time.Duration(config.MaxDaysFromCancellation) * 24 * time.Hour
	return now.Sub(cancelledAt) <= window
}
