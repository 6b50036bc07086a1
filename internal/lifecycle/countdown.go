package lifecycle

import (
	"time"

	"github.com/ironthroneruler/lostandfound/internal/models"
)

// VerifiedHoldDays is the pickup window after a claim is approved; once it
// elapses the item is ready to be discarded.
const VerifiedHoldDays = 60

// DefaultAutoDiscardDays is the unclaimed-item sweep threshold.
const DefaultAutoDiscardDays = 90

// Countdown display tiers. Only the thresholds are contractual; wording is a
// presentation concern.
type Tier string

const (
	TierReady  Tier = "ready"  // 0 days left
	TierUrgent Tier = "urgent" // 1..7 days left
	TierNear   Tier = "near"   // 8..14 days left
	TierNormal Tier = "normal" // >14 days left
)

// DaysSinceReported is the whole number of days since the item was reported.
func DaysSinceReported(item *models.Item, now time.Time) int {
	return daysBetween(item.CreatedAt, now)
}

// DaysSinceVerified is the whole number of days since the item's claim was
// approved. The second return is false when no verification has happened.
func DaysSinceVerified(item *models.Item, now time.Time) (int, bool) {
	if item.VerifiedDate == nil {
		return 0, false
	}
	return daysBetween(*item.VerifiedDate, now), true
}

// DaysUntilDiscard is the remaining pickup window, clamped at zero.
func DaysUntilDiscard(item *models.Item, now time.Time) (int, bool) {
	since, ok := DaysSinceVerified(item, now)
	if !ok {
		return 0, false
	}
	remaining := VerifiedHoldDays - since
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// ReadyForDiscard reports whether the pickup window has fully elapsed.
func ReadyForDiscard(item *models.Item, now time.Time) bool {
	remaining, ok := DaysUntilDiscard(item, now)
	return ok && remaining == 0
}

// DiscardTier buckets the remaining pickup window for display.
func DiscardTier(item *models.Item, now time.Time) (Tier, bool) {
	remaining, ok := DaysUntilDiscard(item, now)
	if !ok {
		return "", false
	}
	switch {
	case remaining == 0:
		return TierReady, true
	case remaining <= 7:
		return TierUrgent, true
	case remaining <= 14:
		return TierNear, true
	default:
		return TierNormal, true
	}
}

// EligibleForAutoDiscard reports whether the sweep should discard the item:
// still open for claims and reported at least thresholdDays ago.
func EligibleForAutoDiscard(item *models.Item, now time.Time, thresholdDays int) bool {
	return item.OpenForClaims() && DaysSinceReported(item, now) >= thresholdDays
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
