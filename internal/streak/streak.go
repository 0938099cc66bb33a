package streak

import (
	"time"

	"dailyDoodleAPI/internal/appdate"
)

// Streak is the one-per-user view streak record. LastViewedDate is a
// canonical-timezone calendar date string; empty means the user has never
// recorded progress.
type Streak struct {
	UserID              string    `json:"user_id"`
	CurrentStreak       int       `json:"current_streak"`
	LongestStreak       int       `json:"longest_streak"`
	LastViewedDate      string    `json:"last_viewed_date,omitempty"`
	FreezeAvailable     bool      `json:"streak_freeze_available"`
	FreezeUsedThisMonth bool      `json:"streak_freeze_used_this_month"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Zero returns the streak record used before the first progression event
// creates a real one.
func Zero(userID string) Streak {
	return Streak{UserID: userID}
}

// RecordProgress advances the streak for today and reports whether it
// actually advanced. Calling it twice on the same canonical day is a no-op.
// A gap of more than one day resets the streak to 1 unless a freeze was
// consumed to bridge it (UseFreeze rewrites LastViewedDate to yesterday, so
// a bridged gap looks consecutive here).
func RecordProgress(prev Streak, today string) (Streak, bool) {
	if prev.LastViewedDate == today {
		return prev, false
	}

	next := prev
	switch {
	case prev.LastViewedDate == "":
		next.CurrentStreak = 1
	case appdate.DaysBetween(prev.LastViewedDate, today) == 1:
		next.CurrentStreak = prev.CurrentStreak + 1
	default:
		next.CurrentStreak = 1
	}

	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.LastViewedDate = today
	next.UpdatedAt = time.Now()
	return next, true
}

// CanUseFreeze reports whether a freeze token may be consumed: the caller
// must be premium-entitled, hold an unused token, and not have used one this
// calendar month already.
func CanUseFreeze(s Streak, isPremium bool) bool {
	return isPremium && s.FreezeAvailable && !s.FreezeUsedThisMonth
}

// UseFreeze consumes the freeze token, bridging a missed day so the next
// RecordProgress continues the streak instead of resetting it. Re-enabling
// FreezeAvailable on month rollover is an external scheduled job.
func UseFreeze(s Streak, today string) Streak {
	next := s
	next.FreezeAvailable = false
	next.FreezeUsedThisMonth = true
	if next.LastViewedDate != "" && appdate.DaysBetween(next.LastViewedDate, today) > 1 {
		next.LastViewedDate = appdate.AddDays(today, -1)
	}
	next.UpdatedAt = time.Now()
	return next
}
