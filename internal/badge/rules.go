package badge

import (
	"time"

	"dailyDoodleAPI/internal/appdate"
	"dailyDoodleAPI/internal/stats"
)

// RuleKind tags the predicate variant a rule is evaluated with.
type RuleKind int

const (
	// KindGrant badges are issued directly (session establishment, premium
	// entitlement); the dispatcher never fires them from counters.
	KindGrant RuleKind = iota
	KindThreshold
	KindStreak
	KindCalendarDay
	KindCalendarWindow
)

// Counter selects which aggregate a threshold rule reads.
type Counter int

const (
	CounterUploads Counter = iota
	CounterLikesGiven
	CounterLikesReceived
	CounterFollowing
	CounterShares
	CounterFavorites
	CounterPromptIdeas
)

// StreakInput selects which streak a streak rule reads.
type StreakInput int

const (
	StreakView StreakInput = iota
	StreakUpload
)

// Snapshot is everything a rule may read: current counters, streak values,
// today's canonical date and the raw upload timestamps (month-window rules
// re-scan those instead of trusting a running total).
type Snapshot struct {
	Stats       stats.UserStats
	Following   int
	ViewStreak  int
	Today       string
	UploadTimes []time.Time
}

func (s Snapshot) counter(c Counter) int {
	switch c {
	case CounterUploads:
		return s.Stats.TotalUploads
	case CounterLikesGiven:
		return s.Stats.TotalLikesGiven
	case CounterLikesReceived:
		return s.Stats.TotalLikesReceived
	case CounterFollowing:
		return s.Following
	case CounterShares:
		return s.Stats.TotalShares
	case CounterFavorites:
		return s.Stats.TotalFavorites
	case CounterPromptIdeas:
		if s.Stats.HasSubmittedPromptIdea {
			return 1
		}
	}
	return 0
}

func (s Snapshot) uploadsInWindow(start, end string) int {
	n := 0
	for _, t := range s.UploadTimes {
		if appdate.InWindow(appdate.FromTime(t), start, end) {
			n++
		}
	}
	return n
}

// Rule is one badge-eligibility predicate as data. Which fields matter
// depends on Kind.
type Rule struct {
	Type        BadgeType
	Kind        RuleKind
	Counter     Counter
	Streak      StreakInput
	Min         int
	Day         string
	WindowStart string
	WindowEnd   string
}

// Satisfied is the single dispatcher over all rule variants.
func (r Rule) Satisfied(s Snapshot) bool {
	switch r.Kind {
	case KindThreshold:
		return s.counter(r.Counter) >= r.Min
	case KindStreak:
		v := s.ViewStreak
		if r.Streak == StreakUpload {
			v = s.Stats.ConsecutiveUploadDays
		}
		return v >= r.Min
	case KindCalendarDay:
		return s.Today == r.Day
	case KindCalendarWindow:
		return appdate.InWindow(s.Today, r.WindowStart, r.WindowEnd) &&
			s.uploadsInWindow(r.WindowStart, r.WindowEnd) >= r.Min
	}
	return false
}

func threshold(t BadgeType, c Counter, min int) Rule {
	return Rule{Type: t, Kind: KindThreshold, Counter: c, Min: min}
}

func streakRule(t BadgeType, in StreakInput, min int) Rule {
	return Rule{Type: t, Kind: KindStreak, Streak: in, Min: min}
}

func day(t BadgeType, date string) Rule {
	return Rule{Type: t, Kind: KindCalendarDay, Day: date}
}

func window(t BadgeType, start, end string, min int) Rule {
	return Rule{Type: t, Kind: KindCalendarWindow, WindowStart: start, WindowEnd: end, Min: min}
}

// Registry is the full rule set, evaluated after every mutating action.
var Registry = []Rule{
	{Type: TypeWelcome, Kind: KindGrant},
	{Type: TypePremiumMember, Kind: KindGrant},

	threshold(TypeFirstDoodle, CounterUploads, 1),
	threshold(TypeDoodles10, CounterUploads, 10),
	threshold(TypeDoodles25, CounterUploads, 25),
	threshold(TypeDoodles50, CounterUploads, 50),
	threshold(TypeDoodles100, CounterUploads, 100),

	threshold(TypeFirstLikeGiven, CounterLikesGiven, 1),
	threshold(TypeLikesGiven10, CounterLikesGiven, 10),
	threshold(TypeLikesGiven50, CounterLikesGiven, 50),
	threshold(TypeLikesGiven100, CounterLikesGiven, 100),

	threshold(TypeFirstLikeReceived, CounterLikesReceived, 1),
	threshold(TypeLikesReceived10, CounterLikesReceived, 10),
	threshold(TypeLikesReceived50, CounterLikesReceived, 50),
	threshold(TypeLikesReceived100, CounterLikesReceived, 100),

	threshold(TypeFirstFollow, CounterFollowing, 1),
	threshold(TypeFollowing10, CounterFollowing, 10),
	threshold(TypeFollowing25, CounterFollowing, 25),

	threshold(TypeFirstShare, CounterShares, 1),
	threshold(TypeShares10, CounterShares, 10),
	threshold(TypeShares50, CounterShares, 50),

	threshold(TypeFirstFavorite, CounterFavorites, 1),
	threshold(TypeFavorites10, CounterFavorites, 10),
	threshold(TypeFavorites25, CounterFavorites, 25),

	threshold(TypeIdeaMachine, CounterPromptIdeas, 1),

	streakRule(TypeStreak3, StreakView, 3),
	streakRule(TypeStreak7, StreakView, 7),
	streakRule(TypeStreak14, StreakView, 14),
	streakRule(TypeStreak30, StreakView, 30),
	streakRule(TypeStreak100, StreakView, 100),

	streakRule(TypeUploadStreak3, StreakUpload, 3),
	streakRule(TypeUploadStreak7, StreakUpload, 7),
	streakRule(TypeUploadStreak14, StreakUpload, 14),
	streakRule(TypeUploadStreak30, StreakUpload, 30),
	streakRule(TypeUploadStreak100, StreakUpload, 100),

	day(TypeHalloween2025, "2025-10-31"),
	day(TypeNewYear2026, "2026-01-01"),
	day(TypeValentine2026, "2026-02-14"),
	day(TypeBirthday2026, "2026-03-01"),

	window(TypeInktober2025, "2025-10-01", "2025-10-31", 15),
	window(TypeHolidaySketch2025, "2025-12-01", "2025-12-31", 15),
	window(TypeSummerSprint2026, "2026-06-01", "2026-06-30", 20),
}
