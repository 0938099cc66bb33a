package badge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyDoodleAPI/internal/stats"
)

func ruleFor(t *testing.T, bt BadgeType) Rule {
	t.Helper()
	for _, r := range Registry {
		if r.Type == bt {
			return r
		}
	}
	t.Fatalf("no rule registered for %s", bt)
	return Rule{}
}

func TestRegistryCoversEveryBadgeOnce(t *testing.T) {
	seen := make(map[BadgeType]bool)
	for _, r := range Registry {
		require.False(t, seen[r.Type], "duplicate rule for %s", r.Type)
		seen[r.Type] = true
	}
	assert.Len(t, seen, 42)
}

func TestThresholdRules(t *testing.T) {
	tests := []struct {
		name string
		rule BadgeType
		snap Snapshot
		want bool
	}{
		{"first doodle at one upload", TypeFirstDoodle, Snapshot{Stats: stats.UserStats{TotalUploads: 1}}, true},
		{"first doodle at zero", TypeFirstDoodle, Snapshot{}, false},
		{"doodles 25 exactly at threshold", TypeDoodles25, Snapshot{Stats: stats.UserStats{TotalUploads: 25}}, true},
		{"doodles 25 one short", TypeDoodles25, Snapshot{Stats: stats.UserStats{TotalUploads: 24}}, false},
		{"doodles 25 past threshold", TypeDoodles25, Snapshot{Stats: stats.UserStats{TotalUploads: 60}}, true},
		{"likes given", TypeLikesGiven10, Snapshot{Stats: stats.UserStats{TotalLikesGiven: 10}}, true},
		{"likes received", TypeLikesReceived50, Snapshot{Stats: stats.UserStats{TotalLikesReceived: 49}}, false},
		{"following count", TypeFollowing10, Snapshot{Following: 10}, true},
		{"shares", TypeFirstShare, Snapshot{Stats: stats.UserStats{TotalShares: 1}}, true},
		{"favorites", TypeFavorites25, Snapshot{Stats: stats.UserStats{TotalFavorites: 25}}, true},
		{"prompt idea flag", TypeIdeaMachine, Snapshot{Stats: stats.UserStats{HasSubmittedPromptIdea: true}}, true},
		{"prompt idea unset", TypeIdeaMachine, Snapshot{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ruleFor(t, tt.rule).Satisfied(tt.snap))
		})
	}
}

func TestStreakRules(t *testing.T) {
	viewSnap := Snapshot{ViewStreak: 7}
	assert.True(t, ruleFor(t, TypeStreak7).Satisfied(viewSnap))
	assert.True(t, ruleFor(t, TypeStreak3).Satisfied(viewSnap))
	assert.False(t, ruleFor(t, TypeStreak14).Satisfied(viewSnap))

	// the two streak families read independent inputs
	uploadSnap := Snapshot{Stats: stats.UserStats{ConsecutiveUploadDays: 14}}
	assert.True(t, ruleFor(t, TypeUploadStreak14).Satisfied(uploadSnap))
	assert.False(t, ruleFor(t, TypeStreak14).Satisfied(uploadSnap))
}

func TestCalendarDayRules(t *testing.T) {
	halloween := ruleFor(t, TypeHalloween2025)
	assert.True(t, halloween.Satisfied(Snapshot{Today: "2025-10-31"}))
	assert.False(t, halloween.Satisfied(Snapshot{Today: "2025-10-30"}))
	assert.False(t, halloween.Satisfied(Snapshot{Today: "2025-11-01"}))
}

func noonUTC(t *testing.T, date string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return parsed.Add(12 * time.Hour)
}

func TestCalendarWindowRules(t *testing.T) {
	uploads := func(dates ...string) []time.Time {
		var out []time.Time
		for _, d := range dates {
			out = append(out, noonUTC(t, d))
		}
		return out
	}

	inktober := ruleFor(t, TypeInktober2025)

	// 15 uploads inside the window qualifies
	var inWindow []string
	for i := 1; i <= 15; i++ {
		inWindow = append(inWindow, time.Date(2025, 10, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"))
	}
	snap := Snapshot{Today: "2025-10-20", UploadTimes: uploads(inWindow...)}
	assert.True(t, inktober.Satisfied(snap))

	// uploads outside the window don't count toward it
	mixed := append([]string{"2025-09-29", "2025-09-30", "2025-11-01"}, inWindow[:13]...)
	snap = Snapshot{Today: "2025-10-20", UploadTimes: uploads(mixed...)}
	assert.False(t, inktober.Satisfied(snap))

	// qualifying count evaluated after the window closed never fires
	snap = Snapshot{Today: "2025-11-02", UploadTimes: uploads(inWindow...)}
	assert.False(t, inktober.Satisfied(snap))
}
