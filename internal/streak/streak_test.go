package streak

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordProgress(t *testing.T) {
	tests := []struct {
		name         string
		prev         Streak
		today        string
		wantCurrent  int
		wantLongest  int
		wantAdvanced bool
	}{
		{
			name:         "first ever view starts at one",
			prev:         Zero("u1"),
			today:        "2026-01-10",
			wantCurrent:  1,
			wantLongest:  1,
			wantAdvanced: true,
		},
		{
			name:         "consecutive day increments",
			prev:         Streak{UserID: "u1", CurrentStreak: 4, LongestStreak: 4, LastViewedDate: "2026-01-09"},
			today:        "2026-01-10",
			wantCurrent:  5,
			wantLongest:  5,
			wantAdvanced: true,
		},
		{
			name:         "same day is a no-op",
			prev:         Streak{UserID: "u1", CurrentStreak: 5, LongestStreak: 7, LastViewedDate: "2026-01-10"},
			today:        "2026-01-10",
			wantCurrent:  5,
			wantLongest:  7,
			wantAdvanced: false,
		},
		{
			name:         "missed day resets to one",
			prev:         Streak{UserID: "u1", CurrentStreak: 9, LongestStreak: 9, LastViewedDate: "2026-01-07"},
			today:        "2026-01-10",
			wantCurrent:  1,
			wantLongest:  9,
			wantAdvanced: true,
		},
		{
			name:         "longest never shrinks on reset",
			prev:         Streak{UserID: "u1", CurrentStreak: 3, LongestStreak: 30, LastViewedDate: "2026-01-01"},
			today:        "2026-01-10",
			wantCurrent:  1,
			wantLongest:  30,
			wantAdvanced: true,
		},
		{
			name:         "consecutive across DST change",
			prev:         Streak{UserID: "u1", CurrentStreak: 2, LongestStreak: 2, LastViewedDate: "2026-03-07"},
			today:        "2026-03-08",
			wantCurrent:  3,
			wantLongest:  3,
			wantAdvanced: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, advanced := RecordProgress(tt.prev, tt.today)
			assert.Equal(t, tt.wantAdvanced, advanced)
			assert.Equal(t, tt.wantCurrent, got.CurrentStreak)
			assert.Equal(t, tt.wantLongest, got.LongestStreak)
			if advanced {
				assert.Equal(t, tt.today, got.LastViewedDate)
			}
		})
	}
}

func TestCanUseFreeze(t *testing.T) {
	ok := Streak{FreezeAvailable: true}
	assert.True(t, CanUseFreeze(ok, true))
	assert.False(t, CanUseFreeze(ok, false), "freeze is premium-only")
	assert.False(t, CanUseFreeze(Streak{}, true), "no token held")
	assert.False(t, CanUseFreeze(Streak{FreezeAvailable: true, FreezeUsedThisMonth: true}, true), "one per month")
}

func TestUseFreezeBridgesGap(t *testing.T) {
	s := Streak{
		UserID:          "u1",
		CurrentStreak:   6,
		LongestStreak:   6,
		LastViewedDate:  "2026-01-07",
		FreezeAvailable: true,
	}

	frozen := UseFreeze(s, "2026-01-09")
	assert.False(t, frozen.FreezeAvailable)
	assert.True(t, frozen.FreezeUsedThisMonth)
	assert.Equal(t, "2026-01-08", frozen.LastViewedDate)

	// the bridged gap now reads as consecutive
	next, advanced := RecordProgress(frozen, "2026-01-09")
	assert.True(t, advanced)
	assert.Equal(t, 7, next.CurrentStreak)
}

func TestUseFreezeWithoutGapKeepsDate(t *testing.T) {
	s := Streak{
		UserID:          "u1",
		CurrentStreak:   2,
		LastViewedDate:  "2026-01-09",
		FreezeAvailable: true,
	}

	frozen := UseFreeze(s, "2026-01-10")
	assert.Equal(t, "2026-01-09", frozen.LastViewedDate)
	assert.False(t, frozen.FreezeAvailable)
}
