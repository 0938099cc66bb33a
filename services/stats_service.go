package services

import (
	"time"

	"dailyDoodleAPI/internal/appdate"
	"dailyDoodleAPI/internal/localstore"
	"dailyDoodleAPI/internal/stats"
)

// StatsService maintains the per-user aggregate counters in the local
// cache. Stats are derived bookkeeping: they are rebuilt by the components
// that produce the underlying events and never pulled from the remote
// store.
type StatsService struct {
	local *localstore.Store
}

func NewStatsService(local *localstore.Store) *StatsService {
	return &StatsService{local: local}
}

func (s *StatsService) Get(userID string) (stats.UserStats, error) {
	records, err := localstore.Load[stats.UserStats](s.local, localstore.NSStats)
	if err != nil {
		return stats.UserStats{}, err
	}
	for _, r := range records {
		if r.UserID == userID {
			return r, nil
		}
	}
	return stats.UserStats{UserID: userID}, nil
}

// mutate applies fn to the user's stats record atomically, creating a
// zero-value record on first touch.
func (s *StatsService) mutate(userID string, fn func(*stats.UserStats)) (stats.UserStats, error) {
	var result stats.UserStats
	err := localstore.Update(s.local, localstore.NSStats, func(records []stats.UserStats) []stats.UserStats {
		for i := range records {
			if records[i].UserID == userID {
				fn(&records[i])
				records[i].UpdatedAt = time.Now()
				result = records[i]
				return records
			}
		}
		rec := stats.UserStats{UserID: userID}
		fn(&rec)
		rec.UpdatedAt = time.Now()
		result = rec
		return append(records, rec)
	})
	return result, err
}

// recordUpload bumps the upload counters, including the consecutive-day
// upload streak, for an upload happening "today" in the canonical timezone.
func (s *StatsService) recordUpload(userID, today string) (stats.UserStats, error) {
	return s.mutate(userID, func(st *stats.UserStats) {
		st.TotalUploads++
		switch {
		case st.LastUploadDate == today:
			// second upload today, streak unchanged
		case st.LastUploadDate != "" && appdate.DaysBetween(st.LastUploadDate, today) == 1:
			st.ConsecutiveUploadDays++
		default:
			st.ConsecutiveUploadDays = 1
		}
		if st.ConsecutiveUploadDays > st.LongestUploadStreak {
			st.LongestUploadStreak = st.ConsecutiveUploadDays
		}
		st.LastUploadDate = today
	})
}
