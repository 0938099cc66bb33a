package services

import (
	"context"

	"dailyDoodleAPI/internal/appdate"
	"dailyDoodleAPI/internal/apperr"
	"dailyDoodleAPI/internal/localstore"
	"dailyDoodleAPI/internal/streak"
	"dailyDoodleAPI/internal/user"
)

type StreakRemote interface {
	UpsertStreak(ctx context.Context, s *streak.Streak) error
}

// StreakService orchestrates the pure streak calculator against the two
// stores and fires streak badge checks after every real advance.
type StreakService struct {
	pusher
	local  *localstore.Store
	remote StreakRemote
	badges *BadgeService
}

func NewStreakService(local *localstore.Store, remote StreakRemote, badges *BadgeService) *StreakService {
	return &StreakService{local: local, remote: remote, badges: badges}
}

// Get returns the cached streak, or a zero-value record before the first
// progression event.
func (s *StreakService) Get(userID string) (streak.Streak, error) {
	records, err := localstore.Load[streak.Streak](s.local, localstore.NSStreaks)
	if err != nil {
		return streak.Streak{}, err
	}
	for _, r := range records {
		if r.UserID == userID {
			return r, nil
		}
	}
	return streak.Zero(userID), nil
}

func (s *StreakService) save(rec streak.Streak) error {
	return localstore.Update(s.local, localstore.NSStreaks, func(records []streak.Streak) []streak.Streak {
		for i := range records {
			if records[i].UserID == rec.UserID {
				records[i] = rec
				return records
			}
		}
		return append(records, rec)
	})
}

// RecordDailyView advances the view streak for today. Called at most once
// effectively per canonical day; repeat calls are no-ops and never trigger
// badge checks.
func (s *StreakService) RecordDailyView(ctx context.Context, ident user.Identity) (streak.Streak, error) {
	prev, err := s.Get(ident.UserID)
	if err != nil {
		return streak.Streak{}, err
	}

	next, advanced := streak.RecordProgress(prev, appdate.Today())
	if !advanced {
		return prev, nil
	}

	if err := s.save(next); err != nil {
		return streak.Streak{}, err
	}

	rec := next
	s.push("streak", func(ctx context.Context) error {
		return s.remote.UpsertStreak(ctx, &rec)
	})

	s.badges.Evaluate(ctx, ident.UserID)
	return next, nil
}

// UseFreeze consumes the premium-gated monthly freeze token, bridging a
// missed day. Pure freeze consumption never fires badge checks.
func (s *StreakService) UseFreeze(ctx context.Context, ident user.Identity) (streak.Streak, error) {
	if !ident.IsPremium {
		return streak.Streak{}, apperr.Authorization("streak freezes require a premium plan")
	}

	prev, err := s.Get(ident.UserID)
	if err != nil {
		return streak.Streak{}, err
	}
	if !streak.CanUseFreeze(prev, ident.IsPremium) {
		return streak.Streak{}, apperr.Validation("no streak freeze available this month")
	}

	next := streak.UseFreeze(prev, appdate.Today())
	if err := s.save(next); err != nil {
		return streak.Streak{}, err
	}

	rec := next
	s.push("streak freeze", func(ctx context.Context) error {
		return s.remote.UpsertStreak(ctx, &rec)
	})
	return next, nil
}
