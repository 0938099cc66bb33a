package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"dailyDoodleAPI/internal/appdate"
	"dailyDoodleAPI/internal/badge"
	"dailyDoodleAPI/internal/doodle"
	"dailyDoodleAPI/internal/localstore"
	"dailyDoodleAPI/internal/social"
	"dailyDoodleAPI/internal/streak"
)

var badgeAwardsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "badge_awards_total",
		Help: "Badges awarded, by badge type",
	},
	[]string{"badge_type"},
)

func init() {
	prometheus.MustRegister(badgeAwardsTotal)
}

// BadgeRemote is the slice of the remote store the badge engine pushes to.
type BadgeRemote interface {
	InsertBadge(ctx context.Context, b *badge.Badge) error
}

// BadgeService is the rule engine: it evaluates the predicate registry
// against a user's counters after every qualifying action and issues
// badges idempotently — at most one badge per (user, type), ever.
type BadgeService struct {
	pusher
	local  *localstore.Store
	remote BadgeRemote
	stats  *StatsService
}

func NewBadgeService(local *localstore.Store, remote BadgeRemote, stats *StatsService) *BadgeService {
	return &BadgeService{local: local, remote: remote, stats: stats}
}

func (s *BadgeService) ListForUser(userID string) ([]badge.Badge, error) {
	all, err := localstore.Load[badge.Badge](s.local, localstore.NSBadges)
	if err != nil {
		return nil, err
	}
	owned := make([]badge.Badge, 0)
	for _, b := range all {
		if b.UserID == userID {
			owned = append(owned, b)
		}
	}
	return owned, nil
}

// Award issues badgeType to userID unless the user already holds it, in
// which case it is a silent no-op. The local write happens first so the UI
// sees the award immediately; the remote push runs in the background and a
// failure there leaves the badge unsynced for the next reconciliation.
func (s *BadgeService) Award(ctx context.Context, userID string, badgeType badge.BadgeType) (*badge.Badge, error) {
	awarded, err := s.awardLocal(userID, badgeType)
	if err != nil || awarded == nil {
		return nil, err
	}

	b := *awarded
	s.push("badge "+string(badgeType), func(ctx context.Context) error {
		return s.remote.InsertBadge(ctx, &b)
	})
	return awarded, nil
}

// AwardLocalOnly issues a badge without any remote push. Used for
// cross-user awards: the remote store's row policy only permits self-writes,
// so the owner's copy becomes durable when their own session reconciles.
func (s *BadgeService) AwardLocalOnly(userID string, badgeType badge.BadgeType) (*badge.Badge, error) {
	return s.awardLocal(userID, badgeType)
}

// awardLocal performs the existence check and the insert under the cache
// lock, so rapid duplicate attempts cannot double-award.
func (s *BadgeService) awardLocal(userID string, badgeType badge.BadgeType) (*badge.Badge, error) {
	var created *badge.Badge
	err := localstore.Update(s.local, localstore.NSBadges, func(records []badge.Badge) []badge.Badge {
		for _, b := range records {
			if b.UserID == userID && b.BadgeType == badgeType {
				return records
			}
		}
		b := badge.Badge{
			ID:        uuid.New().String(),
			UserID:    userID,
			BadgeType: badgeType,
			EarnedAt:  time.Now(),
		}
		created = &b
		return append(records, b)
	})
	if err != nil {
		return nil, err
	}
	if created != nil {
		badgeAwardsTotal.WithLabelValues(string(badgeType)).Inc()
		log.Printf("Awarded badge %s to user %s", badgeType, userID)
	}
	return created, nil
}

// Evaluate re-checks the whole rule registry for the acting user and awards
// everything newly satisfied. Checking every rule is cheap and keeps the
// trigger sites simple; Award's idempotency guarantees each rule still
// fires at most once per user.
func (s *BadgeService) Evaluate(ctx context.Context, userID string) []badge.Badge {
	return s.evaluate(ctx, userID, false)
}

// EvaluateCrossUser runs the registry for a user other than the actor.
// Awards stay local-only (see AwardLocalOnly).
func (s *BadgeService) EvaluateCrossUser(ctx context.Context, userID string) []badge.Badge {
	return s.evaluate(ctx, userID, true)
}

func (s *BadgeService) evaluate(ctx context.Context, userID string, localOnly bool) []badge.Badge {
	snap, err := s.snapshot(userID)
	if err != nil {
		log.Printf("Badge evaluation skipped for user %s: %v", userID, err)
		return nil
	}

	var awarded []badge.Badge
	for _, rule := range badge.Registry {
		if rule.Kind == badge.KindGrant {
			continue
		}
		if !rule.Satisfied(snap) {
			continue
		}

		var b *badge.Badge
		if localOnly {
			b, err = s.AwardLocalOnly(userID, rule.Type)
		} else {
			b, err = s.Award(ctx, userID, rule.Type)
		}
		if err != nil {
			log.Printf("Failed to award badge %s to user %s: %v", rule.Type, userID, err)
			continue
		}
		if b != nil {
			awarded = append(awarded, *b)
		}
	}
	return awarded
}

// snapshot gathers every rule input from the local cache: aggregate
// counters, the view streak, the follow count and the raw upload timestamps
// for month-window re-scans.
func (s *BadgeService) snapshot(userID string) (badge.Snapshot, error) {
	st, err := s.stats.Get(userID)
	if err != nil {
		return badge.Snapshot{}, err
	}

	snap := badge.Snapshot{
		Stats: st,
		Today: appdate.Today(),
	}

	streaks, err := localstore.Load[streak.Streak](s.local, localstore.NSStreaks)
	if err != nil {
		return badge.Snapshot{}, err
	}
	for _, rec := range streaks {
		if rec.UserID == userID {
			snap.ViewStreak = rec.CurrentStreak
			break
		}
	}

	follows, err := localstore.Load[social.Follow](s.local, localstore.NSFollows)
	if err != nil {
		return badge.Snapshot{}, err
	}
	for _, f := range follows {
		if f.FollowerID == userID {
			snap.Following++
		}
	}

	doodles, err := localstore.Load[doodle.Doodle](s.local, localstore.NSDoodles)
	if err != nil {
		return badge.Snapshot{}, err
	}
	for _, d := range doodles {
		if d.UserID == userID {
			snap.UploadTimes = append(snap.UploadTimes, d.CreatedAt)
		}
	}

	return snap, nil
}
