package services

import (
	"context"
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"dailyDoodleAPI/internal/badge"
	"dailyDoodleAPI/internal/doodle"
	"dailyDoodleAPI/internal/localstore"
	"dailyDoodleAPI/internal/social"
	"dailyDoodleAPI/internal/streak"
	"dailyDoodleAPI/internal/user"
)

var reconcilePullFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reconciliation_pull_failures_total",
		Help: "Reconciliation pulls that fell back to the local cache",
	},
	[]string{"entity"},
)

func init() {
	prometheus.MustRegister(reconcilePullFailures)
}

// SyncRemote is the slice of the remote store the reconciliation loader
// reads from (and replays unsynced badges into).
type SyncRemote interface {
	SelectBadges(ctx context.Context, userID string) ([]badge.Badge, error)
	InsertBadge(ctx context.Context, b *badge.Badge) error
	SelectStreak(ctx context.Context, userID string) (*streak.Streak, error)
	SelectFollowing(ctx context.Context, followerID string) ([]social.Follow, error)
	SelectOwnDoodles(ctx context.Context, userID string) ([]doodle.Doodle, error)
	SelectPublicDoodles(ctx context.Context) ([]doodle.Doodle, error)
}

// SyncService is the reconciliation loader: one pass per session start (or
// explicit refresh) that merges remote-authoritative state into the local
// cache and replays unsynced local writes upward. The four pulls fail
// independently; a failed pull leaves that collection cached as-is
// (degraded mode) and never aborts the rest.
type SyncService struct {
	local  *localstore.Store
	remote SyncRemote
	badges *BadgeService
}

func NewSyncService(local *localstore.Store, remote SyncRemote, badges *BadgeService) *SyncService {
	return &SyncService{local: local, remote: remote, badges: badges}
}

// Load runs the full reconciliation pass for the acting user.
func (s *SyncService) Load(ctx context.Context, ident user.Identity) {
	s.reconcileBadges(ctx, ident.UserID)
	s.reconcileStreak(ctx, ident.UserID)
	s.reconcileFollows(ctx, ident.UserID)
	s.reconcileDoodles(ctx, ident.UserID)

	// Opportunistic grants, through the normal award path so uniqueness
	// checks still apply.
	if _, err := s.badges.Award(ctx, ident.UserID, badge.TypeWelcome); err != nil {
		log.Printf("Welcome badge grant failed: %v", err)
	}
	if ident.IsPremium {
		if _, err := s.badges.Award(ctx, ident.UserID, badge.TypePremiumMember); err != nil {
			log.Printf("Premium badge grant failed: %v", err)
		}
	}
}

// Reset wipes the local cache on logout. Everything successfully pushed
// already lives in the remote store; unsynced writes are abandoned by
// design.
func (s *SyncService) Reset() error {
	return s.local.Wipe()
}

// reconcileBadges pulls the authoritative badge set. Remote wins; any
// locally cached badge type the remote does not know about is an unsynced
// local write and is replayed up exactly once, then kept in the merged set.
func (s *SyncService) reconcileBadges(ctx context.Context, userID string) {
	remote, err := s.remote.SelectBadges(ctx, userID)
	if err != nil {
		reconcilePullFailures.WithLabelValues("badges").Inc()
		log.Printf("Badge pull failed, keeping cached badges: %v", err)
		return
	}

	remoteTypes := make(map[badge.BadgeType]bool, len(remote))
	for _, b := range remote {
		remoteTypes[b.BadgeType] = true
	}

	cached, err := localstore.Load[badge.Badge](s.local, localstore.NSBadges)
	if err != nil {
		log.Printf("Badge merge failed: %v", err)
		return
	}

	merged := remote
	for _, b := range cached {
		if b.UserID != userID {
			// The cache is shared across users on this device; other
			// users' badges are not ours to touch.
			merged = append(merged, b)
			continue
		}
		if remoteTypes[b.BadgeType] {
			continue
		}
		// Unsynced local write: replay it upward, keep it either way.
		replay := b
		if err := s.remote.InsertBadge(ctx, &replay); err != nil {
			log.Printf("Badge replay failed for %s: %v", b.BadgeType, err)
		}
		merged = append(merged, b)
		remoteTypes[b.BadgeType] = true
	}

	if err := localstore.Save(s.local, localstore.NSBadges, merged); err != nil {
		log.Printf("Badge merge failed: %v", err)
	}
}

func (s *SyncService) reconcileStreak(ctx context.Context, userID string) {
	remote, err := s.remote.SelectStreak(ctx, userID)
	if err != nil {
		reconcilePullFailures.WithLabelValues("streak").Inc()
		log.Printf("Streak pull failed, keeping cached streak: %v", err)
		return
	}

	rec := streak.Zero(userID)
	if remote != nil {
		rec = *remote
	}

	err = localstore.Update(s.local, localstore.NSStreaks, func(records []streak.Streak) []streak.Streak {
		for i := range records {
			if records[i].UserID == userID {
				records[i] = rec
				return records
			}
		}
		return append(records, rec)
	})
	if err != nil {
		log.Printf("Streak merge failed: %v", err)
	}
}

// reconcileFollows replaces the acting user's edges while keeping cached
// edges that belong to other users seen on this device.
func (s *SyncService) reconcileFollows(ctx context.Context, userID string) {
	remote, err := s.remote.SelectFollowing(ctx, userID)
	if err != nil {
		reconcilePullFailures.WithLabelValues("follows").Inc()
		log.Printf("Follow pull failed, keeping cached follows: %v", err)
		return
	}

	err = localstore.Update(s.local, localstore.NSFollows, func(records []social.Follow) []social.Follow {
		kept := remote
		for _, f := range records {
			if f.FollowerID != userID {
				kept = append(kept, f)
			}
		}
		return kept
	})
	if err != nil {
		log.Printf("Follow merge failed: %v", err)
	}
}

// reconcileDoodles merges the union of the user's own doodles (public and
// private) and all public doodles, de-duplicated by id with own records
// winning on conflict. Merging only upserts by id; it never deletes.
func (s *SyncService) reconcileDoodles(ctx context.Context, userID string) {
	own, ownErr := s.remote.SelectOwnDoodles(ctx, userID)
	public, pubErr := s.remote.SelectPublicDoodles(ctx)
	if ownErr != nil && pubErr != nil {
		reconcilePullFailures.WithLabelValues("doodles").Inc()
		log.Printf("Doodle pull failed, keeping cached doodles: %v / %v", ownErr, pubErr)
		return
	}

	incoming := make(map[string]doodle.Doodle)
	for _, d := range public {
		incoming[d.ID] = d
	}
	for _, d := range own {
		// own records take precedence over the public copy
		incoming[d.ID] = d
	}

	err := localstore.Update(s.local, localstore.NSDoodles, func(records []doodle.Doodle) []doodle.Doodle {
		for i := range records {
			if d, ok := incoming[records[i].ID]; ok {
				records[i] = d
				delete(incoming, records[i].ID)
			}
		}
		for _, d := range incoming {
			records = append(records, d)
		}
		return records
	})
	if err != nil {
		log.Printf("Doodle merge failed: %v", err)
	}
}
