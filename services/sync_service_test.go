package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyDoodleAPI/internal/badge"
	"dailyDoodleAPI/internal/doodle"
	"dailyDoodleAPI/internal/localstore"
	"dailyDoodleAPI/internal/social"
	"dailyDoodleAPI/internal/streak"
	"dailyDoodleAPI/internal/user"
)

func TestLoadGrantsSessionBadges(t *testing.T) {
	env := newTestEnv(t)

	env.sync.Load(context.Background(), user.Identity{UserID: "u1"})
	env.settle()

	owned := env.localBadges(t, "u1")
	assert.True(t, hasBadge(owned, badge.TypeWelcome))
	assert.False(t, hasBadge(owned, badge.TypePremiumMember))
}

func TestLoadGrantsPremiumBadge(t *testing.T) {
	env := newTestEnv(t)

	env.sync.Load(context.Background(), user.Identity{UserID: "u1", IsPremium: true})
	env.settle()

	assert.True(t, hasBadge(env.localBadges(t, "u1"), badge.TypePremiumMember))
}

func TestReconcileBadgesRemoteWins(t *testing.T) {
	env := newTestEnv(t)
	env.remote.badges = []badge.Badge{
		{ID: "r1", UserID: "u1", BadgeType: badge.TypeFirstDoodle, EarnedAt: time.Now()},
	}

	env.sync.Load(context.Background(), user.Identity{UserID: "u1"})
	env.settle()

	assert.True(t, hasBadge(env.localBadges(t, "u1"), badge.TypeFirstDoodle))
}

func TestReconcileBadgesReplaysUnsyncedLocal(t *testing.T) {
	env := newTestEnv(t)
	// a badge awarded offline: cached locally, unknown to the remote
	require.NoError(t, localstore.Save(env.local, localstore.NSBadges, []badge.Badge{
		{ID: "l1", UserID: "u1", BadgeType: badge.TypeFirstShare, EarnedAt: time.Now()},
		{ID: "l2", UserID: "other", BadgeType: badge.TypeWelcome, EarnedAt: time.Now()},
	}))

	env.sync.Load(context.Background(), user.Identity{UserID: "u1"})
	env.settle()

	// replayed upward exactly once and kept locally
	var replayed bool
	for _, b := range env.remote.badges {
		if b.UserID == "u1" && b.BadgeType == badge.TypeFirstShare {
			replayed = true
		}
	}
	assert.True(t, replayed)
	assert.True(t, hasBadge(env.localBadges(t, "u1"), badge.TypeFirstShare))

	// other users' cached badges survive the merge untouched
	assert.True(t, hasBadge(env.localBadges(t, "other"), badge.TypeWelcome))
}

func TestReconcileBadgesPullFailureKeepsCache(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, localstore.Save(env.local, localstore.NSBadges, []badge.Badge{
		{ID: "l1", UserID: "u1", BadgeType: badge.TypeFirstShare, EarnedAt: time.Now()},
	}))
	env.remote.badgesErr = assert.AnError

	env.sync.Load(context.Background(), user.Identity{UserID: "u1"})
	env.settle()

	assert.True(t, hasBadge(env.localBadges(t, "u1"), badge.TypeFirstShare), "degraded mode keeps the cache")
}

func TestReconcileStreakRemoteWins(t *testing.T) {
	env := newTestEnv(t)
	env.remote.streaks["u1"] = streak.Streak{UserID: "u1", CurrentStreak: 9, LongestStreak: 20, LastViewedDate: "2026-08-30"}
	require.NoError(t, localstore.Save(env.local, localstore.NSStreaks, []streak.Streak{
		{UserID: "u1", CurrentStreak: 2, LongestStreak: 2, LastViewedDate: "2026-08-01"},
	}))

	env.sync.Load(context.Background(), user.Identity{UserID: "u1"})
	env.settle()

	got, err := env.streaks.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, 9, got.CurrentStreak)
	assert.Equal(t, 20, got.LongestStreak)
}

func TestReconcileStreakMissingRemoteIsZero(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, localstore.Save(env.local, localstore.NSStreaks, []streak.Streak{
		{UserID: "u1", CurrentStreak: 4, LongestStreak: 4},
	}))

	env.sync.Load(context.Background(), user.Identity{UserID: "u1"})
	env.settle()

	got, err := env.streaks.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentStreak, "remote is authoritative even when empty")
}

func TestReconcileFollowsReplacesOwnEdgesOnly(t *testing.T) {
	env := newTestEnv(t)
	env.remote.follows = []social.Follow{
		{ID: "r1", FollowerID: "u1", FollowingID: "u9"},
	}
	require.NoError(t, localstore.Save(env.local, localstore.NSFollows, []social.Follow{
		{ID: "l1", FollowerID: "u1", FollowingID: "u2"},    // stale, remote dropped it
		{ID: "l2", FollowerID: "other", FollowingID: "u3"}, // not ours
	}))

	env.sync.Load(context.Background(), user.Identity{UserID: "u1"})
	env.settle()

	follows, err := localstore.Load[social.Follow](env.local, localstore.NSFollows)
	require.NoError(t, err)

	var ownTargets, otherTargets []string
	for _, f := range follows {
		if f.FollowerID == "u1" {
			ownTargets = append(ownTargets, f.FollowingID)
		} else {
			otherTargets = append(otherTargets, f.FollowingID)
		}
	}
	assert.Equal(t, []string{"u9"}, ownTargets)
	assert.Equal(t, []string{"u3"}, otherTargets)
}

func TestReconcileDoodlesMergesByID(t *testing.T) {
	env := newTestEnv(t)
	env.remote.ownDoodles = []doodle.Doodle{
		{ID: "d1", UserID: "u1", Caption: "own private", IsPublic: false, LikesCount: 2},
	}
	env.remote.publicAll = []doodle.Doodle{
		{ID: "d1", UserID: "u1", Caption: "stale public copy", IsPublic: true},
		{ID: "d2", UserID: "u9", Caption: "someone else", IsPublic: true},
	}
	require.NoError(t, localstore.Save(env.local, localstore.NSDoodles, []doodle.Doodle{
		{ID: "d1", UserID: "u1", Caption: "older cache", LikesCount: 0},
		{ID: "d3", UserID: "u1", Caption: "unsynced local upload"},
	}))

	env.sync.Load(context.Background(), user.Identity{UserID: "u1"})
	env.settle()

	doodles, err := localstore.Load[doodle.Doodle](env.local, localstore.NSDoodles)
	require.NoError(t, err)

	byID := make(map[string]doodle.Doodle)
	for _, d := range doodles {
		byID[d.ID] = d
	}
	require.Len(t, byID, 3)
	assert.Equal(t, "own private", byID["d1"].Caption, "own records win over the public copy")
	assert.Equal(t, 2, byID["d1"].LikesCount)
	assert.Equal(t, "someone else", byID["d2"].Caption)
	assert.Equal(t, "unsynced local upload", byID["d3"].Caption, "merge never deletes")
}

func TestReconcileDoodlesSurvivesOnePullFailing(t *testing.T) {
	env := newTestEnv(t)
	env.remote.ownErr = assert.AnError
	env.remote.publicAll = []doodle.Doodle{
		{ID: "d2", UserID: "u9", IsPublic: true},
	}

	env.sync.Load(context.Background(), user.Identity{UserID: "u1"})
	env.settle()

	doodles, err := localstore.Load[doodle.Doodle](env.local, localstore.NSDoodles)
	require.NoError(t, err)
	assert.Len(t, doodles, 1)
}

func TestResetWipesCache(t *testing.T) {
	env := newTestEnv(t)
	env.sync.Load(context.Background(), user.Identity{UserID: "u1"})
	env.settle()
	require.NotEmpty(t, env.localBadges(t, "u1"))

	require.NoError(t, env.sync.Reset())
	assert.Empty(t, env.localBadges(t, "u1"))
}

func TestLoadPullFailuresAreIndependent(t *testing.T) {
	env := newTestEnv(t)
	env.remote.badgesErr = assert.AnError
	env.remote.streaks["u1"] = streak.Streak{UserID: "u1", CurrentStreak: 3}

	env.sync.Load(context.Background(), user.Identity{UserID: "u1"})
	env.settle()

	// badges pull failed but the streak pull still landed
	got, err := env.streaks.Get("u1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.CurrentStreak)
}
