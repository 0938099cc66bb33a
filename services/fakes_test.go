package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"dailyDoodleAPI/internal/badge"
	"dailyDoodleAPI/internal/doodle"
	"dailyDoodleAPI/internal/localstore"
	"dailyDoodleAPI/internal/social"
	"dailyDoodleAPI/internal/streak"
)

// fakeRemote implements every per-service remote interface against
// in-memory state, with switchable failures per call family.
type fakeRemote struct {
	mu sync.Mutex

	badges       []badge.Badge
	streaks      map[string]streak.Streak
	follows      []social.Follow
	ownDoodles   []doodle.Doodle
	publicAll    []doodle.Doodle
	likes        []social.DoodleLike
	likesDeltas  map[string]int
	deleted      []string
	streakWrites int

	badgesErr       error
	insertBadgeErr  error
	streakErr       error
	upsertStreakErr error
	followsErr      error
	ownErr          error
	publicErr       error
	insertDoodleErr error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		streaks:     make(map[string]streak.Streak),
		likesDeltas: make(map[string]int),
	}
}

func (f *fakeRemote) SelectBadges(ctx context.Context, userID string) ([]badge.Badge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.badgesErr != nil {
		return nil, f.badgesErr
	}
	var out []badge.Badge
	for _, b := range f.badges {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRemote) InsertBadge(ctx context.Context, b *badge.Badge) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertBadgeErr != nil {
		return f.insertBadgeErr
	}
	for _, have := range f.badges {
		if have.UserID == b.UserID && have.BadgeType == b.BadgeType {
			return nil
		}
	}
	f.badges = append(f.badges, *b)
	return nil
}

func (f *fakeRemote) SelectStreak(ctx context.Context, userID string) (*streak.Streak, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.streakErr != nil {
		return nil, f.streakErr
	}
	s, ok := f.streaks[userID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeRemote) UpsertStreak(ctx context.Context, s *streak.Streak) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertStreakErr != nil {
		return f.upsertStreakErr
	}
	f.streaks[s.UserID] = *s
	f.streakWrites++
	return nil
}

func (f *fakeRemote) SelectFollowing(ctx context.Context, followerID string) ([]social.Follow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.followsErr != nil {
		return nil, f.followsErr
	}
	var out []social.Follow
	for _, e := range f.follows {
		if e.FollowerID == followerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRemote) InsertFollow(ctx context.Context, e *social.Follow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.follows = append(f.follows, *e)
	return nil
}

func (f *fakeRemote) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.follows[:0]
	for _, e := range f.follows {
		if e.FollowerID == followerID && e.FollowingID == followingID {
			continue
		}
		kept = append(kept, e)
	}
	f.follows = kept
	return nil
}

func (f *fakeRemote) SelectOwnDoodles(ctx context.Context, userID string) ([]doodle.Doodle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ownErr != nil {
		return nil, f.ownErr
	}
	var out []doodle.Doodle
	for _, d := range f.ownDoodles {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRemote) SelectPublicDoodles(ctx context.Context) ([]doodle.Doodle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publicErr != nil {
		return nil, f.publicErr
	}
	return append([]doodle.Doodle(nil), f.publicAll...), nil
}

func (f *fakeRemote) InsertDoodle(ctx context.Context, d *doodle.Doodle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertDoodleErr != nil {
		return f.insertDoodleErr
	}
	f.ownDoodles = append(f.ownDoodles, *d)
	return nil
}

func (f *fakeRemote) DeleteDoodle(ctx context.Context, doodleID, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, doodleID)
	return nil
}

func (f *fakeRemote) UpdateDoodleLikesCount(ctx context.Context, doodleID string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likesDeltas[doodleID] += delta
	return nil
}

func (f *fakeRemote) InsertDoodleLike(ctx context.Context, l *social.DoodleLike) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likes = append(f.likes, *l)
	return nil
}

func (f *fakeRemote) DeleteDoodleLike(ctx context.Context, userID, doodleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.likes[:0]
	for _, l := range f.likes {
		if l.UserID == userID && l.DoodleID == doodleID {
			continue
		}
		kept = append(kept, l)
	}
	f.likes = kept
	return nil
}

// fakeStorage implements blob.Storage.
type fakeStorage struct {
	mu       sync.Mutex
	uploads  []string
	removals []string
	fail     bool
}

func (f *fakeStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("bucket unreachable")
	}
	f.uploads = append(f.uploads, path)
	return "https://cdn.example.com/" + path, nil
}

func (f *fakeStorage) Remove(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removals = append(f.removals, path)
	return nil
}

// testEnv wires the full service graph over one temp cache and one fake
// remote.
type testEnv struct {
	local   *localstore.Store
	remote  *fakeRemote
	storage *fakeStorage
	stats   *StatsService
	badges  *BadgeService
	streaks *StreakService
	social  *SocialService
	upload  *UploadService
	sync    *SyncService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	local, err := localstore.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)

	remote := newFakeRemote()
	storage := &fakeStorage{}
	stats := NewStatsService(local)
	badges := NewBadgeService(local, remote, stats)
	return &testEnv{
		local:   local,
		remote:  remote,
		storage: storage,
		stats:   stats,
		badges:  badges,
		streaks: NewStreakService(local, remote, badges),
		social:  NewSocialService(local, remote, stats, badges),
		upload:  NewUploadService(local, remote, storage, stats, badges),
		sync:    NewSyncService(local, remote, badges),
	}
}

// settle drains every in-flight background push.
func (e *testEnv) settle() {
	e.badges.wait()
	e.streaks.wait()
	e.social.wait()
}

func (e *testEnv) localBadges(t *testing.T, userID string) []badge.Badge {
	t.Helper()
	out, err := e.badges.ListForUser(userID)
	require.NoError(t, err)
	return out
}

func hasBadge(badges []badge.Badge, bt badge.BadgeType) bool {
	for _, b := range badges {
		if b.BadgeType == bt {
			return true
		}
	}
	return false
}

func testImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 32))))
	return buf.Bytes()
}
