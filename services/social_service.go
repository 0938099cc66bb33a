package services

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"dailyDoodleAPI/internal/appdate"
	"dailyDoodleAPI/internal/apperr"
	"dailyDoodleAPI/internal/doodle"
	"dailyDoodleAPI/internal/localstore"
	"dailyDoodleAPI/internal/social"
	"dailyDoodleAPI/internal/stats"
	"dailyDoodleAPI/internal/user"
	"dailyDoodleAPI/utils"
)

type SocialRemote interface {
	InsertFollow(ctx context.Context, f *social.Follow) error
	DeleteFollow(ctx context.Context, followerID, followingID string) error
	InsertDoodleLike(ctx context.Context, l *social.DoodleLike) error
	DeleteDoodleLike(ctx context.Context, userID, doodleID string) error
	UpdateDoodleLikesCount(ctx context.Context, doodleID string, delta int) error
	DeleteDoodle(ctx context.Context, doodleID, ownerID string) error
}

// SocialService is the follow/like/share/favorite ledger. Every mutation is
// local-first with an independent background push; duplicate edges resolve
// as silent no-ops, never errors.
type SocialService struct {
	pusher
	local  *localstore.Store
	remote SocialRemote
	stats  *StatsService
	badges *BadgeService
}

func NewSocialService(local *localstore.Store, remote SocialRemote, stats *StatsService, badges *BadgeService) *SocialService {
	return &SocialService{local: local, remote: remote, stats: stats, badges: badges}
}

// ---------------------------------------------------------------- follows

func (s *SocialService) Follow(ctx context.Context, ident user.Identity, targetID string) error {
	if ident.UserID == targetID {
		return apperr.Validation("cannot follow yourself")
	}

	created := false
	edge := social.Follow{
		ID:          uuid.New().String(),
		FollowerID:  ident.UserID,
		FollowingID: targetID,
		CreatedAt:   time.Now(),
	}
	err := localstore.Update(s.local, localstore.NSFollows, func(records []social.Follow) []social.Follow {
		for _, f := range records {
			if f.FollowerID == ident.UserID && f.FollowingID == targetID {
				return records
			}
		}
		created = true
		return append(records, edge)
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	s.push("follow", func(ctx context.Context) error {
		return s.remote.InsertFollow(ctx, &edge)
	})
	s.badges.Evaluate(ctx, ident.UserID)
	return nil
}

func (s *SocialService) Unfollow(ctx context.Context, ident user.Identity, targetID string) error {
	removed := false
	err := localstore.Update(s.local, localstore.NSFollows, func(records []social.Follow) []social.Follow {
		kept := records[:0]
		for _, f := range records {
			if f.FollowerID == ident.UserID && f.FollowingID == targetID {
				removed = true
				continue
			}
			kept = append(kept, f)
		}
		return kept
	})
	if err != nil {
		return err
	}
	if !removed {
		// unfollowing a non-existent edge is a no-op
		return nil
	}

	s.push("unfollow", func(ctx context.Context) error {
		return s.remote.DeleteFollow(ctx, ident.UserID, targetID)
	})
	return nil
}

// ------------------------------------------------------------------ likes

func (s *SocialService) findDoodle(doodleID string) (*doodle.Doodle, error) {
	records, err := localstore.Load[doodle.Doodle](s.local, localstore.NSDoodles)
	if err != nil {
		return nil, err
	}
	for _, d := range records {
		if d.ID == doodleID {
			return &d, nil
		}
	}
	return nil, apperr.Validation("doodle not found")
}

// Like records one like. Liking your own doodle is rejected; liking twice
// is a silent no-op, so a rapid double-tap bumps every counter exactly
// once.
func (s *SocialService) Like(ctx context.Context, ident user.Identity, doodleID string) error {
	d, err := s.findDoodle(doodleID)
	if err != nil {
		return err
	}
	if d.UserID == ident.UserID {
		return apperr.Validation("cannot like your own doodle")
	}

	created := false
	like := social.DoodleLike{
		ID:       uuid.New().String(),
		UserID:   ident.UserID,
		DoodleID: doodleID,
		LikedAt:  time.Now(),
	}
	err = localstore.Update(s.local, localstore.NSLikes, func(records []social.DoodleLike) []social.DoodleLike {
		for _, l := range records {
			if l.UserID == ident.UserID && l.DoodleID == doodleID {
				return records
			}
		}
		created = true
		return append(records, like)
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	s.adjustLikesCount(doodleID, 1)
	if _, err := s.stats.mutate(ident.UserID, func(st *stats.UserStats) {
		st.TotalLikesGiven++
		st.LastLikeDate = appdate.Today()
	}); err != nil {
		log.Printf("Failed to bump likes-given for user %s: %v", ident.UserID, err)
	}
	if _, err := s.stats.mutate(d.UserID, func(st *stats.UserStats) {
		st.TotalLikesReceived++
	}); err != nil {
		log.Printf("Failed to bump likes-received for user %s: %v", d.UserID, err)
	}

	s.push("like", func(ctx context.Context) error {
		if err := s.remote.InsertDoodleLike(ctx, &like); err != nil {
			return err
		}
		return s.remote.UpdateDoodleLikesCount(ctx, doodleID, 1)
	})

	s.badges.Evaluate(ctx, ident.UserID)
	// Best-effort cross-user award for the doodle's owner: the remote row
	// policy only allows self-writes, so this stays local until the owner
	// reconciles.
	s.badges.EvaluateCrossUser(ctx, d.UserID)
	return nil
}

func (s *SocialService) Unlike(ctx context.Context, ident user.Identity, doodleID string) error {
	d, err := s.findDoodle(doodleID)
	if err != nil {
		return err
	}

	removed := false
	err = localstore.Update(s.local, localstore.NSLikes, func(records []social.DoodleLike) []social.DoodleLike {
		kept := records[:0]
		for _, l := range records {
			if l.UserID == ident.UserID && l.DoodleID == doodleID {
				removed = true
				continue
			}
			kept = append(kept, l)
		}
		return kept
	})
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	s.adjustLikesCount(doodleID, -1)
	if _, err := s.stats.mutate(ident.UserID, func(st *stats.UserStats) {
		st.TotalLikesGiven--
	}); err != nil {
		log.Printf("Failed to drop likes-given for user %s: %v", ident.UserID, err)
	}
	if _, err := s.stats.mutate(d.UserID, func(st *stats.UserStats) {
		st.TotalLikesReceived--
	}); err != nil {
		log.Printf("Failed to drop likes-received for user %s: %v", d.UserID, err)
	}

	s.push("unlike", func(ctx context.Context) error {
		if err := s.remote.DeleteDoodleLike(ctx, ident.UserID, doodleID); err != nil {
			return err
		}
		return s.remote.UpdateDoodleLikesCount(ctx, doodleID, -1)
	})
	return nil
}

func (s *SocialService) adjustLikesCount(doodleID string, delta int) {
	err := localstore.Update(s.local, localstore.NSDoodles, func(records []doodle.Doodle) []doodle.Doodle {
		for i := range records {
			if records[i].ID == doodleID {
				records[i].LikesCount += delta
				if records[i].LikesCount < 0 {
					records[i].LikesCount = 0
				}
				break
			}
		}
		return records
	})
	if err != nil {
		log.Printf("Failed to adjust likes count for doodle %s: %v", doodleID, err)
	}
}

// ------------------------------------------------------- shares/favorites

func (s *SocialService) Share(ctx context.Context, ident user.Identity, doodleID string) error {
	if _, err := s.findDoodle(doodleID); err != nil {
		return err
	}

	rec := social.Share{
		ID:       uuid.New().String(),
		UserID:   ident.UserID,
		DoodleID: doodleID,
		SharedAt: time.Now(),
	}
	err := localstore.Update(s.local, localstore.NSShares, func(records []social.Share) []social.Share {
		return append(records, rec)
	})
	if err != nil {
		return err
	}

	if _, err := s.stats.mutate(ident.UserID, func(st *stats.UserStats) {
		st.TotalShares++
		st.LastShareDate = appdate.Today()
	}); err != nil {
		log.Printf("Failed to bump shares for user %s: %v", ident.UserID, err)
	}

	s.badges.Evaluate(ctx, ident.UserID)
	return nil
}

func (s *SocialService) Favorite(ctx context.Context, ident user.Identity, promptID string) error {
	created := false
	rec := social.Bookmark{
		ID:       uuid.New().String(),
		UserID:   ident.UserID,
		PromptID: promptID,
		SavedAt:  time.Now(),
	}
	err := localstore.Update(s.local, localstore.NSBookmarks, func(records []social.Bookmark) []social.Bookmark {
		for _, b := range records {
			if b.UserID == ident.UserID && b.PromptID == promptID {
				return records
			}
		}
		created = true
		return append(records, rec)
	})
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	if _, err := s.stats.mutate(ident.UserID, func(st *stats.UserStats) {
		st.TotalFavorites++
	}); err != nil {
		log.Printf("Failed to bump favorites for user %s: %v", ident.UserID, err)
	}

	s.badges.Evaluate(ctx, ident.UserID)
	return nil
}

func (s *SocialService) Unfavorite(ctx context.Context, ident user.Identity, promptID string) error {
	removed := false
	err := localstore.Update(s.local, localstore.NSBookmarks, func(records []social.Bookmark) []social.Bookmark {
		kept := records[:0]
		for _, b := range records {
			if b.UserID == ident.UserID && b.PromptID == promptID {
				removed = true
				continue
			}
			kept = append(kept, b)
		}
		return kept
	})
	if err != nil || !removed {
		return err
	}

	if _, err := s.stats.mutate(ident.UserID, func(st *stats.UserStats) {
		st.TotalFavorites--
	}); err != nil {
		log.Printf("Failed to drop favorites for user %s: %v", ident.UserID, err)
	}
	return nil
}

// SubmitPromptIdea flips the one-shot idea flag and re-evaluates badges.
func (s *SocialService) SubmitPromptIdea(ctx context.Context, ident user.Identity, idea string) error {
	if !utils.IsTextClean(idea) {
		return apperr.Validation("prompt idea contains blocked words")
	}

	if _, err := s.stats.mutate(ident.UserID, func(st *stats.UserStats) {
		st.HasSubmittedPromptIdea = true
	}); err != nil {
		return err
	}

	s.badges.Evaluate(ctx, ident.UserID)
	return nil
}

// Report stores a content report in the local cache; the moderation
// surface that consumes these is external.
func (s *SocialService) Report(ctx context.Context, ident user.Identity, doodleID, reason string) error {
	if _, err := s.findDoodle(doodleID); err != nil {
		return err
	}

	rec := social.Report{
		ID:         uuid.New().String(),
		ReporterID: ident.UserID,
		DoodleID:   doodleID,
		Reason:     reason,
		CreatedAt:  time.Now(),
	}
	return localstore.Update(s.local, localstore.NSReports, func(records []social.Report) []social.Report {
		return append(records, rec)
	})
}

// ---------------------------------------------------------------- deletes

// DeleteDoodle removes a doodle and reverses its accumulated like effects
// on both the owner's and every liker's stats, so stats always reflect
// currently-live content.
func (s *SocialService) DeleteDoodle(ctx context.Context, ident user.Identity, doodleID string) error {
	d, err := s.findDoodle(doodleID)
	if err != nil {
		return err
	}
	if d.UserID != ident.UserID && !ident.IsAdmin {
		return apperr.Authorization("only the owner can delete a doodle")
	}

	// Collect and drop the dependent likes first.
	var likers []string
	err = localstore.Update(s.local, localstore.NSLikes, func(records []social.DoodleLike) []social.DoodleLike {
		kept := records[:0]
		for _, l := range records {
			if l.DoodleID == doodleID {
				likers = append(likers, l.UserID)
				continue
			}
			kept = append(kept, l)
		}
		return kept
	})
	if err != nil {
		return err
	}

	for _, likerID := range likers {
		if _, err := s.stats.mutate(likerID, func(st *stats.UserStats) {
			st.TotalLikesGiven--
		}); err != nil {
			log.Printf("Failed to reverse likes-given for user %s: %v", likerID, err)
		}
	}
	if _, err := s.stats.mutate(d.UserID, func(st *stats.UserStats) {
		st.TotalLikesReceived -= len(likers)
		if st.TotalLikesReceived < 0 {
			st.TotalLikesReceived = 0
		}
		st.TotalUploads--
		if st.TotalUploads < 0 {
			st.TotalUploads = 0
		}
	}); err != nil {
		log.Printf("Failed to reverse stats for user %s: %v", d.UserID, err)
	}

	err = localstore.Update(s.local, localstore.NSDoodles, func(records []doodle.Doodle) []doodle.Doodle {
		kept := records[:0]
		for _, rec := range records {
			if rec.ID != doodleID {
				kept = append(kept, rec)
			}
		}
		return kept
	})
	if err != nil {
		return err
	}

	ownerID := d.UserID
	s.push("delete doodle", func(ctx context.Context) error {
		return s.remote.DeleteDoodle(ctx, doodleID, ownerID)
	})
	return nil
}

// ------------------------------------------------------------------- feed

// Feed reads the cached doodles visible to the user: everything public
// plus their own private ones, newest first.
func (s *SocialService) Feed(userID string) ([]doodle.Doodle, error) {
	records, err := localstore.Load[doodle.Doodle](s.local, localstore.NSDoodles)
	if err != nil {
		return nil, err
	}

	visible := make([]doodle.Doodle, 0, len(records))
	for _, d := range records {
		if d.IsPublic || d.UserID == userID {
			visible = append(visible, d)
		}
	}
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	return visible, nil
}
