package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"dailyDoodleAPI/internal/appdate"
	"dailyDoodleAPI/internal/apperr"
	"dailyDoodleAPI/internal/blob"
	"dailyDoodleAPI/internal/doodle"
	"dailyDoodleAPI/internal/imaging"
	"dailyDoodleAPI/internal/localstore"
	"dailyDoodleAPI/internal/user"
	"dailyDoodleAPI/utils"
)

type UploadRemote interface {
	InsertDoodle(ctx context.Context, d *doodle.Doodle) error
}

// UploadService runs the single-content-submission pipeline: entitlement
// check, content policy, image normalization, blob upload, authoritative
// insert, optimistic local cache, stats and badge evaluation — in that
// order.
type UploadService struct {
	local   *localstore.Store
	remote  UploadRemote
	storage blob.Storage
	stats   *StatsService
	badges  *BadgeService
}

func NewUploadService(local *localstore.Store, remote UploadRemote, storage blob.Storage, stats *StatsService, badges *BadgeService) *UploadService {
	return &UploadService{local: local, remote: remote, storage: storage, stats: stats, badges: badges}
}

type UploadRequest struct {
	PromptID string
	Caption  string
	IsPublic bool
	Image    []byte
}

// Upload submits one doodle. Failures before the blob upload perform no
// mutation anywhere; a blob failure aborts the whole operation; a failed
// authoritative insert still caches the doodle locally (eventually
// consistent, possibly orphaned until a reconciliation retries it).
func (s *UploadService) Upload(ctx context.Context, ident user.Identity, req *UploadRequest) (*doodle.Doodle, error) {
	if !ident.IsPremium {
		return nil, apperr.Authorization("uploading doodles requires a premium plan")
	}
	if !utils.IsTextClean(req.Caption) {
		return nil, apperr.Validation("caption contains blocked words")
	}
	if len(req.Image) == 0 {
		return nil, apperr.Validation("image is required")
	}

	normalized, contentType, err := imaging.Normalize(req.Image)
	if err != nil {
		return nil, apperr.Validation("image could not be processed")
	}

	id := uuid.New().String()
	path := fmt.Sprintf("%s/%s.jpg", ident.UserID, id)
	publicURL, err := s.storage.Upload(ctx, path, normalized, contentType)
	if err != nil {
		// No record anywhere for an image that is not stored.
		return nil, apperr.RemoteUnavailable("image upload failed", err)
	}

	d := &doodle.Doodle{
		ID:        id,
		UserID:    ident.UserID,
		PromptID:  req.PromptID,
		ImageURL:  publicURL,
		Caption:   req.Caption,
		IsPublic:  req.IsPublic,
		CreatedAt: time.Now(),
	}

	if err := s.remote.InsertDoodle(ctx, d); err != nil {
		// The blob already exists; keep going so the user's feed stays
		// optimistic. The blob is orphaned if reconciliation never
		// catches up — documented, not auto-cleaned.
		log.Printf("Authoritative doodle insert failed for %s, cached locally only: %v", d.ID, err)
	}

	err = localstore.Update(s.local, localstore.NSDoodles, func(records []doodle.Doodle) []doodle.Doodle {
		return append(records, *d)
	})
	if err != nil {
		log.Printf("Failed to cache doodle %s: %v", d.ID, err)
	}

	if _, err := s.stats.recordUpload(ident.UserID, appdate.FromTime(d.CreatedAt)); err != nil {
		log.Printf("Failed to update upload stats for user %s: %v", ident.UserID, err)
	}

	s.badges.Evaluate(ctx, ident.UserID)
	return d, nil
}
