package social

import "time"

// Follow is a directed edge; (follower_id, following_id) is unique and
// self-follows are rejected before one is ever created.
type Follow struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// DoodleLike is unique per (user_id, doodle_id); users cannot like their
// own doodles.
type DoodleLike struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	DoodleID string    `json:"doodle_id"`
	LikedAt  time.Time `json:"liked_at"`
}

// Share records one share of a doodle by a user. Bookkeeping only; there is
// no uniqueness constraint, sharing twice counts twice.
type Share struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	DoodleID string    `json:"doodle_id"`
	SharedAt time.Time `json:"shared_at"`
}

// Bookmark is unique per (user_id, prompt_id).
type Bookmark struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	PromptID string    `json:"prompt_id"`
	SavedAt  time.Time `json:"saved_at"`
}

// Report is a content report kept in the local cache; the moderation
// surface that consumes it lives outside this service.
type Report struct {
	ID         string    `json:"id"`
	ReporterID string    `json:"reporter_id"`
	DoodleID   string    `json:"doodle_id"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}
