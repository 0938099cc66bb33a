package stats

import "time"

// UserStats is the per-user aggregate counter record. Counters are
// monotonic except when the underlying event is deleted (removing a doodle
// or unliking decrements the matching counters).
type UserStats struct {
	UserID                 string    `json:"user_id"`
	TotalUploads           int       `json:"total_uploads"`
	TotalShares            int       `json:"total_shares"`
	TotalFavorites         int       `json:"total_favorites"`
	TotalLikesGiven        int       `json:"total_likes_given"`
	TotalLikesReceived     int       `json:"total_likes_received"`
	ConsecutiveUploadDays  int       `json:"consecutive_upload_days"`
	LongestUploadStreak    int       `json:"longest_upload_streak"`
	HasSubmittedPromptIdea bool      `json:"has_submitted_prompt_idea"`
	LastUploadDate         string    `json:"last_upload_date,omitempty"`
	LastShareDate          string    `json:"last_share_date,omitempty"`
	LastLikeDate           string    `json:"last_like_date,omitempty"`
	UpdatedAt              time.Time `json:"updated_at"`
}
