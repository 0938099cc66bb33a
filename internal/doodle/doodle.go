package doodle

import "time"

// Doodle is one user-generated drawing for a daily prompt. LikesCount is
// denormalized and mutated only by the like/unlike path.
type Doodle struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PromptID   string    `json:"prompt_id"`
	ImageURL   string    `json:"image_url"`
	Caption    string    `json:"caption"`
	IsPublic   bool      `json:"is_public"`
	LikesCount int       `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
}
