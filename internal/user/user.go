package user

import "time"

type User struct {
	ID          string    `json:"id"`
	ClerkID     string    `json:"clerkId"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	Title       string    `json:"title,omitempty"`
	IsPremium   bool      `json:"isPremium"`
	IsAdmin     bool      `json:"isAdmin"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Identity is the opaque, already-validated identity the auth collaborator
// supplies; the progression engine never checks credentials itself.
type Identity struct {
	UserID    string
	IsPremium bool
	IsAdmin   bool
}

type UpdateProfileRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	Title       string `json:"title"`
}
