package badge

import (
	"time"
)

// BadgeType identifies a badge. A user may hold at most one badge per type,
// ever; the pair (user_id, badge_type) is unique.
type BadgeType string

const (
	// Granted directly, never by a counter predicate.
	TypeWelcome       BadgeType = "welcome"
	TypePremiumMember BadgeType = "premium_member"

	// Upload thresholds.
	TypeFirstDoodle BadgeType = "first_doodle"
	TypeDoodles10   BadgeType = "doodles_10"
	TypeDoodles25   BadgeType = "doodles_25"
	TypeDoodles50   BadgeType = "doodles_50"
	TypeDoodles100  BadgeType = "doodles_100"

	// Likes given.
	TypeFirstLikeGiven BadgeType = "first_like_given"
	TypeLikesGiven10   BadgeType = "likes_given_10"
	TypeLikesGiven50   BadgeType = "likes_given_50"
	TypeLikesGiven100  BadgeType = "likes_given_100"

	// Likes received.
	TypeFirstLikeReceived BadgeType = "first_like_received"
	TypeLikesReceived10   BadgeType = "likes_received_10"
	TypeLikesReceived50   BadgeType = "likes_received_50"
	TypeLikesReceived100  BadgeType = "likes_received_100"

	// Follows started.
	TypeFirstFollow BadgeType = "first_follow"
	TypeFollowing10 BadgeType = "following_10"
	TypeFollowing25 BadgeType = "following_25"

	// Shares.
	TypeFirstShare BadgeType = "first_share"
	TypeShares10   BadgeType = "shares_10"
	TypeShares50   BadgeType = "shares_50"

	// Prompt favorites.
	TypeFirstFavorite BadgeType = "first_favorite"
	TypeFavorites10   BadgeType = "favorites_10"
	TypeFavorites25   BadgeType = "favorites_25"

	// Prompt ideas.
	TypeIdeaMachine BadgeType = "idea_machine"

	// View streak milestones.
	TypeStreak3   BadgeType = "streak_3"
	TypeStreak7   BadgeType = "streak_7"
	TypeStreak14  BadgeType = "streak_14"
	TypeStreak30  BadgeType = "streak_30"
	TypeStreak100 BadgeType = "streak_100"

	// Upload streak milestones.
	TypeUploadStreak3   BadgeType = "upload_streak_3"
	TypeUploadStreak7   BadgeType = "upload_streak_7"
	TypeUploadStreak14  BadgeType = "upload_streak_14"
	TypeUploadStreak30  BadgeType = "upload_streak_30"
	TypeUploadStreak100 BadgeType = "upload_streak_100"

	// Single-day calendar badges. Once the date has passed they can never
	// be awarded.
	TypeHalloween2025 BadgeType = "halloween_2025"
	TypeNewYear2026   BadgeType = "new_year_2026"
	TypeValentine2026 BadgeType = "valentines_2026"
	TypeBirthday2026  BadgeType = "app_birthday_2026"

	// Month-long challenge badges.
	TypeInktober2025      BadgeType = "inktober_2025"
	TypeHolidaySketch2025 BadgeType = "holiday_sketch_2025"
	TypeSummerSprint2026  BadgeType = "summer_sprint_2026"
)

// Badge is immutable once created; EarnedAt never changes.
type Badge struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BadgeType BadgeType `json:"badge_type"`
	EarnedAt  time.Time `json:"earned_at"`
}
