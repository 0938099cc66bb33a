package remotestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dailyDoodleAPI/internal/badge"
	"dailyDoodleAPI/internal/doodle"
	"dailyDoodleAPI/internal/social"
	"dailyDoodleAPI/internal/streak"
	"dailyDoodleAPI/internal/user"
)

// Client is the typed interface to the authoritative Postgres backend.
// Every method returns (data, error) and never panics; callers treat any
// error as "remote temporarily unavailable" and fall back to the cache.
type Client struct {
	db *pgxpool.Pool
}

func NewClient(db *pgxpool.Pool) *Client {
	return &Client{db: db}
}

// ---------------------------------------------------------------- users

func (c *Client) SelectUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	query := `
	SELECT id, clerk_id, email, username, display_name, avatar_url, title, is_premium, is_admin, created_at, updated_at
	FROM users
	WHERE clerk_id = $1
	`

	u := &user.User{}
	err := c.db.QueryRow(ctx, query, clerkID).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.DisplayName,
		&u.AvatarURL,
		&u.Title,
		&u.IsPremium,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (c *Client) UpdateUserProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET
		username = COALESCE(NULLIF($2, ''), username),
		display_name = COALESCE(NULLIF($3, ''), display_name),
		avatar_url = COALESCE(NULLIF($4, ''), avatar_url),
		title = COALESCE(NULLIF($5, ''), title),
		updated_at = NOW()
	WHERE id = $1
	RETURNING id, clerk_id, email, username, display_name, avatar_url, title, is_premium, is_admin, created_at, updated_at
	`

	u := &user.User{}
	err := c.db.QueryRow(ctx, query, userID, req.Username, req.DisplayName, req.AvatarURL, req.Title).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.DisplayName,
		&u.AvatarURL,
		&u.Title,
		&u.IsPremium,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// --------------------------------------------------------------- badges

func (c *Client) SelectBadges(ctx context.Context, userID string) ([]badge.Badge, error) {
	query := `
	SELECT id, user_id, badge_type, earned_at
	FROM badges
	WHERE user_id = $1
	ORDER BY earned_at
	`

	rows, err := c.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch badges: %w", err)
	}
	defer rows.Close()

	var badges []badge.Badge
	for rows.Next() {
		var b badge.Badge
		if err := rows.Scan(&b.ID, &b.UserID, &b.BadgeType, &b.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating badges: %w", err)
	}
	return badges, nil
}

// InsertBadge is idempotent at the database level: the (user_id, badge_type)
// unique constraint makes a replayed insert a no-op.
func (c *Client) InsertBadge(ctx context.Context, b *badge.Badge) error {
	query := `
	INSERT INTO badges (id, user_id, badge_type, earned_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id, badge_type) DO NOTHING
	`

	_, err := c.db.Exec(ctx, query, b.ID, b.UserID, b.BadgeType, b.EarnedAt)
	if err != nil {
		return fmt.Errorf("failed to insert badge: %w", err)
	}
	return nil
}

// -------------------------------------------------------------- streaks

func (c *Client) SelectStreak(ctx context.Context, userID string) (*streak.Streak, error) {
	query := `
	SELECT user_id, current_streak, longest_streak, COALESCE(last_viewed_date, ''), streak_freeze_available, streak_freeze_used_this_month, updated_at
	FROM streaks
	WHERE user_id = $1
	`

	s := &streak.Streak{}
	err := c.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID,
		&s.CurrentStreak,
		&s.LongestStreak,
		&s.LastViewedDate,
		&s.FreezeAvailable,
		&s.FreezeUsedThisMonth,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	return s, nil
}

func (c *Client) UpsertStreak(ctx context.Context, s *streak.Streak) error {
	query := `
	INSERT INTO streaks (user_id, current_streak, longest_streak, last_viewed_date, streak_freeze_available, streak_freeze_used_this_month, updated_at)
	VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NOW())
	ON CONFLICT (user_id)
	DO UPDATE SET
		current_streak = $2,
		longest_streak = $3,
		last_viewed_date = NULLIF($4, ''),
		streak_freeze_available = $5,
		streak_freeze_used_this_month = $6,
		updated_at = NOW()
	`

	_, err := c.db.Exec(ctx, query, s.UserID, s.CurrentStreak, s.LongestStreak,
		s.LastViewedDate, s.FreezeAvailable, s.FreezeUsedThisMonth)
	if err != nil {
		return fmt.Errorf("failed to upsert streak: %w", err)
	}
	return nil
}

// -------------------------------------------------------------- follows

func (c *Client) SelectFollowing(ctx context.Context, followerID string) ([]social.Follow, error) {
	query := `
	SELECT id, follower_id, following_id, created_at
	FROM follows
	WHERE follower_id = $1
	ORDER BY created_at
	`

	rows, err := c.db.Query(ctx, query, followerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch follows: %w", err)
	}
	defer rows.Close()

	var follows []social.Follow
	for rows.Next() {
		var f social.Follow
		if err := rows.Scan(&f.ID, &f.FollowerID, &f.FollowingID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan follow: %w", err)
		}
		follows = append(follows, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating follows: %w", err)
	}
	return follows, nil
}

func (c *Client) InsertFollow(ctx context.Context, f *social.Follow) error {
	query := `
	INSERT INTO follows (id, follower_id, following_id, created_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (follower_id, following_id) DO NOTHING
	`

	_, err := c.db.Exec(ctx, query, f.ID, f.FollowerID, f.FollowingID, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert follow: %w", err)
	}
	return nil
}

func (c *Client) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`

	_, err := c.db.Exec(ctx, query, followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

// -------------------------------------------------------------- doodles

func (c *Client) selectDoodles(ctx context.Context, query string, args ...any) ([]doodle.Doodle, error) {
	rows, err := c.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch doodles: %w", err)
	}
	defer rows.Close()

	var doodles []doodle.Doodle
	for rows.Next() {
		var d doodle.Doodle
		err := rows.Scan(&d.ID, &d.UserID, &d.PromptID, &d.ImageURL, &d.Caption, &d.IsPublic, &d.LikesCount, &d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan doodle: %w", err)
		}
		doodles = append(doodles, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating doodles: %w", err)
	}
	return doodles, nil
}

// SelectOwnDoodles returns the user's doodles, public and private.
func (c *Client) SelectOwnDoodles(ctx context.Context, userID string) ([]doodle.Doodle, error) {
	query := `
	SELECT id, user_id, prompt_id, image_url, caption, is_public, likes_count, created_at
	FROM doodles
	WHERE user_id = $1
	ORDER BY created_at DESC
	`
	return c.selectDoodles(ctx, query, userID)
}

func (c *Client) SelectPublicDoodles(ctx context.Context) ([]doodle.Doodle, error) {
	query := `
	SELECT id, user_id, prompt_id, image_url, caption, is_public, likes_count, created_at
	FROM doodles
	WHERE is_public = true
	ORDER BY created_at DESC
	LIMIT 500
	`
	return c.selectDoodles(ctx, query)
}

func (c *Client) InsertDoodle(ctx context.Context, d *doodle.Doodle) error {
	query := `
	INSERT INTO doodles (id, user_id, prompt_id, image_url, caption, is_public, likes_count, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO NOTHING
	`

	_, err := c.db.Exec(ctx, query, d.ID, d.UserID, d.PromptID, d.ImageURL, d.Caption, d.IsPublic, d.LikesCount, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert doodle: %w", err)
	}
	return nil
}

// DeleteDoodle removes the row and, via ON DELETE CASCADE, its likes.
func (c *Client) DeleteDoodle(ctx context.Context, doodleID, ownerID string) error {
	query := `DELETE FROM doodles WHERE id = $1 AND user_id = $2`

	_, err := c.db.Exec(ctx, query, doodleID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete doodle: %w", err)
	}
	return nil
}

func (c *Client) UpdateDoodleLikesCount(ctx context.Context, doodleID string, delta int) error {
	query := `
	UPDATE doodles
	SET likes_count = GREATEST(likes_count + $2, 0)
	WHERE id = $1
	`

	_, err := c.db.Exec(ctx, query, doodleID, delta)
	if err != nil {
		return fmt.Errorf("failed to update likes count: %w", err)
	}
	return nil
}

// -------------------------------------------------------- doodle likes

func (c *Client) InsertDoodleLike(ctx context.Context, l *social.DoodleLike) error {
	query := `
	INSERT INTO doodle_likes (id, user_id, doodle_id, liked_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id, doodle_id) DO NOTHING
	`

	_, err := c.db.Exec(ctx, query, l.ID, l.UserID, l.DoodleID, l.LikedAt)
	if err != nil {
		return fmt.Errorf("failed to insert like: %w", err)
	}
	return nil
}

func (c *Client) DeleteDoodleLike(ctx context.Context, userID, doodleID string) error {
	query := `DELETE FROM doodle_likes WHERE user_id = $1 AND doodle_id = $2`

	_, err := c.db.Exec(ctx, query, userID, doodleID)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}
