package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUnknownUserIsZeroRecord(t *testing.T) {
	env := newTestEnv(t)

	st, err := env.stats.Get("nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", st.UserID)
	assert.Zero(t, st.TotalUploads)
}

func TestRecordUploadStreakMath(t *testing.T) {
	env := newTestEnv(t)

	st, err := env.stats.recordUpload("u1", "2026-01-10")
	require.NoError(t, err)
	assert.Equal(t, 1, st.ConsecutiveUploadDays)

	// second upload same day: total up, streak unchanged
	st, err = env.stats.recordUpload("u1", "2026-01-10")
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalUploads)
	assert.Equal(t, 1, st.ConsecutiveUploadDays)

	// next day extends
	st, err = env.stats.recordUpload("u1", "2026-01-11")
	require.NoError(t, err)
	assert.Equal(t, 2, st.ConsecutiveUploadDays)
	assert.Equal(t, 2, st.LongestUploadStreak)

	// gap resets the running streak but not the longest
	st, err = env.stats.recordUpload("u1", "2026-01-14")
	require.NoError(t, err)
	assert.Equal(t, 1, st.ConsecutiveUploadDays)
	assert.Equal(t, 2, st.LongestUploadStreak)
	assert.Equal(t, "2026-01-14", st.LastUploadDate)
}

func TestMutateIsolatesUsers(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.stats.recordUpload("u1", "2026-01-10")
	require.NoError(t, err)

	st, err := env.stats.Get("u2")
	require.NoError(t, err)
	assert.Zero(t, st.TotalUploads)
}
