package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStreak(t *testing.T) {
	tests := []struct {
		name    string
		lastDay string
		today   string
		current int
		want    int
	}{
		{"first study day", "", "2026-04-06", 0, 1},
		{"same day", "2026-04-06", "2026-04-06", 4, 4},
		{"same day after reset", "2026-04-06", "2026-04-06", 0, 1},
		{"next day", "2026-04-05", "2026-04-06", 4, 5},
		{"across month end", "2026-03-31", "2026-04-01", 2, 3},
		{"gap", "2026-04-03", "2026-04-06", 4, 1},
		{"unparseable day", "yesterday", "2026-04-06", 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextStreak(tt.lastDay, tt.today, tt.current))
		})
	}
}

func TestSessionStreakAcrossDays(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	clock := newFakeClock()
	achievements := newAchievementService(t, store, clock)
	sessions := newSessionService(t, store, achievements, clock)

	session, unlocked, err := sessions.Start(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)
	assert.Empty(t, unlocked)
	assert.Equal(t, 1, achievements.Stats().CurrentStreak)

	// Same day: streak unchanged
	clock.Advance(2 * time.Hour)
	_, _, err = sessions.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, achievements.Stats().CurrentStreak)

	clock.Advance(24 * time.Hour)
	_, _, err = sessions.Start(ctx)
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	_, unlocked, err = sessions.Start(ctx)
	require.NoError(t, err)
	assert.Contains(t, ids(unlocked), "streak_starter")

	stats := achievements.Stats()
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.MaxStreak)
	assert.Equal(t, 4, stats.TotalSessions)

	// Skipping a day resets the streak but not the maximum
	clock.Advance(48 * time.Hour)
	_, _, err = sessions.Start(ctx)
	require.NoError(t, err)
	stats = achievements.Stats()
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 3, stats.MaxStreak)
}

func TestSessionEndAddsStudyTime(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	clock := newFakeClock()
	achievements := newAchievementService(t, store, clock)
	sessions := newSessionService(t, store, achievements, clock)

	session, _, err := sessions.Start(ctx)
	require.NoError(t, err)

	active, ok := sessions.Active()
	require.True(t, ok)
	assert.Equal(t, session.ID, active.ID)

	clock.Advance(12*time.Minute + 40*time.Second)
	_, err = sessions.End(ctx, session.ID)
	require.NoError(t, err)

	assert.Equal(t, 12, achievements.Stats().TotalStudyTime)
	_, ok = sessions.Active()
	assert.False(t, ok)

	_, err = sessions.End(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionEndUnknownID(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	clock := newFakeClock()
	sessions := newSessionService(t, store, newAchievementService(t, store, clock), clock)

	_, _, err := sessions.Start(ctx)
	require.NoError(t, err)

	_, err = sessions.End(ctx, "not-a-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, ok := sessions.Active()
	assert.True(t, ok, "a failed End leaves the active session running")
}

func TestStartEndsActiveSession(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	clock := newFakeClock()
	achievements := newAchievementService(t, store, clock)
	sessions := newSessionService(t, store, achievements, clock)

	first, _, err := sessions.Start(ctx)
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	second, _, err := sessions.Start(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 5, achievements.Stats().TotalStudyTime)
	active, ok := sessions.Active()
	require.True(t, ok)
	assert.Equal(t, second.ID, active.ID)
}

func TestSessionLogSurvivesReload(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	clock := newFakeClock()
	achievements := newAchievementService(t, store, clock)
	sessions := newSessionService(t, store, achievements, clock)

	session, _, err := sessions.Start(ctx)
	require.NoError(t, err)

	reloadedAchievements := newAchievementService(t, store, clock)
	reloaded := newSessionService(t, store, reloadedAchievements, clock)

	active, ok := reloaded.Active()
	require.True(t, ok)
	assert.Equal(t, session.ID, active.ID)

	// Next day on the reloaded service continues the streak
	clock.Advance(24 * time.Hour)
	_, _, err = reloaded.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, reloadedAchievements.Stats().CurrentStreak)
	assert.Zero(t, reloadedAchievements.Stats().TotalStudyTime, "abandoned session credits nothing")
}

func TestAbandonedSessionCreditsNothing(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	clock := newFakeClock()
	sessions := newSessionService(t, store, newAchievementService(t, store, clock), clock)

	first, _, err := sessions.Start(ctx)
	require.NoError(t, err)

	// The process exits with the session still open and comes back the next morning
	clock.Advance(20 * time.Hour)
	achievements := newAchievementService(t, store, clock)
	reloaded := newSessionService(t, store, achievements, clock)

	second, _, err := reloaded.Start(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Zero(t, achievements.Stats().TotalStudyTime)
	assert.Equal(t, 2, achievements.Stats().TotalSessions)
}

func TestSessionLengthIsCapped(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	clock := newFakeClock()
	achievements := newAchievementService(t, store, clock)
	sessions := newSessionService(t, store, achievements, clock)

	session, _, err := sessions.Start(ctx)
	require.NoError(t, err)
	clock.Advance(5 * time.Hour)
	_, err = sessions.End(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int(MaxSessionLength/time.Minute), achievements.Stats().TotalStudyTime)

	// Replacing a long session started the same day is capped as well
	_, _, err = sessions.Start(ctx)
	require.NoError(t, err)
	clock.Advance(3 * time.Hour)
	_, _, err = sessions.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2*int(MaxSessionLength/time.Minute), achievements.Stats().TotalStudyTime)
}
