package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupRestoresIntoAnotherStore(t *testing.T) {
	ctx := context.Background()
	source := newRecordingStore()
	clock := newFakeClock()

	progress := newProgressService(t, source, clock)
	achievements := newAchievementService(t, source, clock)
	sessions := newSessionService(t, source, achievements, clock)

	_, err := progress.MarkWordCompleted(ctx, "ap", "cap")
	require.NoError(t, err)
	_, err = achievements.IncrementWordsLearned(ctx)
	require.NoError(t, err)
	_, _, err = sessions.Start(ctx)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewBackupService(source, testKeys, quietLogger()).ExportToWriter(ctx, &buf))

	target := newRecordingStore()
	restore := NewBackupService(target, testKeys, quietLogger())
	backup, err := restore.ImportFromReader(&buf)
	require.NoError(t, err)
	require.NoError(t, restore.Import(ctx, backup))

	restoredAchievements := newAchievementService(t, target, clock)
	assert.Equal(t, progress.Snapshot(), newProgressService(t, target, clock).Snapshot())
	assert.Equal(t, achievements.Stats(), restoredAchievements.Stats())
	assert.Equal(t, achievements.Achievements(), restoredAchievements.Achievements())

	active, ok := newSessionService(t, target, restoredAchievements, clock).Active()
	require.True(t, ok)
	original, _ := sessions.Active()
	assert.Equal(t, original.ID, active.ID)
}

func TestExportSkipsMissingAndUnreadableValues(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	require.NoError(t, store.Set(ctx, testKeys.Stats, `{"totalSessions":2}`))
	require.NoError(t, store.Set(ctx, testKeys.Progress, "{broken"))

	backup, err := NewBackupService(store, testKeys, quietLogger()).Export(ctx)
	require.NoError(t, err)

	assert.Equal(t, backupVersion, backup.Version)
	assert.JSONEq(t, `{"totalSessions":2}`, string(backup.Stats))
	assert.Empty(t, backup.Progress)
	assert.Empty(t, backup.Achievements)
	assert.Empty(t, backup.Session)
}

func TestImportLeavesAbsentKeysUntouched(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	require.NoError(t, store.Set(ctx, testKeys.Progress, `{"totalWordsLearned":7}`))

	svc := NewBackupService(store, testKeys, quietLogger())
	backup, err := svc.ImportFromReader(strings.NewReader(`{"version":"1.0","stats":{"currentStreak":2},"progress":null}`))
	require.NoError(t, err)
	require.NoError(t, svc.Import(ctx, backup))

	progress, _, err := store.Get(ctx, testKeys.Progress)
	require.NoError(t, err)
	assert.Equal(t, `{"totalWordsLearned":7}`, progress)

	stats, found, err := store.Get(ctx, testKeys.Stats)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"currentStreak":2}`, stats)
}

func TestImportFromReaderRejectsUnknownVersion(t *testing.T) {
	svc := NewBackupService(newRecordingStore(), testKeys, quietLogger())

	_, err := svc.ImportFromReader(strings.NewReader(`{"version":"9.9"}`))
	assert.Error(t, err)

	_, err = svc.ImportFromReader(strings.NewReader(`not json`))
	assert.Error(t, err)
}
