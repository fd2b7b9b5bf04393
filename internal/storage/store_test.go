package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wordcards/internal/config"
	"wordcards/internal/logging"
)

func quietLogger() logrus.FieldLogger {
	return logging.Discard()
}

// exerciseStore checks the behaviour every backend must share
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "vocab-card-progress")
	require.NoError(t, err)
	assert.False(t, found, "fresh store should not contain key")

	require.NoError(t, store.Set(ctx, "vocab-card-progress", `{"totalWordsLearned":1}`))
	value, found, err := store.Get(ctx, "vocab-card-progress")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"totalWordsLearned":1}`, value)

	require.NoError(t, store.Set(ctx, "vocab-card-progress", `{"totalWordsLearned":2}`))
	value, _, err = store.Get(ctx, "vocab-card-progress")
	require.NoError(t, err)
	assert.Equal(t, `{"totalWordsLearned":2}`, value, "Set should replace the previous value")

	require.NoError(t, store.Set(ctx, "vocab-card-stats", `{}`))
	require.NoError(t, store.Delete(ctx, "vocab-card-progress"))
	_, found, err = store.Get(ctx, "vocab-card-progress")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = store.Get(ctx, "vocab-card-stats")
	require.NoError(t, err)
	assert.True(t, found, "Delete must only remove its own key")

	assert.NoError(t, store.Delete(ctx, "missing"), "deleting an absent key is not an error")
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	exerciseStore(t, store)

	require.NoError(t, store.Close())
	_, _, err := store.Get(context.Background(), "any")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, store.Set(context.Background(), "any", "v"), ErrClosed)
}

func TestSQLStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := config.StorageConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "store.db")}
	store, err := Open(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	defer store.Close()

	require.IsType(t, &SQLStore{}, store)
	exerciseStore(t, store)
}

func TestSQLStorePersistsAcrossReopen(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := config.StorageConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "reopen.db")}

	store, err := Open(ctx, cfg, quietLogger())
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "vocab-card-stats", `{"currentStreak":3}`))
	require.NoError(t, store.Close())

	store, err = Open(ctx, cfg, quietLogger())
	require.NoError(t, err)
	defer store.Close()

	value, found, err := store.Get(ctx, "vocab-card-stats")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"currentStreak":3}`, value)
}

func TestRedisStore(t *testing.T) {
	server := miniredis.RunT(t)

	cfg := config.StorageConfig{Driver: "redis", RedisAddr: server.Addr(), RedisPrefix: "wordcards:"}
	store, err := Open(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)

	require.NoError(t, store.Set(context.Background(), "vocab-card-stats", `{"totalSessions":1}`))
	raw, err := server.Get("wordcards:vocab-card-stats")
	require.NoError(t, err)
	assert.Equal(t, `{"totalSessions":1}`, raw, "keys are stored under the configured prefix")
}

func TestRedisStoreUnreachable(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Driver: "redis", RedisAddr: "127.0.0.1:1"}, quietLogger())
	assert.Error(t, err)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" || testing.Short() {
		t.Skip("MONGO_URI not set")
	}

	cfg := config.StorageConfig{
		Driver:          "mongo",
		MongoURI:        uri,
		MongoDatabase:   "wordcards_test",
		MongoCollection: "kv_store_" + filepath.Base(t.TempDir()),
	}
	store, err := Open(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	defer store.Close()

	mongoStore := store.(*MongoStore)
	defer mongoStore.collection.Drop(context.Background())

	exerciseStore(t, store)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Driver: "cassandra"}, quietLogger())
	assert.Error(t, err)
}

func TestOpenMemory(t *testing.T) {
	store, err := Open(context.Background(), config.StorageConfig{Driver: "memory"}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
}
