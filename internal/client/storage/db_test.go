package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestInitDatabase_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.PingContext(ctx))
	for _, name := range []string{"goose_db_version", "metadata", "staged_photos"} {
		assert.True(t, tableExists(t, db, name), "missing table %s", name)
	}
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db), "second run must be a no-op")
	assert.True(t, tableExists(t, db, "metadata"))
}

func TestNewRepositories_RoomsPersistAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "app.db")

	db, err := InitDatabase(ctx, dsn)
	require.NoError(t, err)
	repos := NewRepositories(db)
	require.NoError(t, repos.Rooms.Upsert(ctx, "p1", models.Room{RoomID: "r1", RoomName: "Kitchen"}))
	require.NoError(t, db.Close())

	db, err = InitDatabase(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	got, err := NewRepositories(db).Rooms.List(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kitchen", got[0].RoomName)
}

func TestPurgeRoom_RemovesDraftKeysAndStagedPhotos(t *testing.T) {
	ctx := context.Background()
	db, err := InitDatabase(ctx, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()
	repos := NewRepositories(db)

	require.NoError(t, repos.Rooms.ReplaceAll(ctx, "p1", []models.Room{{RoomID: "r1"}, {RoomID: "r2"}}))
	require.NoError(t, repos.Metadata.Set(ctx, "property_p1_room_r1_photos", []byte("[]")))
	require.NoError(t, repos.Photos.Create(ctx, &models.StagedPhoto{ID: "s1", PropertyID: "p1", RoomID: "r1", BlobKey: "k1"}))
	require.NoError(t, repos.Photos.Create(ctx, &models.StagedPhoto{ID: "s2", PropertyID: "p1", RoomID: "r2", BlobKey: "k2"}))

	removed, err := repos.PurgeRoom(ctx, "p1", "r1")
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "k1", removed[0].BlobKey)

	left, err := repos.Rooms.List(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, models.ID("r2"), left[0].RoomID)

	v, err := repos.Metadata.Get(ctx, "property_p1_room_r1_photos")
	require.NoError(t, err)
	assert.Nil(t, v)

	staged, err := repos.Photos.ListByRoom(ctx, "p1", "r2")
	require.NoError(t, err)
	assert.Len(t, staged, 1)
}
