// Package storage opens the local cache database and wires the repositories
// that live in it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/depositkeeper/internal/client/migrations"
	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/depositkeeper/internal/client/repositories/photos"
	"github.com/dmitrijs2005/depositkeeper/internal/client/repositories/rooms"
	"github.com/dmitrijs2005/depositkeeper/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Metadata metadata.Repository
	Rooms    rooms.Repository
	Photos   photos.Repository

	db *sql.DB
}

// NewRepositories builds the repository set over an already migrated db.
func NewRepositories(db *sql.DB) *Repositories {
	meta := metadata.NewSQLiteRepository(db)
	return &Repositories{
		Metadata: meta,
		Rooms:    rooms.NewKVRepository(meta),
		Photos:   photos.NewSQLiteRepository(db),
		db:       db,
	}
}

// PurgeRoom removes a room from the draft list, its per-room cache keys and
// its staged photos in one transaction. The staged photos that were removed
// are returned so the caller can drop their blobs.
func (r *Repositories) PurgeRoom(ctx context.Context, propertyID, roomID models.ID) ([]*models.StagedPhoto, error) {
	var removed []*models.StagedPhoto
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		staged := photos.NewSQLiteRepository(tx)

		var err error
		removed, err = staged.ListByRoom(ctx, propertyID, roomID)
		if err != nil {
			return err
		}
		if err := rooms.NewKVRepository(metadata.NewSQLiteRepository(tx)).Delete(ctx, propertyID, roomID); err != nil {
			return err
		}
		return staged.DeleteByRoom(ctx, propertyID, roomID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to purge room %s: %w", roomID, err)
	}
	return removed, nil
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite file at dsn and brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer keeps SQLite from returning SQLITE_BUSY under the watcher
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
