// Package photos persists staged photos: images captured on this device
// that wait for, or have finished, their upload to the backend.
//
// Rows live in the staged_photos table of the local SQLite database and are
// accessed through a dbx.DBTX, so the repository can run inside
// dbx.WithTx together with the metadata repository.
//
//	repo := photos.NewSQLiteRepository(db)
//	_ = repo.Create(ctx, staged)
//	pending, _ := repo.ListPending(ctx, propertyID, roomID, false)
//	_ = repo.MarkUploaded(ctx, staged.ID, remoteID)
package photos

import (
	"context"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
)

type Repository interface {
	// Create inserts a staged photo or overwrites the row with the same id.
	Create(ctx context.Context, p *models.StagedPhoto) error

	// Get returns common.ErrorNotFound when no row has the id.
	Get(ctx context.Context, id string) (*models.StagedPhoto, error)

	// ListByRoom returns every staged photo of a room, oldest first.
	ListByRoom(ctx context.Context, propertyID, roomID models.ID) ([]*models.StagedPhoto, error)

	// ListPending returns the photos of one pass that are not uploaded yet,
	// including earlier failures, oldest first.
	ListPending(ctx context.Context, propertyID, roomID models.ID, moveOut bool) ([]*models.StagedPhoto, error)

	MarkUploaded(ctx context.Context, id string, remoteID models.ID) error
	MarkFailed(ctx context.Context, id string) error

	// DeleteByRemoteID drops the row of an uploaded photo; no row is fine.
	DeleteByRemoteID(ctx context.Context, remoteID models.ID) error
	// DeleteByRoom drops every staged photo of a room.
	DeleteByRoom(ctx context.Context, propertyID, roomID models.ID) error
}
