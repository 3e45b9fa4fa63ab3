package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/depositkeeper/internal/client/blobstore"
	"github.com/dmitrijs2005/depositkeeper/internal/client/client"
	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/client/repositories/rooms"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
	"github.com/dmitrijs2005/depositkeeper/internal/logging"
)

// RoomsSource tells where a loaded room list came from.
type RoomsSource string

const (
	SourceServer      RoomsSource = "server"
	SourceLocal       RoomsSource = "local"
	SourcePlaceholder RoomsSource = "placeholder"
)

type RoomsResult struct {
	Rooms  []models.Room
	Source RoomsSource
}

// RoomPurger removes a room from the local cache together with its staged
// photos and returns the staged photos it dropped.
type RoomPurger interface {
	PurgeRoom(ctx context.Context, propertyID, roomID models.ID) ([]*models.StagedPhoto, error)
}

type DraftCache interface {
	// LoadRooms never fails: server, then local cache, then placeholders.
	LoadRooms(ctx context.Context, propertyID models.ID) RoomsResult
	// Rooms returns the locally cached rooms only.
	Rooms(ctx context.Context, propertyID models.ID) ([]models.Room, error)
	// SaveRoom persists to the server first; the local cache changes only
	// after the server accepted the list. Failures wrap ErrRoomNotSaved.
	SaveRoom(ctx context.Context, propertyID models.ID, room models.Room) ([]models.Room, error)
	// StageRoom writes the local cache and syncs to the server best-effort.
	StageRoom(ctx context.Context, propertyID models.ID, room models.Room) (synced bool, err error)
	// DeleteRoom is local only; the server keeps its copy and later saves
	// do not remove it there.
	DeleteRoom(ctx context.Context, propertyID, roomID models.ID) error
}

type draftCache struct {
	api    client.RoomAPI
	rooms  rooms.Repository
	purger RoomPurger
	blobs  blobstore.Store
	logger logging.Logger
	now    func() time.Time
}

func NewDraftCache(api client.RoomAPI, repo rooms.Repository, purger RoomPurger, blobs blobstore.Store,
	logger logging.Logger) DraftCache {
	return &draftCache{
		api:    api,
		rooms:  repo,
		purger: purger,
		blobs:  blobs,
		logger: logger.With("service", "drafts"),
		now:    time.Now,
	}
}

func (d *draftCache) LoadRooms(ctx context.Context, propertyID models.ID) RoomsResult {
	local, err := d.rooms.List(ctx, propertyID)
	if err != nil {
		d.logger.Warn(ctx, "cannot read cached rooms", "property", propertyID, "error", err)
		local = nil
	}

	server, err := d.api.GetRooms(ctx, propertyID)
	switch {
	case err != nil:
		d.logger.Warn(ctx, "rooms not loaded from server", "property", propertyID, "error", err)
	case len(server) > 0:
		merged := models.ReconcileRooms(server, local)
		if err := d.rooms.ReplaceAll(ctx, propertyID, merged); err != nil {
			d.logger.Warn(ctx, "cannot cache rooms", "property", propertyID, "error", err)
		}
		return RoomsResult{Rooms: merged, Source: SourceServer}
	}

	if len(local) > 0 {
		return RoomsResult{Rooms: local, Source: SourceLocal}
	}

	placeholders, err := models.DefaultRooms(d.now())
	if err != nil {
		d.logger.Warn(ctx, "cannot build placeholder rooms", "error", err)
		placeholders = []models.Room{}
	}
	return RoomsResult{Rooms: placeholders, Source: SourcePlaceholder}
}

func (d *draftCache) Rooms(ctx context.Context, propertyID models.ID) ([]models.Room, error) {
	return d.rooms.List(ctx, propertyID)
}

func (d *draftCache) SaveRoom(ctx context.Context, propertyID models.ID, room models.Room) ([]models.Room, error) {
	current, err := d.rooms.List(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrRoomNotSaved, err)
	}

	merged := models.UpsertRoom(d.withServerRooms(ctx, propertyID, current), room)
	saved, err := d.api.SaveRooms(ctx, propertyID, merged)
	if err != nil {
		d.logger.Error(ctx, "room not saved", "property", propertyID, "room", room.RoomID, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrRoomNotSaved, err)
	}
	if len(saved) == 0 {
		saved = merged
	}
	if err := d.rooms.ReplaceAll(ctx, propertyID, saved); err != nil {
		d.logger.Warn(ctx, "cannot cache saved rooms", "property", propertyID, "error", err)
	}
	return saved, nil
}

func (d *draftCache) StageRoom(ctx context.Context, propertyID models.ID, room models.Room) (bool, error) {
	if err := d.rooms.Upsert(ctx, propertyID, room); err != nil {
		return false, fmt.Errorf("stage room: %w", err)
	}
	current, err := d.rooms.List(ctx, propertyID)
	if err != nil {
		return false, fmt.Errorf("stage room: %w", err)
	}
	if _, err := d.api.SaveRooms(ctx, propertyID, d.withServerRooms(ctx, propertyID, current)); err != nil {
		d.logger.Warn(ctx, "room kept locally, server sync failed",
			"property", propertyID, "room", room.RoomID, "error", err)
		return false, nil
	}
	return true, nil
}

// withServerRooms builds the list to PUT. The endpoint replaces the whole
// list, so rooms the server has but this device dropped or never saw are
// carried over. Without a server answer the local list goes as is.
func (d *draftCache) withServerRooms(ctx context.Context, propertyID models.ID, local []models.Room) []models.Room {
	server, err := d.api.GetRooms(ctx, propertyID)
	if err != nil {
		d.logger.Debug(ctx, "server rooms unavailable, sending local list", "property", propertyID, "error", err)
		return local
	}
	return models.OverlayRooms(server, local)
}

func (d *draftCache) DeleteRoom(ctx context.Context, propertyID, roomID models.ID) error {
	staged, err := d.purger.PurgeRoom(ctx, propertyID, roomID)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	for _, p := range staged {
		if err := d.blobs.Delete(ctx, p.BlobKey); err != nil {
			d.logger.Warn(ctx, "cannot delete staged blob", "key", p.BlobKey, "error", err)
		}
	}
	d.logger.Info(ctx, "room deleted locally", "property", propertyID, "room", roomID, "photos", len(staged))
	return nil
}
