package rooms

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
)

// KVRepository persists room lists in a metadata.Repository.
type KVRepository struct {
	// guards read-modify-write of a list within this process
	mu   sync.Mutex
	meta metadata.Repository
}

func NewKVRepository(meta metadata.Repository) *KVRepository {
	return &KVRepository{meta: meta}
}

func (r *KVRepository) List(ctx context.Context, propertyID models.ID) ([]models.Room, error) {
	return r.load(ctx, propertyID)
}

func (r *KVRepository) Upsert(ctx context.Context, propertyID models.ID, room models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(ctx, propertyID)
	if err != nil {
		return err
	}
	return r.store(ctx, propertyID, models.UpsertRoom(current, room))
}

func (r *KVRepository) ReplaceAll(ctx context.Context, propertyID models.ID, rooms []models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store(ctx, propertyID, rooms)
}

func (r *KVRepository) Delete(ctx context.Context, propertyID, roomID models.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.load(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := r.store(ctx, propertyID, models.RemoveRoom(current, roomID)); err != nil {
		return err
	}
	prefix := common.RoomKeyPrefix(propertyID.String(), roomID.String())
	if err := r.meta.DeletePrefix(ctx, prefix); err != nil {
		return fmt.Errorf("failed to drop room cache keys: %w", err)
	}
	return nil
}

func (r *KVRepository) load(ctx context.Context, propertyID models.ID) ([]models.Room, error) {
	raw, err := r.meta.Get(ctx, common.PropertyRoomsKey(propertyID.String()))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return []models.Room{}, nil
	}

	var rooms []models.Room
	if err := json.Unmarshal(raw, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms of property %s: %w", propertyID, err)
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return rooms, nil
}

func (r *KVRepository) store(ctx context.Context, propertyID models.ID, rooms []models.Room) error {
	if rooms == nil {
		rooms = []models.Room{}
	}
	raw, err := json.Marshal(rooms)
	if err != nil {
		return fmt.Errorf("failed to encode rooms: %w", err)
	}
	return r.meta.Set(ctx, common.PropertyRoomsKey(propertyID.String()), raw)
}
