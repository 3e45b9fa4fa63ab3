package rooms

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
)

type MemoryRepository struct {
	mu    sync.Mutex
	rooms map[models.ID][]models.Room
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rooms: make(map[models.ID][]models.Room)}
}

func (r *MemoryRepository) List(_ context.Context, propertyID models.ID) ([]models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.rooms[propertyID])
	if out == nil {
		out = []models.Room{}
	}
	return out, nil
}

func (r *MemoryRepository) Upsert(_ context.Context, propertyID models.ID, room models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[propertyID] = models.UpsertRoom(r.rooms[propertyID], room)
	return nil
}

func (r *MemoryRepository) ReplaceAll(_ context.Context, propertyID models.ID, rooms []models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[propertyID] = slices.Clone(rooms)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, propertyID, roomID models.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[propertyID] = models.RemoveRoom(r.rooms[propertyID], roomID)
	return nil
}
