// Package rooms stores the per-property room drafts of the walkthrough.
//
// Two implementations satisfy Repository: KVRepository keeps each
// property's ordered room list as one JSON array in the metadata store
// (key property_<id>_rooms), MemoryRepository keeps it in a map for tests.
// Both merge by room id on Upsert, so saving the same room twice never
// duplicates it.
package rooms

import (
	"context"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
)

type Repository interface {
	// List returns the cached rooms of a property in their stored order.
	// An unknown property yields an empty list.
	List(ctx context.Context, propertyID models.ID) ([]models.Room, error)
	// Upsert replaces the room with the same id or appends it.
	Upsert(ctx context.Context, propertyID models.ID, room models.Room) error
	// ReplaceAll overwrites the whole list of a property.
	ReplaceAll(ctx context.Context, propertyID models.ID, rooms []models.Room) error
	// Delete removes a room together with its per-room cache keys.
	Delete(ctx context.Context, propertyID, roomID models.ID) error
}
