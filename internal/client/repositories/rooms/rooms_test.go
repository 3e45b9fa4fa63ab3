package rooms

import (
	"context"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/depositkeeper/internal/client/models"
	"github.com/dmitrijs2005/depositkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/depositkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func implementations() map[string]Repository {
	return map[string]Repository{
		"kv":     NewKVRepository(metadata.NewMemoryRepository()),
		"memory": NewMemoryRepository(),
	}
}

func TestRepository_ListUnknownPropertyIsEmpty(t *testing.T) {
	for name, r := range implementations() {
		t.Run(name, func(t *testing.T) {
			got, err := r.List(context.Background(), "nope")
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestRepository_UpsertTwiceDoesNotDuplicate(t *testing.T) {
	for name := range implementations() {
		for n := 0; n <= 4; n++ {
			t.Run(fmt.Sprintf("%s/len=%d", name, n), func(t *testing.T) {
				r := implementations()[name]
				ctx := context.Background()

				seed := make([]models.Room, 0, n)
				for i := 0; i < n; i++ {
					seed = append(seed, models.Room{RoomID: models.ID(fmt.Sprintf("r%d", i))})
				}
				require.NoError(t, r.ReplaceAll(ctx, "p", seed))

				room := models.Room{RoomID: "new", RoomName: "Study"}
				require.NoError(t, r.Upsert(ctx, "p", room))
				once, err := r.List(ctx, "p")
				require.NoError(t, err)

				require.NoError(t, r.Upsert(ctx, "p", room))
				twice, err := r.List(ctx, "p")
				require.NoError(t, err)

				assert.Len(t, once, n+1)
				assert.Equal(t, once, twice)
			})
		}
	}
}

func TestRepository_UpsertUpdatesInPlace(t *testing.T) {
	for name, r := range implementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.ReplaceAll(ctx, "p", []models.Room{{RoomID: "a", RoomName: "A"}, {RoomID: "b", RoomName: "B"}}))
			require.NoError(t, r.Upsert(ctx, "p", models.Room{RoomID: "a", RoomName: "A2"}))

			got, err := r.List(ctx, "p")
			require.NoError(t, err)
			require.Len(t, got, 2)
			assert.Equal(t, "A2", got[0].RoomName)
		})
	}
}

func TestRepository_PropertiesAreIsolated(t *testing.T) {
	for name, r := range implementations() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, r.Upsert(ctx, "p1", models.Room{RoomID: "a"}))
			require.NoError(t, r.Upsert(ctx, "p2", models.Room{RoomID: "b"}))
			require.NoError(t, r.Delete(ctx, "p1", "a"))

			p1, err := r.List(ctx, "p1")
			require.NoError(t, err)
			assert.Empty(t, p1)
			p2, err := r.List(ctx, "p2")
			require.NoError(t, err)
			assert.Len(t, p2, 1)
		})
	}
}

func TestKVRepository_StoresJSONUnderPropertyKey(t *testing.T) {
	meta := metadata.NewMemoryRepository()
	r := NewKVRepository(meta)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, "42", models.Room{RoomID: "r1", RoomName: "Kitchen", RoomType: models.RoomTypeKitchen}))

	raw, err := meta.Get(ctx, "property_42_rooms")
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"roomId":"r1"`)
	assert.Contains(t, string(raw), `"roomName":"Kitchen"`)
}

func TestKVRepository_DeleteDropsPerRoomKeys(t *testing.T) {
	meta := metadata.NewMemoryRepository()
	r := NewKVRepository(meta)
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, "1", models.Room{RoomID: "r1"}))
	require.NoError(t, meta.Set(ctx, common.RoomKeyPrefix("1", "r1")+"photos", []byte("[]")))
	require.NoError(t, meta.Set(ctx, common.RoomKeyPrefix("1", "r2")+"photos", []byte("[]")))

	require.NoError(t, r.Delete(ctx, "1", "r1"))

	v, err := meta.Get(ctx, common.RoomKeyPrefix("1", "r1")+"photos")
	require.NoError(t, err)
	assert.Nil(t, v)
	v, err = meta.Get(ctx, common.RoomKeyPrefix("1", "r2")+"photos")
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestKVRepository_CorruptValue(t *testing.T) {
	meta := metadata.NewMemoryRepository()
	require.NoError(t, meta.Set(context.Background(), "property_9_rooms", []byte("{not json")))

	_, err := NewKVRepository(meta).List(context.Background(), "9")
	require.Error(t, err)
}
