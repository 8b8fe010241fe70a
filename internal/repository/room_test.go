package repository

import (
	"context"
	"testing"
	"time"

	"atrium/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRoomStore(t *testing.T) (RoomStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRoomStore(client), mr
}

func TestRoomStore_InsertAndFind(t *testing.T) {
	store, _ := setupRoomStore(t)
	ctx := context.Background()

	room := &models.Room{
		RoomName:  "general",
		CreatedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Insert(ctx, room))
	require.NotEmpty(t, room.ID, "missing IDs get generated")

	got, err := store.FindByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)
	assert.Equal(t, "general", got.RoomName)
	assert.True(t, got.CreatedAt.Equal(room.CreatedAt))
}

func TestRoomStore_InsertKeepsProvidedID(t *testing.T) {
	store, _ := setupRoomStore(t)
	ctx := context.Background()

	room := &models.Room{ID: "imported-room-1", RoomName: "imported", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Insert(ctx, room))
	assert.Equal(t, "imported-room-1", room.ID)
}

func TestRoomStore_FindByID_NotFound(t *testing.T) {
	store, _ := setupRoomStore(t)

	_, err := store.FindByID(context.Background(), "no-such-room")
	require.Error(t, err)
	assert.True(t, models.IsCode(err, "NOT_FOUND"))
}

func TestRoomStore_List(t *testing.T) {
	store, _ := setupRoomStore(t)
	ctx := context.Background()

	for _, name := range []string{"general", "random", "support"} {
		require.NoError(t, store.Insert(ctx, &models.Room{RoomName: name, CreatedAt: time.Now().UTC()}))
	}

	rooms, err := store.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, rooms, 3)

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRoomStore_List_Empty(t *testing.T) {
	store, _ := setupRoomStore(t)

	rooms, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestRoomStore_List_SkipsEvictedDocuments(t *testing.T) {
	store, mr := setupRoomStore(t)
	ctx := context.Background()

	room := &models.Room{RoomName: "general", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Insert(ctx, room))
	stale := &models.Room{RoomName: "stale", CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Insert(ctx, stale))

	// Simulate an evicted document whose index entry still exists.
	mr.Del("room:" + stale.ID)

	rooms, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, room.ID, rooms[0].ID)
}

func TestRoomStore_NilClient(t *testing.T) {
	store := NewRoomStore(nil)
	ctx := context.Background()

	require.Error(t, store.Insert(ctx, &models.Room{RoomName: "general"}))
	_, err := store.FindByID(ctx, "x")
	require.Error(t, err)
	_, err = store.List(ctx, 10)
	require.Error(t, err)
}
