package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"atrium/internal/models"
	"atrium/internal/observability"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RoomStore persists room documents. Rooms live in the document store, not
// the relational database; the chat backend reads them from the same keys.
type RoomStore interface {
	Insert(ctx context.Context, room *models.Room) error
	FindByID(ctx context.Context, id string) (*models.Room, error)
	List(ctx context.Context, limit int) ([]models.Room, error)
}

const roomIndexKey = "rooms:index"

func roomKey(id string) string {
	return fmt.Sprintf("room:%s", id)
}

type roomStore struct {
	rdb *redis.Client
}

// NewRoomStore returns a RoomStore backed by the given Redis client.
func NewRoomStore(rdb *redis.Client) RoomStore {
	return &roomStore{rdb: rdb}
}

// Insert stores the room as a JSON document and adds it to the index set.
// A missing ID gets a generated UUID.
func (s *roomStore) Insert(ctx context.Context, room *models.Room) error {
	if s.rdb == nil {
		return models.NewInternalError(errors.New("room store unavailable"))
	}
	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "room.insert")
	defer span.End()

	if room.ID == "" {
		room.ID = uuid.NewString()
	}

	b, err := json.Marshal(room)
	if err != nil {
		return models.NewInternalError(err)
	}

	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, roomKey(room.ID), b, 0)
	pipe.SAdd(ctx, roomIndexKey, room.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return models.NewInternalError(err)
	}

	observability.RoomsCreated.Inc()
	return nil
}

func (s *roomStore) FindByID(ctx context.Context, id string) (*models.Room, error) {
	if s.rdb == nil {
		return nil, models.NewInternalError(errors.New("room store unavailable"))
	}
	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "room.get")
	defer span.End()

	val, err := s.rdb.Get(ctx, roomKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, models.NewNotFoundError("Room", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var room models.Room
	if err := json.Unmarshal([]byte(val), &room); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &room, nil
}

func (s *roomStore) List(ctx context.Context, limit int) ([]models.Room, error) {
	if s.rdb == nil {
		return nil, models.NewInternalError(errors.New("room store unavailable"))
	}
	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "room.list")
	defer span.End()

	if limit <= 0 || limit > 100 {
		limit = 100
	}

	ids, err := s.rdb.SMembers(ctx, roomIndexKey).Result()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	if len(ids) == 0 {
		return []models.Room{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = roomKey(id)
	}

	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	rooms := make([]models.Room, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			// Index can briefly point at an evicted document; skip it.
			continue
		}
		var room models.Room
		if err := json.Unmarshal([]byte(str), &room); err != nil {
			continue
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}
