package models

import (
	"strings"
	"time"
)

// Room is a chat room record kept in the document store. Rooms are immutable
// after creation; the chat backend owns messages and membership.
type Room struct {
	ID        string    `json:"id,omitempty"`
	RoomName  string    `json:"room_name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRoom validates the candidate fields and returns a Room. The caller
// supplies now so validation is deterministic; a zero createdAt defaults to
// now. The name must be non-empty after trimming and createdAt must not sit
// in the future.
func NewRoom(roomName string, createdAt time.Time, now time.Time) (*Room, error) {
	if strings.TrimSpace(roomName) == "" {
		return nil, NewValidationError("room_name must not be empty")
	}
	if createdAt.IsZero() {
		createdAt = now
	}
	if createdAt.After(now) {
		return nil, NewValidationError("created_at cannot be in the future")
	}
	return &Room{RoomName: roomName, CreatedAt: createdAt}, nil
}
