package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRoom(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	t.Run("valid name and timestamp", func(t *testing.T) {
		createdAt := now.Add(-time.Hour)
		room, err := NewRoom("general", createdAt, now)
		require.NoError(t, err)
		require.Equal(t, "general", room.RoomName)
		require.Equal(t, createdAt, room.CreatedAt)
		require.Empty(t, room.ID)
	})

	t.Run("zero created_at defaults to now", func(t *testing.T) {
		room, err := NewRoom("general", time.Time{}, now)
		require.NoError(t, err)
		require.Equal(t, now, room.CreatedAt)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := NewRoom("", time.Time{}, now)
		require.Error(t, err)
		require.True(t, IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("whitespace-only name rejected", func(t *testing.T) {
		_, err := NewRoom("   \t ", time.Time{}, now)
		require.Error(t, err)
		require.True(t, IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("future created_at rejected", func(t *testing.T) {
		_, err := NewRoom("general", now.Add(time.Minute), now)
		require.Error(t, err)
		require.True(t, IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("created_at equal to now accepted", func(t *testing.T) {
		room, err := NewRoom("general", now, now)
		require.NoError(t, err)
		require.Equal(t, now, room.CreatedAt)
	})
}

func TestTaxonomyValid(t *testing.T) {
	require.True(t, TaxonomyStandard.Valid())
	require.True(t, TaxonomyDeveloper.Valid())
	require.False(t, Taxonomy("").Valid())
	require.False(t, Taxonomy("admin").Valid())
}
