package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"atrium/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestAdminRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		adminID       uint
		mockBehavior  func()
		expectedName  string
		expectedError bool
	}{
		{
			name:    "Success",
			adminID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email", "is_superuser", "is_active"}).
					AddRow(1, "rootadmin", "root@example.com", true, true)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "admins" WHERE "admins"."id" = $1 AND "admins"."deleted_at" IS NULL ORDER BY "admins"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedName: "rootadmin",
		},
		{
			name:    "Not Found",
			adminID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "admins" WHERE "admins"."id" = $1 AND "admins"."deleted_at" IS NULL ORDER BY "admins"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			admin, err := repo.GetByID(ctx, tt.adminID)

			if tt.expectedError {
				assert.Error(t, err)
				assert.True(t, models.IsCode(err, "NOT_FOUND"))
			} else if assert.NotNil(t, admin) {
				assert.Equal(t, tt.expectedName, admin.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdminRepository_GetByUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "username", "email"}).
			AddRow(1, "rootadmin", "root@example.com")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "admins" WHERE username = $1 AND "admins"."deleted_at" IS NULL ORDER BY "admins"."id" LIMIT $2`)).
			WithArgs("rootadmin", 1).
			WillReturnRows(rows)

		admin, err := repo.GetByUsername(ctx, "rootadmin")
		require.NoError(t, err)
		require.NotNil(t, admin)
		assert.Equal(t, uint(1), admin.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss returns nil without error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "admins" WHERE username = $1`)).
			WithArgs("nobody", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		admin, err := repo.GetByUsername(ctx, "nobody")
		assert.NoError(t, err)
		assert.Nil(t, admin)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAdminRepository_Create_DuplicateUsername(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "admins"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "uni_admins_username" (SQLSTATE 23505)`))
	mock.ExpectRollback()

	err := repo.Create(ctx, &models.Admin{Username: "rootadmin", Email: "root@example.com", Password: "hash"})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, "VALIDATION_ERROR"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminRepository_List_DatabaseError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "admins"`)).
		WillReturnError(errors.New("connection timeout"))

	admins, err := repo.List(ctx, 20, 0)
	assert.Error(t, err)
	assert.Nil(t, admins)
	assert.True(t, models.IsCode(err, "INTERNAL_ERROR"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueConstraintError(t *testing.T) {
	assert.False(t, isUniqueConstraintError(nil))
	assert.False(t, isUniqueConstraintError(errors.New("connection refused")))
	assert.True(t, isUniqueConstraintError(errors.New("SQLSTATE 23505")))
	assert.True(t, isUniqueConstraintError(errors.New(`duplicate key value violates unique constraint "x"`)))
	assert.True(t, isUniqueConstraintError(errors.New("UNIQUE constraint failed: admins.username")))
}
