package seed

import (
	"context"
	"testing"

	"atrium/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Country{},
		&models.CustomerUser{},
		&models.Admin{},
		&models.Permission{},
		&models.Group{},
		&models.BlockReason{},
	))
	return db
}

func TestCatalog_Idempotent(t *testing.T) {
	db := setupSeedTestDB(t)

	require.NoError(t, Catalog(db))
	require.NoError(t, Catalog(db), "second run must not conflict")

	var permCount int64
	require.NoError(t, db.Model(&models.Permission{}).Count(&permCount).Error)
	assert.Equal(t, int64(len(BuiltInPermissions)), permCount)

	var groupCount int64
	require.NoError(t, db.Model(&models.Group{}).Count(&groupCount).Error)
	assert.Equal(t, int64(len(BuiltInGroups)), groupCount)
}

func TestCatalog_GroupsCarryTheirPermissions(t *testing.T) {
	db := setupSeedTestDB(t)
	require.NoError(t, Catalog(db))

	var moderators models.Group
	require.NoError(t, db.Preload("Permissions").
		Where("taxonomy = ? AND name = ?", models.TaxonomyStandard, "Moderators").
		First(&moderators).Error)

	codenames := make([]string, 0, len(moderators.Permissions))
	for _, p := range moderators.Permissions {
		codenames = append(codenames, p.Codename)
		assert.Equal(t, models.TaxonomyStandard, p.Taxonomy)
	}
	assert.ElementsMatch(t, []string{"customers.block", "rooms.manage"}, codenames)
}

func TestCountries_Idempotent(t *testing.T) {
	db := setupSeedTestDB(t)

	require.NoError(t, Countries(db))
	require.NoError(t, Countries(db))

	var count int64
	require.NoError(t, db.Model(&models.Country{}).Count(&count).Error)
	assert.Equal(t, int64(len(BuiltInCountries)), count)
}

func TestEnsureSuperuser(t *testing.T) {
	db := setupSeedTestDB(t)
	ctx := context.Background()

	first, err := EnsureSuperuser(ctx, db, "Root_Admin", "root@example.com", "Str0ng&Secure!pass")
	require.NoError(t, err)
	assert.True(t, first.IsSuperuser)
	assert.Equal(t, "root_admin", first.Username)

	// Second call finds the existing row instead of failing on the unique index.
	second, err := EnsureSuperuser(ctx, db, "root_admin", "root@example.com", "Str0ng&Secure!pass")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Admin{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
