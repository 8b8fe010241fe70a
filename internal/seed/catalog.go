package seed

import (
	"fmt"

	"atrium/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInPermission is a permanent catalog entry.
type BuiltInPermission struct {
	Codename    string
	Taxonomy    models.Taxonomy
	Description string
}

// BuiltInPermissions defines the permanent permission catalog. The server's
// route gates reference the standard entries by codename, so removing one
// here locks every non-superuser out of that surface.
var BuiltInPermissions = []BuiltInPermission{
	{Codename: "admins.manage", Taxonomy: models.TaxonomyStandard, Description: "Provision, list, and deactivate admin accounts."},
	{Codename: "permissions.manage", Taxonomy: models.TaxonomyStandard, Description: "Manage the permission catalog, groups, and grants."},
	{Codename: "customers.block", Taxonomy: models.TaxonomyStandard, Description: "Block customer accounts and read block history."},
	{Codename: "rooms.manage", Taxonomy: models.TaxonomyStandard, Description: "Create chat room records."},
	{Codename: "migrations.run", Taxonomy: models.TaxonomyDeveloper, Description: "Run schema migrations against live environments."},
	{Codename: "debug.traces", Taxonomy: models.TaxonomyDeveloper, Description: "Read raw request traces and spans."},
	{Codename: "seeds.run", Taxonomy: models.TaxonomyDeveloper, Description: "Populate environments with generated data."},
}

// BuiltInGroup bundles catalog permissions under a role name.
type BuiltInGroup struct {
	Name      string
	Taxonomy  models.Taxonomy
	Codenames []string
}

// BuiltInGroups defines the default role groups. A group only ever carries
// permissions from its own taxonomy.
var BuiltInGroups = []BuiltInGroup{
	{Name: "Moderators", Taxonomy: models.TaxonomyStandard, Codenames: []string{"customers.block", "rooms.manage"}},
	{Name: "Account Managers", Taxonomy: models.TaxonomyStandard, Codenames: []string{"admins.manage", "permissions.manage"}},
	{Name: "Platform Engineers", Taxonomy: models.TaxonomyDeveloper, Codenames: []string{"migrations.run", "debug.traces", "seeds.run"}},
}

// Catalog upserts the built-in permissions and groups. It is idempotent and
// safe to run on every boot.
func Catalog(db *gorm.DB) error {
	for _, item := range BuiltInPermissions {
		perm := models.Permission{
			Codename:    item.Codename,
			Taxonomy:    item.Taxonomy,
			Description: item.Description,
		}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "taxonomy"}, {Name: "codename"}},
			DoUpdates: clause.AssignmentColumns([]string{"description"}),
		}).Create(&perm).Error; err != nil {
			return fmt.Errorf("upsert permission %s/%s: %w", item.Taxonomy, item.Codename, err)
		}
	}

	for _, item := range BuiltInGroups {
		err := db.Transaction(func(tx *gorm.DB) error {
			group := models.Group{Name: item.Name, Taxonomy: item.Taxonomy}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "taxonomy"}, {Name: "name"}},
				DoNothing: true,
			}).Create(&group).Error; err != nil {
				return err
			}
			if group.ID == 0 {
				if err := tx.Where("taxonomy = ? AND name = ?", item.Taxonomy, item.Name).
					First(&group).Error; err != nil {
					return err
				}
			}

			var perms []models.Permission
			if err := tx.Where("taxonomy = ? AND codename IN ?", item.Taxonomy, item.Codenames).
				Find(&perms).Error; err != nil {
				return err
			}
			return tx.Model(&group).Association("Permissions").Replace(&perms)
		})
		if err != nil {
			return fmt.Errorf("upsert group %s/%s: %w", item.Taxonomy, item.Name, err)
		}
	}

	return nil
}

// BuiltInCountry is a country row admins can be assigned to.
type BuiltInCountry struct {
	Code string
	Name string
}

// BuiltInCountries is a small default country set for admin profiles.
var BuiltInCountries = []BuiltInCountry{
	{Code: "US", Name: "United States"},
	{Code: "GB", Name: "United Kingdom"},
	{Code: "DE", Name: "Germany"},
	{Code: "FR", Name: "France"},
	{Code: "JP", Name: "Japan"},
	{Code: "BR", Name: "Brazil"},
	{Code: "IN", Name: "India"},
	{Code: "AU", Name: "Australia"},
}

// Countries upserts the default country rows.
func Countries(db *gorm.DB) error {
	for _, item := range BuiltInCountries {
		country := models.Country{Code: item.Code, Name: item.Name}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&country).Error; err != nil {
			return fmt.Errorf("upsert country %s: %w", item.Code, err)
		}
	}
	return nil
}
