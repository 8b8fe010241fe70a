package models

import "time"

// Taxonomy is one of the two independent permission namespaces. Standard
// permissions gate platform administration; developer permissions gate the
// developer console. The two catalogs never share codenames or groups.
type Taxonomy string

const (
	TaxonomyStandard  Taxonomy = "standard"
	TaxonomyDeveloper Taxonomy = "developer"
)

// Taxonomies lists every known taxonomy in resolution order.
var Taxonomies = []Taxonomy{TaxonomyStandard, TaxonomyDeveloper}

// Valid reports whether t names a known taxonomy.
func (t Taxonomy) Valid() bool {
	return t == TaxonomyStandard || t == TaxonomyDeveloper
}

// Permission is a named capability within one taxonomy. Codenames are unique
// per taxonomy, not globally.
type Permission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Codename    string    `gorm:"size:100;not null;uniqueIndex:idx_permissions_taxonomy_codename" json:"codename"`
	Taxonomy    Taxonomy  `gorm:"size:16;not null;uniqueIndex:idx_permissions_taxonomy_codename" json:"taxonomy"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Permission) TableName() string {
	return "permissions"
}

// Group bundles permissions of a single taxonomy for assignment to admins.
type Group struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"size:150;not null;uniqueIndex:idx_groups_taxonomy_name" json:"name"`
	Taxonomy    Taxonomy     `gorm:"size:16;not null;uniqueIndex:idx_groups_taxonomy_name" json:"taxonomy"`
	Permissions []Permission `gorm:"many2many:group_permissions;" json:"permissions,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "groups"
}
