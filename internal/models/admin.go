// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin represents a platform administrator account. Permissions reach an
// admin two ways: direct grants (Permissions) and grants inherited through
// group membership (Groups). Both relations span both taxonomies; the
// taxonomy tag lives on the permission and group rows themselves.
type Admin struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"unique;not null" json:"username"`
	Email       string         `gorm:"index" json:"email"`
	Phone       string         `json:"phone,omitempty"`
	Password    string         `gorm:"not null" json:"-"`
	Avatar      string         `json:"avatar,omitempty"`
	IsSuperuser bool           `gorm:"default:false" json:"is_superuser"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CountryID   *uint          `json:"country_id,omitempty"`
	Country     *Country       `gorm:"foreignKey:CountryID;constraint:OnDelete:SET NULL" json:"country,omitempty"`
	Groups      []Group        `gorm:"many2many:admin_groups;" json:"groups,omitempty"`
	Permissions []Permission   `gorm:"many2many:admin_permissions;" json:"permissions,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (Admin) TableName() string {
	return "admins"
}

// Country is a reference row admins may point at. Deleting a country nulls
// the reference rather than cascading.
type Country struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:2;unique;not null" json:"code"`
	Name string `gorm:"size:100;not null" json:"name"`
}

// TableName specifies the table name for GORM.
func (Country) TableName() string {
	return "countries"
}
