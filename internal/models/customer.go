package models

import (
	"time"

	"gorm.io/gorm"
)

// CustomerUser is an end-user account on the customer side of the platform.
// Only the fields the admin surface touches are modelled here; the customer
// service owns the rest.
type CustomerUser struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"unique;not null" json:"username"`
	Email        string         `gorm:"index" json:"email"`
	IsBlocked    bool           `gorm:"default:false" json:"is_blocked"`
	BlockReasons []BlockReason  `gorm:"foreignKey:CustomerUserID" json:"block_reasons,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for GORM.
func (CustomerUser) TableName() string {
	return "customer_users"
}
