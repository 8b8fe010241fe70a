package models

import "time"

// MinBlockReasonLength is the shortest reason accepted on a block record.
const MinBlockReasonLength = 3

// BlockReason is a creation-only audit row recording why an admin blocked a
// customer. Deleting the creator nulls CreatorID; deleting the customer
// removes the customer's block history with it.
type BlockReason struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Reason         string        `gorm:"size:255;not null" json:"reason"`
	CreatorID      *uint         `gorm:"index" json:"creator_id,omitempty"`
	Creator        *Admin        `gorm:"foreignKey:CreatorID;constraint:OnDelete:SET NULL" json:"creator,omitempty"`
	CustomerUserID uint          `gorm:"not null;index" json:"customer_user_id"`
	CustomerUser   *CustomerUser `gorm:"foreignKey:CustomerUserID;constraint:OnDelete:CASCADE" json:"customer_user,omitempty"`
	BlockedAt      time.Time     `gorm:"not null" json:"blocked_at"`
}

// TableName specifies the table name for GORM.
func (BlockReason) TableName() string {
	return "block_reasons"
}
