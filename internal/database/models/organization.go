package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the shared metadata record for a tenant. The tenant's own
// data lives in a dedicated partition table named by PartitionKey.
//
// Soft delete is modeled with explicit audit columns rather than gorm's
// DeletedAt so the deleting admin is recorded and deleted rows stay queryable.
type Organization struct {
	Base
	Name         string    `gorm:"uniqueIndex;not null" json:"name"`
	Description  string    `gorm:"size:500" json:"description"`
	PartitionKey string    `gorm:"uniqueIndex;not null" json:"partition_key"`
	AdminID      uuid.UUID `gorm:"type:uuid" json:"admin_id"`

	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy uuid.UUID  `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

func (Organization) TableName() string {
	return "organizations"
}
