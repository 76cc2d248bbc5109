package models

import "github.com/google/uuid"

// Admin lives inside its organization's partition table, never in the shared
// metadata tables. That table is the tenant isolation boundary: admins are
// hard-deleted with their partition and carry no soft-delete state.
type Admin struct {
	Base
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Name           string    `gorm:"not null" json:"name"`
	HashedPassword string    `gorm:"not null" json:"-"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null" json:"organization_id"`
}
