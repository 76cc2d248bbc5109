package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/orghub/internal/database/models"
	"gorm.io/gorm"
)

// OrganizationStore is the metadata store: organization records in the shared
// "organizations" table, with soft-delete auditing.
type OrganizationStore struct {
	db *gorm.DB
}

func NewOrganizationStore(db *gorm.DB) *OrganizationStore {
	return &OrganizationStore{db: db}
}

// Create inserts a new organization record. Unique indexes on name and
// partition_key turn concurrent duplicates into ErrConflict.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	if err := s.db.WithContext(ctx).Create(org).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *OrganizationStore) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*models.Organization, error) {
	query := s.db.WithContext(ctx).Where("id = ?", id)
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var org models.Organization
	if err := query.First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// FindByName matches the name case-insensitively and exactly.
func (s *OrganizationStore) FindByName(ctx context.Context, name string, includeDeleted bool) (*models.Organization, error) {
	query := s.db.WithContext(ctx).Where("lower(name) = lower(?)", name)
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var org models.Organization
	if err := query.First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// List returns organizations in insertion order with offset/limit pagination.
func (s *OrganizationStore) List(ctx context.Context, skip, limit int, includeDeleted bool) ([]models.Organization, error) {
	query := s.db.WithContext(ctx).Model(&models.Organization{})
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var orgs []models.Organization
	if err := query.
		Order("created_at ASC").
		Offset(skip).
		Limit(limit).
		Find(&orgs).Error; err != nil {
		return nil, err
	}
	return orgs, nil
}

// Update applies the given fields to a non-deleted organization and returns
// the refreshed record. updated_at is bumped by gorm.
func (s *OrganizationStore) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Organization, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(fields)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.FindByID(ctx, id, false)
}

// SoftDelete marks the organization deleted and records who deleted it.
// Returns false if the record is missing or already deleted, so two racing
// deletes resolve to exactly one winner.
func (s *OrganizationStore) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) (bool, error) {
	now := time.Now()
	result := s.db.WithContext(ctx).
		Model(&models.Organization{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": &now,
			"deleted_by": deletedBy,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// HardDelete permanently removes the record. Only used to compensate a failed
// creation; soft delete is the normal path.
func (s *OrganizationStore) HardDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Organization{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
