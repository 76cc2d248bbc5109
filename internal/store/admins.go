package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hugh/orghub/internal/database/models"
	"gorm.io/gorm"
)

// AdminStore accesses the admin records of a single partition. Every query is
// scoped to the partition table the store was built with.
type AdminStore struct {
	db    *gorm.DB
	table string
}

// NewAdminStore returns a store bound to the given partition key.
func NewAdminStore(db *gorm.DB, partitionKey string) *AdminStore {
	return &AdminStore{db: db, table: partitionKey}
}

func (s *AdminStore) Create(ctx context.Context, admin *models.Admin) error {
	if err := s.db.WithContext(ctx).Table(s.table).Create(admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *AdminStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.WithContext(ctx).
		Table(s.table).
		Where("id = ?", id).
		First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// FindByEmail matches the email case-insensitively and exactly.
func (s *AdminStore) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.WithContext(ctx).
		Table(s.table).
		Where("lower(email) = lower(?)", email).
		First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (s *AdminStore) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Admin, error) {
	result := s.db.WithContext(ctx).
		Table(s.table).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.FindByID(ctx, id)
}
