package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/hugh/orghub/internal/database/models"
	"gorm.io/gorm"
)

// PartitionPrefix namespaces partition tables away from the shared metadata
// tables. Every partition key starts with it.
const PartitionPrefix = "org_"

// PartitionStore manages the dynamic per-organization partition tables. Each
// partition is one table, named by the organization's partition key, holding
// that organization's admin records. Going through the gorm Migrator keeps
// the operations portable across the Postgres and sqlite dialects.
type PartitionStore struct {
	db *gorm.DB
}

func NewPartitionStore(db *gorm.DB) *PartitionStore {
	return &PartitionStore{db: db}
}

// List returns the partition keys currently present in the database.
func (s *PartitionStore) List(ctx context.Context) ([]string, error) {
	tables, err := s.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	var keys []string
	for _, t := range tables {
		if strings.HasPrefix(t, PartitionPrefix) {
			keys = append(keys, t)
		}
	}
	return keys, nil
}

func (s *PartitionStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.db.WithContext(ctx).Migrator().HasTable(key), nil
}

// Create provisions an empty partition table for the given key.
func (s *PartitionStore) Create(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Table(key).AutoMigrate(&models.Admin{}); err != nil {
		return fmt.Errorf("creating partition %s: %w", key, err)
	}
	return nil
}

// CopyAll copies every record from the src partition into dst, preserving
// record identity. dst is created if it does not exist. Used for rename
// migration.
func (s *PartitionStore) CopyAll(ctx context.Context, src, dst string) (int, error) {
	if err := s.Create(ctx, dst); err != nil {
		return 0, err
	}

	var admins []models.Admin
	if err := s.db.WithContext(ctx).Table(src).Find(&admins).Error; err != nil {
		return 0, fmt.Errorf("reading partition %s: %w", src, err)
	}
	if len(admins) == 0 {
		return 0, nil
	}

	if err := s.db.WithContext(ctx).Table(dst).Create(&admins).Error; err != nil {
		return 0, fmt.Errorf("writing partition %s: %w", dst, err)
	}
	return len(admins), nil
}

// Drop removes a partition and all its records. Idempotent: dropping a
// missing partition is not an error.
func (s *PartitionStore) Drop(ctx context.Context, key string) error {
	migrator := s.db.WithContext(ctx).Migrator()
	if !migrator.HasTable(key) {
		return nil
	}
	if err := migrator.DropTable(key); err != nil {
		return fmt.Errorf("dropping partition %s: %w", key, err)
	}
	return nil
}
