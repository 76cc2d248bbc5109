// Package org implements the organization lifecycle: creating, renaming and
// deleting tenants while keeping the shared metadata and the per-tenant
// partition consistent under partial failure.
package org

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hugh/orghub/internal/database/models"
	"github.com/hugh/orghub/internal/store"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("organization not found")
	ErrNameExists      = errors.New("organization name already exists")
	ErrNameArchived    = errors.New("organization name was previously used and is archived")
	ErrPartitionExists = errors.New("partition already exists")
	ErrInvalidName     = errors.New("organization name contains no usable characters")
	ErrForbidden       = errors.New("not authorized to manage this organization")
)

// CredentialHasher hashes the admin password at organization creation.
// Implemented by the auth package.
type CredentialHasher interface {
	Hash(password string) (string, error)
}

// partitionManager is the slice of the partition store the lifecycle needs.
type partitionManager interface {
	Exists(ctx context.Context, key string) (bool, error)
	Create(ctx context.Context, key string) error
	CopyAll(ctx context.Context, src, dst string) (int, error)
	Drop(ctx context.Context, key string) error
}

type Service struct {
	db         *gorm.DB
	orgs       *store.OrganizationStore
	partitions partitionManager
	hasher     CredentialHasher
	logger     *slog.Logger
}

func NewService(db *gorm.DB, hasher CredentialHasher, logger *slog.Logger) *Service {
	return &Service{
		db:         db,
		orgs:       store.NewOrganizationStore(db),
		partitions: store.NewPartitionStore(db),
		hasher:     hasher,
		logger:     logger,
	}
}

type CreateInput struct {
	Name          string
	Description   string
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

type UpdateInput struct {
	Name        *string
	Description *string
}

// DeleteResult acknowledges that the audit metadata survives a delete while
// the operational data does not.
type DeleteResult struct {
	OrganizationID uuid.UUID `json:"organization_id"`
	DeletedBy      uuid.UUID `json:"deleted_by"`
	AuditRetained  bool      `json:"audit_retained"`
}

// Create registers an organization, provisions its partition and creates the
// owning admin inside it. The multi-store sequence runs as a saga: if any
// step after the metadata insert fails, the completed steps are compensated
// (metadata hard-deleted, partition dropped) before the error surfaces.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Organization, error) {
	existing, err := s.orgs.FindByName(ctx, input.Name, true)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking name: %w", err)
	}
	if existing != nil {
		if existing.IsDeleted {
			return nil, ErrNameArchived
		}
		return nil, ErrNameExists
	}

	key := PartitionKey(input.Name)
	if key == store.PartitionPrefix {
		return nil, ErrInvalidName
	}

	// Distinct names can sanitize to the same key; the partition listing is
	// the authority here, not the metadata table.
	exists, err := s.partitions.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("checking partition: %w", err)
	}
	if exists {
		return nil, ErrPartitionExists
	}

	hash, err := s.hasher.Hash(input.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	org := &models.Organization{
		Name:         input.Name,
		Description:  input.Description,
		PartitionKey: key,
	}
	admin := &models.Admin{
		Email:          input.AdminEmail,
		Name:           input.AdminName,
		HashedPassword: hash,
	}

	sg := saga{logger: s.logger}
	sg.add(step{
		name: "create metadata",
		run: func(ctx context.Context) error {
			return s.orgs.Create(ctx, org)
		},
		compensate: func(ctx context.Context) error {
			_, err := s.orgs.HardDelete(ctx, org.ID)
			return err
		},
	})
	sg.add(step{
		name: "create partition",
		run: func(ctx context.Context) error {
			return s.partitions.Create(ctx, key)
		},
		compensate: func(ctx context.Context) error {
			return s.partitions.Drop(ctx, key)
		},
	})
	sg.add(step{
		name: "create admin",
		run: func(ctx context.Context) error {
			admin.OrganizationID = org.ID
			return store.NewAdminStore(s.db, key).Create(ctx, admin)
		},
	})
	sg.add(step{
		name: "backfill admin id",
		run: func(ctx context.Context) error {
			updated, err := s.orgs.Update(ctx, org.ID, map[string]interface{}{"admin_id": admin.ID})
			if err != nil {
				return err
			}
			org = updated
			return nil
		},
	})

	if err := sg.run(ctx); err != nil {
		// A racing create can slip past the pre-checks; the unique indexes
		// report it as a conflict rather than an internal failure.
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrNameExists
		}
		return nil, fmt.Errorf("creating organization: %w", err)
	}

	s.logger.Info("organization created",
		"org_id", org.ID,
		"partition", key,
		"admin_id", admin.ID,
	)
	return org, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	org, err := s.orgs.FindByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return org, nil
}

// List returns active organizations only.
func (s *Service) List(ctx context.Context, skip, limit int) ([]models.Organization, error) {
	return s.orgs.List(ctx, skip, limit, false)
}

// Update applies a metadata patch. A name change migrates the partition: the
// records are copied into the new partition, the metadata is switched over,
// then the old partition is dropped. A failure during copy or switch-over
// drops the new partition and leaves the old one untouched. A failure
// dropping the old partition after the switch-over is logged and left for the
// partition audit; the rename itself has already succeeded at that point.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch UpdateInput, requestingAdminID uuid.UUID) (*models.Organization, error) {
	org, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if org.AdminID != requestingAdminID {
		return nil, ErrForbidden
	}

	fields := map[string]interface{}{}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}

	if patch.Name == nil || *patch.Name == org.Name {
		if len(fields) == 0 {
			return org, nil
		}
		return s.applyFields(ctx, id, fields)
	}

	newName := *patch.Name
	existing, err := s.orgs.FindByName(ctx, newName, true)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking name: %w", err)
	}
	if existing != nil && existing.ID != id {
		return nil, ErrNameExists
	}

	newKey := PartitionKey(newName)
	if newKey == store.PartitionPrefix {
		return nil, ErrInvalidName
	}

	fields["name"] = newName
	if newKey == org.PartitionKey {
		// Same canonical key (case or punctuation change only): no migration.
		return s.applyFields(ctx, id, fields)
	}

	// A foreign partition under the new key would be merged into and then
	// dropped on rollback. Refuse instead.
	exists, err := s.partitions.Exists(ctx, newKey)
	if err != nil {
		return nil, fmt.Errorf("checking partition: %w", err)
	}
	if exists {
		return nil, ErrPartitionExists
	}

	oldKey := org.PartitionKey
	fields["partition_key"] = newKey

	var updated *models.Organization
	sg := saga{logger: s.logger}
	sg.add(step{
		name: "copy partition",
		run: func(ctx context.Context) error {
			n, err := s.partitions.CopyAll(ctx, oldKey, newKey)
			if err != nil {
				return err
			}
			s.logger.Debug("partition copied", "from", oldKey, "to", newKey, "records", n)
			return nil
		},
		compensate: func(ctx context.Context) error {
			return s.partitions.Drop(ctx, newKey)
		},
	})
	sg.add(step{
		name: "update metadata",
		run: func(ctx context.Context) error {
			u, err := s.orgs.Update(ctx, id, fields)
			if err != nil {
				return err
			}
			updated = u
			return nil
		},
	})

	if err := sg.run(ctx); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrNameExists
		}
		return nil, fmt.Errorf("migrating organization data: %w", err)
	}

	// From here the rename is committed. A drop failure leaves the old
	// partition orphaned, which the audit task detects by cross-checking
	// partition keys against the listing.
	if err := s.partitions.Drop(ctx, oldKey); err != nil {
		s.logger.Error("orphaned partition left behind after rename",
			"org_id", id,
			"partition", oldKey,
			"error", err,
		)
	}

	s.logger.Info("organization renamed",
		"org_id", id,
		"old_partition", oldKey,
		"new_partition", newKey,
	)
	return updated, nil
}

func (s *Service) applyFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Organization, error) {
	updated, err := s.orgs.Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, store.ErrConflict):
			return nil, ErrNameExists
		}
		return nil, err
	}
	return updated, nil
}

// Delete soft-deletes the metadata record, recording who deleted it, then
// drops the partition. The organization shell and its audit trail survive;
// the admin records die with the partition.
func (s *Service) Delete(ctx context.Context, id, requestingAdminID uuid.UUID) (*DeleteResult, error) {
	org, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if org.AdminID != requestingAdminID {
		return nil, ErrForbidden
	}

	deleted, err := s.orgs.SoftDelete(ctx, id, requestingAdminID)
	if err != nil {
		return nil, fmt.Errorf("deleting organization: %w", err)
	}
	if !deleted {
		// Lost a race with a concurrent delete.
		return nil, ErrNotFound
	}

	if err := s.partitions.Drop(ctx, org.PartitionKey); err != nil {
		// The soft delete stands; the orphaned partition is left for the
		// audit task. Never swallowed.
		s.logger.Error("partition drop failed during delete",
			"org_id", id,
			"partition", org.PartitionKey,
			"error", err,
		)
		return nil, fmt.Errorf("dropping partition: %w", err)
	}

	s.logger.Info("organization deleted",
		"org_id", id,
		"deleted_by", requestingAdminID,
		"partition", org.PartitionKey,
	)
	return &DeleteResult{
		OrganizationID: id,
		DeletedBy:      requestingAdminID,
		AuditRetained:  true,
	}, nil
}
