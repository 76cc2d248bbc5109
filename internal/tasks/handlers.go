package tasks

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/hugh/orghub/internal/store"
	"gorm.io/gorm"
)

type Handler struct {
	db         *gorm.DB
	logger     *slog.Logger
	orgs       *store.OrganizationStore
	partitions *store.PartitionStore
}

func NewHandler(db *gorm.DB, logger *slog.Logger) *Handler {
	return &Handler{
		db:         db,
		logger:     logger,
		orgs:       store.NewOrganizationStore(db),
		partitions: store.NewPartitionStore(db),
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypePartitionAudit, h.HandlePartitionAudit)
}

// HandlePartitionAudit runs the out-of-band consistency audit. Creation and
// rename are not atomic across the metadata table and the partition tables,
// so a crash or a failed compensation can strand partitions; this is where
// that state becomes visible.
func (h *Handler) HandlePartitionAudit(ctx context.Context, t *asynq.Task) error {
	orphaned, missing, err := h.AuditPartitions(ctx)
	if err != nil {
		h.logger.Error("partition audit failed", "error", err)
		return err
	}

	for _, key := range orphaned {
		h.logger.Warn("orphaned partition: no active organization references it",
			"partition", key,
		)
	}
	for _, key := range missing {
		h.logger.Error("missing partition: active organization has no partition table",
			"partition", key,
		)
	}

	h.logger.Info("partition audit completed",
		"orphaned", len(orphaned),
		"missing", len(missing),
	)
	return nil
}

// AuditPartitions cross-checks the partition_key of every active organization
// against the partition listing. It returns partitions no active organization
// references (orphaned) and active organizations whose partition is gone
// (missing, reported by key).
func (h *Handler) AuditPartitions(ctx context.Context) (orphaned, missing []string, err error) {
	listed, err := h.partitions.List(ctx)
	if err != nil {
		return nil, nil, err
	}

	referenced := make(map[string]bool)
	skip := 0
	const page = 500
	for {
		orgs, err := h.orgs.List(ctx, skip, page, false)
		if err != nil {
			return nil, nil, err
		}
		for _, org := range orgs {
			referenced[org.PartitionKey] = true
		}
		if len(orgs) < page {
			break
		}
		skip += page
	}

	present := make(map[string]bool, len(listed))
	for _, key := range listed {
		present[key] = true
		if !referenced[key] {
			orphaned = append(orphaned, key)
		}
	}
	for key := range referenced {
		if !present[key] {
			missing = append(missing, key)
		}
	}
	return orphaned, missing, nil
}
