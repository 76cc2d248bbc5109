package tasks

import "github.com/hibiken/asynq"

// Task type names
const (
	TypePartitionAudit = "partition:audit"
)

// NewPartitionAuditTask builds the audit task. It carries no payload: every
// audit cross-checks all organizations against the partition listing.
func NewPartitionAuditTask() *asynq.Task {
	return asynq.NewTask(TypePartitionAudit, nil)
}
