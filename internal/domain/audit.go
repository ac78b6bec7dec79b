package domain

import "time"

// BackupAuditRecord is an append-only log entry for backup related actions.
type BackupAuditRecord struct {
	ID        int64       `json:"id,omitempty"`
	Action    AuditAction `json:"action"`
	Details   string      `json:"details"`
	Timestamp time.Time   `json:"timestamp"`
}
