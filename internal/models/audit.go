package models

import "time"

// Audit actions recorded by the portal.
const (
	AuditActionConfigUpdate  = "CONFIG_UPDATE"
	AuditActionLetterUpload  = "LETTER_UPLOAD"
	AuditActionReportApprove = "REPORT_APPROVE"
)

// AuditLog is an append-only record of administrative changes.
type AuditLog struct {
	ID        string    `db:"id" json:"id"`
	ActorID   string    `db:"actor_id" json:"actor_id"`
	Action    string    `db:"action" json:"action"`
	Entity    string    `db:"entity" json:"entity"`
	EntityID  string    `db:"entity_id" json:"entity_id"`
	OldValue  *string   `db:"old_value" json:"old_value,omitempty"`
	NewValue  *string   `db:"new_value" json:"new_value,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
