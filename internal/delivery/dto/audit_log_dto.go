package dto

import (
	"time"

	"clinic-scheduler/internal/domain/entity"
)

// Response DTOs

// AuditLogResponse lifts the audited entity out of the metadata; the full
// before/after snapshot stays in Metadata.
type AuditLogResponse struct {
	ID        int64         `json:"id"`
	User      *UserResponse `json:"user,omitempty"`
	Role      string        `json:"role,omitempty"`
	Action    string        `json:"action"`
	Entity    string        `json:"entity,omitempty"`
	EntityID  string        `json:"entity_id,omitempty"`
	Metadata  entity.JSON   `json:"metadata"`
	CreatedAt time.Time     `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
