package service

import (
	"context"

	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditEntry describes the record an audited mutation touched
type AuditEntry struct {
	Entity   string
	EntityID string
	OldValue any
	NewValue any
}

// AuditService writes audit entries inside the caller's transaction, so an entry
// exists exactly when the audited mutation committed.
type AuditService interface {
	Record(ctx context.Context, tx *gorm.DB, caller entity.CallerContext, action string, entry AuditEntry) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(ctx context.Context, tx *gorm.DB, caller entity.CallerContext, action string, entry AuditEntry) error {
	metadata := entity.JSON{
		"entity":    entry.Entity,
		"entity_id": entry.EntityID,
		"role":      string(caller.Role),
		"old_value": entry.OldValue,
		"new_value": entry.NewValue,
	}

	auditLog := &entity.AuditLog{
		Action:   action,
		Metadata: metadata,
	}
	if caller.ID != uuid.Nil {
		userID := caller.ID
		auditLog.UserID = &userID
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log %s for %s %s: %+v", action, entry.Entity, entry.EntityID, err)
		return err
	}

	return nil
}
