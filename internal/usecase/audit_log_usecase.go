package usecase

import (
	"context"

	"clinic-scheduler/internal/converter"
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrAuditLogNotFound = newError(ErrNotFound, "audit log not found")

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, caller entity.CallerContext, action string) (*dto.AuditLogListResponse, error)
	GetAuditLog(ctx context.Context, caller entity.CallerContext, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// GetAllAuditLogs lists the audit trail newest first, optionally for one action only
func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, caller entity.CallerContext, action string) (*dto.AuditLogListResponse, error) {
	if err := RequireRole(caller, entity.RoleAdmin); err != nil {
		return nil, err
	}

	logs, err := u.auditLogRepo.FindAll(ctx, u.db, action)
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *auditLogUsecase) GetAuditLog(ctx context.Context, caller entity.CallerContext, id int64) (*dto.AuditLogResponse, error) {
	if err := RequireRole(caller, entity.RoleAdmin); err != nil {
		return nil, err
	}

	auditLog, err := u.auditLogRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find audit log %d: %+v", id, err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
