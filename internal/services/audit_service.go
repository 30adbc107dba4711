package services

import (
	"context"

	"whimsicalfrog/internal/models"
	"whimsicalfrog/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditService records admin back-office mutations. Recording is
// best-effort: a failed write is logged, never surfaced, so the audit trail
// can't break the operation it describes.
type AuditService interface {
	Record(ctx context.Context, userID *uuid.UUID, action, entityType, entityID string, detail models.JSONB)
	List(ctx context.Context, filters *models.AdminActivityFilters) ([]*models.AdminActivityLog, error)
}

type auditService struct {
	repo repositories.AuditLogsRepository
}

func NewAuditService(repo repositories.AuditLogsRepository) AuditService {
	return &auditService{repo: repo}
}

func (a *auditService) Record(ctx context.Context, userID *uuid.UUID, action, entityType, entityID string, detail models.JSONB) {
	entry := &models.AdminActivityLog{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"action": action, "entity_type": entityType, "entity_id": entityID,
		}).Error("failed to record admin activity")
	}
}

func (a *auditService) List(ctx context.Context, filters *models.AdminActivityFilters) ([]*models.AdminActivityLog, error) {
	return a.repo.List(ctx, filters)
}
