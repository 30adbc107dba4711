package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"whimsicalfrog/internal/models"

	"github.com/google/uuid"
)

type AuditLogsRepository interface {
	Create(ctx context.Context, entry *models.AdminActivityLog) error
	List(ctx context.Context, filters *models.AdminActivityFilters) ([]*models.AdminActivityLog, error)
}

type auditLogsRepo struct {
	db DB
}

func NewAuditLogsRepo(db DB) AuditLogsRepository {
	return &auditLogsRepo{db: db}
}

func (r *auditLogsRepo) Create(ctx context.Context, entry *models.AdminActivityLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now()

	var detailBytes []byte
	if entry.Detail != nil {
		b, err := json.Marshal(entry.Detail)
		if err != nil {
			return fmt.Errorf("failed to marshal detail: %w", err)
		}
		detailBytes = b
	}

	query := `
		INSERT INTO admin_activity_logs (id, user_id, action, entity_type, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.UserID, entry.Action,
		entry.EntityType, entry.EntityID, detailBytes, entry.CreatedAt)
	return err
}

func (r *auditLogsRepo) List(ctx context.Context, filters *models.AdminActivityFilters) ([]*models.AdminActivityLog, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	queryBase := `
		SELECT id, user_id, action, entity_type, entity_id, detail, created_at
		FROM admin_activity_logs
		WHERE 1=1
	`
	args := []any{}
	conditionCount := 0

	if filters.UserID != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND user_id = $%d`, conditionCount)
		args = append(args, *filters.UserID)
	}
	if filters.Action != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND action = $%d`, conditionCount)
		args = append(args, *filters.Action)
	}
	if filters.EntityType != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND entity_type = $%d`, conditionCount)
		args = append(args, *filters.EntityType)
	}
	if filters.StartDate != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND created_at >= $%d`, conditionCount)
		args = append(args, *filters.StartDate)
	}
	if filters.EndDate != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND created_at <= $%d`, conditionCount)
		args = append(args, *filters.EndDate)
	}

	queryBase += ` ORDER BY created_at DESC`
	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filters.Limit)
	if filters.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filters.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.AdminActivityLog
	for rows.Next() {
		entry := &models.AdminActivityLog{}
		var detailBytes []byte
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Action, &entry.EntityType,
			&entry.EntityID, &detailBytes, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if len(detailBytes) > 0 {
			if err := json.Unmarshal(detailBytes, &entry.Detail); err != nil {
				return nil, fmt.Errorf("failed to unmarshal detail: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
