// Package audit records tenant-scoped mutation trails for configuration and
// requisition changes. Failures to write a trail entry never fail the
// mutating request; they are logged and dropped.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/reqline/reqline/internal/models"
	"github.com/reqline/reqline/internal/tenant"
)

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

type Entry struct {
	Action       string
	ResourceType string
	ResourceID   *uuid.UUID
	Details      map[string]interface{}
}

func (s *Service) Record(ctx context.Context, entry Entry) {
	companyID := tenant.IDFromContext(ctx)

	var userID *string
	if u := tenant.UserFromContext(ctx); u != nil {
		userID = &u.ID
	}

	details, _ := json.Marshal(entry.Details)

	_, err := s.db.Exec(ctx,
		`INSERT INTO audit_logs (company_id, user_id, action, resource_type, resource_id, details)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		companyID, userID, entry.Action, entry.ResourceType, entry.ResourceID, details,
	)
	if err != nil {
		slog.Warn("audit write failed", "action", entry.Action, "error", err)
	}
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]models.AuditLog, error) {
	companyID := tenant.IDFromContext(ctx)
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, company_id, user_id, action, resource_type, resource_id, details, created_at
		 FROM audit_logs WHERE company_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		companyID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.UserID, &l.Action, &l.ResourceType, &l.ResourceID, &l.Details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}
