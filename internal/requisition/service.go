package requisition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reqline/reqline/internal/apperr"
	"github.com/reqline/reqline/internal/audit"
	"github.com/reqline/reqline/internal/models"
	"github.com/reqline/reqline/internal/queue"
	"github.com/reqline/reqline/internal/tenant"
	"github.com/reqline/reqline/internal/vectorstore"
)

// numberRetries bounds how often a create is replayed when two transactions
// race for the same requisition number and the unique index rejects one.
const numberRetries = 3

// Enqueuer is the slice of the queue client the service needs.
type Enqueuer interface {
	EnqueueEmbeddingGenerate(payload queue.EmbeddingGeneratePayload) error
}

type Service struct {
	db      *pgxpool.Pool
	vectors vectorstore.Store
	jobs    Enqueuer
	audit   *audit.Service
}

func NewService(db *pgxpool.Pool, vectors vectorstore.Store, jobs Enqueuer, a *audit.Service) *Service {
	return &Service{db: db, vectors: vectors, jobs: jobs, audit: a}
}

type CreateRequest struct {
	Title      string    `json:"title"`
	LevelID    uuid.UUID `json:"level_id"`
	TypeID     uuid.UUID `json:"type_id"`
	SubTypeID  uuid.UUID `json:"sub_type_id"`
	ReasonID   uuid.UUID `json:"reason_id"`
	LocationID uuid.UUID `json:"location_id"`
	OfficeID   uuid.UUID `json:"office_id"`
}

func (r CreateRequest) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return apperr.Validation("title is required")
	}
	for field, id := range map[string]uuid.UUID{
		"level_id":    r.LevelID,
		"type_id":     r.TypeID,
		"sub_type_id": r.SubTypeID,
		"reason_id":   r.ReasonID,
		"location_id": r.LocationID,
		"office_id":   r.OfficeID,
	} {
		if id == uuid.Nil {
			return apperr.Validation("%s is required", field)
		}
	}
	return nil
}

// Create allocates the next requisition number and inserts the row in one
// transaction. Status starts at DRAFT, version at 1, change history empty.
// A lost number race surfaces as a unique violation and replays the whole
// transaction.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Requisition, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	u := tenant.UserFromContext(ctx)
	if u == nil || u.CompanyID == nil {
		return nil, apperr.NotFound("user has no company")
	}
	companyID := *u.CompanyID

	var created *models.Requisition
	var err error
	for attempt := 0; attempt < numberRetries; attempt++ {
		created, err = s.tryCreate(ctx, companyID, u.ID, req)
		if err == nil {
			break
		}
		if !apperr.IsUniqueViolation(err) {
			return nil, apperr.FromPg("insert requisition", err)
		}
		slog.Debug("requisition number collision, retrying", "attempt", attempt+1)
	}
	if err != nil {
		return nil, apperr.FromPg("insert requisition", err)
	}

	s.audit.Record(ctx, audit.Entry{
		Action:       "requisition.create",
		ResourceType: "requisition",
		ResourceID:   &created.ID,
		Details:      map[string]interface{}{"number": created.RequisitionNumber},
	})

	if s.jobs != nil {
		if err := s.jobs.EnqueueEmbeddingGenerate(queue.EmbeddingGeneratePayload{
			RequisitionID: created.ID.String(),
			CompanyID:     companyID.String(),
		}); err != nil {
			slog.Warn("enqueue embedding failed", "requisition", created.ID, "error", err)
		}
	}

	return created, nil
}

func (s *Service) tryCreate(ctx context.Context, companyID uuid.UUID, userID string, req CreateRequest) (*models.Requisition, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Soft-deleted requisitions keep their number, so the scan deliberately
	// includes them. The cast keeps MAX numeric; a lexicographic max would
	// stall at "99999" once six-digit numbers exist.
	var currentMax *string
	err = tx.QueryRow(ctx,
		"SELECT MAX(requisition_number::bigint)::text FROM requisitions WHERE company_id = $1",
		companyID,
	).Scan(&currentMax)
	if err != nil {
		return nil, fmt.Errorf("read max requisition number: %w", err)
	}

	number := NextNumber(deref(currentMax))

	var r models.Requisition
	err = tx.QueryRow(ctx,
		`INSERT INTO requisitions
		   (company_id, user_id, requisition_number, title, level_id, type_id, sub_type_id, reason_id, location_id, office_id, status, version, change_history)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1, '[]')
		 RETURNING id, company_id, user_id, requisition_number, title, level_id, type_id, sub_type_id, reason_id, location_id, office_id,
		           description, status, version, change_history, deleted_at, created_at, updated_at`,
		companyID, userID, number, strings.TrimSpace(req.Title),
		req.LevelID, req.TypeID, req.SubTypeID, req.ReasonID, req.LocationID, req.OfficeID,
		models.StatusDraft,
	).Scan(scanTargets(&r)...)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &r, nil
}

// All returns the caller's requisitions, newest first, soft-deleted rows
// excluded.
func (s *Service) All(ctx context.Context) ([]models.Requisition, error) {
	u := tenant.UserFromContext(ctx)
	if u == nil {
		return nil, apperr.NotFound("user not registered")
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, company_id, user_id, requisition_number, title, level_id, type_id, sub_type_id, reason_id, location_id, office_id,
		        description, status, version, change_history, deleted_at, created_at, updated_at
		 FROM requisitions
		 WHERE user_id = $1 AND deleted_at IS NULL
		 ORDER BY created_at DESC`,
		u.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}
	defer rows.Close()

	var reqs []models.Requisition
	for rows.Next() {
		var r models.Requisition
		if err := rows.Scan(scanTargets(&r)...); err != nil {
			return nil, fmt.Errorf("scan requisition: %w", err)
		}
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Requisition, error) {
	companyID := tenant.IDFromContext(ctx)

	var r models.Requisition
	err := s.db.QueryRow(ctx,
		`SELECT id, company_id, user_id, requisition_number, title, level_id, type_id, sub_type_id, reason_id, location_id, office_id,
		        description, status, version, change_history, deleted_at, created_at, updated_at
		 FROM requisitions
		 WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`,
		id, companyID,
	).Scan(scanTargets(&r)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("requisition %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get requisition: %w", err)
	}
	return &r, nil
}

// GetDetail joins in the config-item names the requisition references,
// feeding the description prompt and the embedding text.
func (s *Service) GetDetail(ctx context.Context, id uuid.UUID) (*models.RequisitionDetail, error) {
	companyID := tenant.IDFromContext(ctx)
	return s.detail(ctx, id, companyID)
}

// DetailForCompany is GetDetail for callers outside a request context, such
// as background workers that only hold ids.
func (s *Service) DetailForCompany(ctx context.Context, id, companyID uuid.UUID) (*models.RequisitionDetail, error) {
	return s.detail(ctx, id, companyID)
}

func (s *Service) detail(ctx context.Context, id, companyID uuid.UUID) (*models.RequisitionDetail, error) {
	var d models.RequisitionDetail
	targets := scanTargets(&d.Requisition)
	targets = append(targets, &d.Level, &d.Type, &d.SubType, &d.Reason, &d.Location, &d.Office)

	err := s.db.QueryRow(ctx,
		`SELECT r.id, r.company_id, r.user_id, r.requisition_number, r.title, r.level_id, r.type_id, r.sub_type_id, r.reason_id, r.location_id, r.office_id,
		        r.description, r.status, r.version, r.change_history, r.deleted_at, r.created_at, r.updated_at,
		        jl.name, wt.name, wst.name, rr.name, loc.name, o.name
		 FROM requisitions r
		 JOIN company_job_levels jl ON jl.id = r.level_id
		 JOIN company_worker_types wt ON wt.id = r.type_id
		 JOIN company_worker_sub_types wst ON wst.id = r.sub_type_id
		 JOIN company_requisition_reasons rr ON rr.id = r.reason_id
		 JOIN company_locations loc ON loc.id = r.location_id
		 JOIN company_offices o ON o.id = r.office_id
		 WHERE r.id = $1 AND r.company_id = $2 AND r.deleted_at IS NULL`,
		id, companyID,
	).Scan(targets...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("requisition %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get requisition detail: %w", err)
	}
	return &d, nil
}

// UpdateDescription persists a new description, bumps the version and
// appends a change-history entry, atomically.
func (s *Service) UpdateDescription(ctx context.Context, id uuid.UUID, description string) (*models.Requisition, error) {
	companyID := tenant.IDFromContext(ctx)
	if companyID == uuid.Nil {
		return nil, apperr.NotFound("user has no company")
	}

	changedBy := ""
	if u := tenant.UserFromContext(ctx); u != nil {
		changedBy = u.ID
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the row so the version read here matches the bump below, and so
	// the history entry can carry the post-bump version.
	var version int
	err = tx.QueryRow(ctx,
		"SELECT version FROM requisitions WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL FOR UPDATE",
		id, companyID,
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("requisition %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("lock requisition: %w", err)
	}

	entry, _ := json.Marshal(descriptionChange(changedBy, version+1))

	var r models.Requisition
	err = tx.QueryRow(ctx,
		`UPDATE requisitions
		 SET description = $1,
		     version = $2,
		     change_history = change_history || $3::jsonb,
		     updated_at = now()
		 WHERE id = $4 AND company_id = $5
		 RETURNING id, company_id, user_id, requisition_number, title, level_id, type_id, sub_type_id, reason_id, location_id, office_id,
		           description, status, version, change_history, deleted_at, created_at, updated_at`,
		description, version+1, entry, id, companyID,
	).Scan(scanTargets(&r)...)
	if err != nil {
		return nil, fmt.Errorf("update description: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		Action:       "requisition.description.update",
		ResourceType: "requisition",
		ResourceID:   &r.ID,
		Details:      map[string]interface{}{"version": r.Version},
	})

	// The description feeds the embedding text, so refresh the vector.
	if s.jobs != nil {
		if err := s.jobs.EnqueueEmbeddingGenerate(queue.EmbeddingGeneratePayload{
			RequisitionID: r.ID.String(),
			CompanyID:     companyID.String(),
		}); err != nil {
			slog.Warn("enqueue embedding failed", "requisition", r.ID, "error", err)
		}
	}
	return &r, nil
}

// descriptionChange is the history entry appended when a description is
// written. version is the row's version after the bump, so history entries
// line up with the versions they produced.
func descriptionChange(changedBy string, version int) []models.ChangeEntry {
	return []models.ChangeEntry{{
		Version:   version,
		Field:     "description",
		ChangedBy: changedBy,
		ChangedAt: time.Now().UTC(),
	}}
}

// SoftDelete hides the requisition without releasing its number.
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	companyID := tenant.IDFromContext(ctx)

	tag, err := s.db.Exec(ctx,
		"UPDATE requisitions SET deleted_at = now() WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL",
		id, companyID,
	)
	if err != nil {
		return fmt.Errorf("soft delete requisition: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("requisition %s", id)
	}

	// Drop the embedding so the row stops surfacing in similarity results
	// immediately. Failure here is not fatal; the search join also filters
	// on deleted_at.
	if err := s.vectors.Delete(ctx, id); err != nil {
		slog.Warn("delete requisition embedding", "requisition_id", id, "error", err)
	}

	s.audit.Record(ctx, audit.Entry{
		Action:       "requisition.delete",
		ResourceType: "requisition",
		ResourceID:   &id,
	})
	return nil
}

// Similar returns the closest other requisitions by stored embedding.
func (s *Service) Similar(ctx context.Context, id uuid.UUID, topK int) ([]vectorstore.Match, error) {
	companyID := tenant.IDFromContext(ctx)
	if companyID == uuid.Nil {
		return nil, apperr.NotFound("user has no company")
	}
	// Confirms existence and tenant ownership before touching the index.
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.vectors.Similar(ctx, companyID, id, topK)
}

func scanTargets(r *models.Requisition) []interface{} {
	return []interface{}{
		&r.ID, &r.CompanyID, &r.UserID, &r.RequisitionNumber, &r.Title,
		&r.LevelID, &r.TypeID, &r.SubTypeID, &r.ReasonID, &r.LocationID, &r.OfficeID,
		&r.Description, &r.Status, &r.Version, &r.ChangeHistory, &r.DeletedAt, &r.CreatedAt, &r.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
