package company

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reqline/reqline/internal/apperr"
	"github.com/reqline/reqline/internal/audit"
	"github.com/reqline/reqline/internal/cache"
	"github.com/reqline/reqline/internal/models"
	"github.com/reqline/reqline/internal/tenant"
)

const (
	configCacheTTL = 5 * time.Minute
	invitationTTL  = 7 * 24 * time.Hour
)

// Service owns the company lifecycle and the configuration reconciler.
type Service struct {
	db    *pgxpool.Pool
	cache *cache.Cache
	audit *audit.Service
}

func NewService(db *pgxpool.Pool, c *cache.Cache, a *audit.Service) *Service {
	return &Service{db: db, cache: c, audit: a}
}

func configCacheKey(companyID uuid.UUID) string {
	return "company:config:" + companyID.String()
}

// Get returns the caller's company, resolved through the user's tenant link
// first and the creator column as fallback (the creator may not have linked
// yet on a partially failed signup).
func (s *Service) Get(ctx context.Context) (*models.Company, error) {
	subject := tenant.SubjectFromContext(ctx)

	var c models.Company
	err := s.db.QueryRow(ctx,
		`SELECT c.id, c.name, c.logo, c.creator_id, c.created_at, c.updated_at
		 FROM companies c JOIN users u ON u.company_id = c.id
		 WHERE u.id = $1`,
		subject,
	).Scan(&c.ID, &c.Name, &c.Logo, &c.CreatorID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		err = s.db.QueryRow(ctx,
			`SELECT id, name, logo, creator_id, created_at, updated_at
			 FROM companies WHERE creator_id = $1`,
			subject,
		).Scan(&c.ID, &c.Name, &c.Logo, &c.CreatorID, &c.CreatedAt, &c.UpdatedAt)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("no company for user")
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

type CreateRequest struct {
	Name string `json:"name"`
}

// Create inserts the company, grants the creator an OWNER membership, seeds
// the six default configuration lists and links the creator's user row, all
// in one transaction.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 256 {
		return nil, apperr.Validation("company name must be 1-256 characters")
	}

	subject := tenant.SubjectFromContext(ctx)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// A valid token may belong to a subject that never called the user
	// upsert endpoint. The creator row has to exist before companies and
	// company_members reference it.
	_, err = tx.Exec(ctx,
		"INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING", subject,
	)
	if err != nil {
		return nil, apperr.FromPg("ensure creator user", err)
	}

	var c models.Company
	err = tx.QueryRow(ctx,
		`INSERT INTO companies (name, creator_id) VALUES ($1, $2)
		 RETURNING id, name, logo, creator_id, created_at, updated_at`,
		name, subject,
	).Scan(&c.ID, &c.Name, &c.Logo, &c.CreatorID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, apperr.FromPg("insert company", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO company_members (user_id, company_id, role) VALUES ($1, $2, $3)`,
		subject, c.ID, models.RoleOwner,
	)
	if err != nil {
		return nil, apperr.FromPg("insert owner membership", err)
	}

	for category, names := range defaultsByCategory {
		if err := insertConfigItems(ctx, tx, configTables[category], c.ID, names); err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(ctx,
		"UPDATE users SET company_id = $1 WHERE id = $2", c.ID, subject,
	)
	if err != nil {
		return nil, apperr.FromPg("link user to company", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.audit.Record(tenant.WithCompany(ctx, &c), audit.Entry{
		Action:       "company.create",
		ResourceType: "company",
		ResourceID:   &c.ID,
	})

	return &c, nil
}

type UpdateRequest struct {
	Name string  `json:"name"`
	Logo *string `json:"logo,omitempty"`
}

func (s *Service) Update(ctx context.Context, req UpdateRequest) (*models.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > 256 {
		return nil, apperr.Validation("company name must be 1-256 characters")
	}
	if req.Logo != nil {
		u, err := url.Parse(*req.Logo)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, apperr.Validation("logo must be an absolute URL")
		}
	}

	subject := tenant.SubjectFromContext(ctx)

	var c models.Company
	err := s.db.QueryRow(ctx,
		`UPDATE companies SET name = $1, logo = COALESCE($2, logo), updated_at = now()
		 WHERE creator_id = $3
		 RETURNING id, name, logo, creator_id, created_at, updated_at`,
		name, req.Logo, subject,
	).Scan(&c.ID, &c.Name, &c.Logo, &c.CreatorID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("no company for user")
	}
	if err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}

	if s.cache != nil {
		s.cache.Delete(ctx, configCacheKey(c.ID))
	}
	return &c, nil
}

// GetConfigurations returns the company together with its six active config
// lists. The result is cached per company until the next configuration write.
func (s *Service) GetConfigurations(ctx context.Context) (*models.CompanyConfiguration, error) {
	subject := tenant.SubjectFromContext(ctx)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	c, err := s.companyForSubject(ctx, tx, subject)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached models.CompanyConfiguration
		if hit, err := s.cache.Get(ctx, configCacheKey(c.ID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	cfg := &models.CompanyConfiguration{Company: *c}
	for category, dest := range map[models.ConfigCategory]*[]models.ConfigItem{
		models.CategoryLocations:      &cfg.Locations,
		models.CategoryReasons:        &cfg.RequisitionReasons,
		models.CategoryWorkerTypes:    &cfg.WorkerTypes,
		models.CategoryWorkerSubTypes: &cfg.WorkerSubTypes,
		models.CategoryOffices:        &cfg.Offices,
		models.CategoryJobLevels:      &cfg.JobLevels,
	} {
		items, err := loadActiveItems(ctx, tx, configTables[category], c.ID)
		if err != nil {
			return nil, err
		}
		*dest = items
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, configCacheKey(c.ID), cfg, configCacheTTL)
	}
	return cfg, nil
}

type ValueItem struct {
	Value string `json:"value"`
}

// UpdateConfigurationsRequest carries one optional desired list per category.
// A nil list leaves the category untouched; an empty list deactivates every
// active item in it.
type UpdateConfigurationsRequest struct {
	Locations          []ValueItem `json:"locations,omitempty"`
	RequisitionReasons []ValueItem `json:"requisition_reasons,omitempty"`
	WorkerTypes        []ValueItem `json:"worker_types,omitempty"`
	WorkerSubTypes     []ValueItem `json:"worker_sub_types,omitempty"`
	OfficeLocations    []ValueItem `json:"office_locations,omitempty"`
	JobLevels          []ValueItem `json:"job_levels,omitempty"`
}

// UpdateConfigurations reconciles every submitted category against its
// desired name list inside a single transaction. Failure in any category
// rolls back all of them.
func (s *Service) UpdateConfigurations(ctx context.Context, req UpdateConfigurationsRequest) error {
	subject := tenant.SubjectFromContext(ctx)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	c, err := s.companyForSubject(ctx, tx, subject)
	if err != nil {
		return err
	}

	submitted := []struct {
		category models.ConfigCategory
		desired  []ValueItem
	}{
		{models.CategoryLocations, req.Locations},
		{models.CategoryReasons, req.RequisitionReasons},
		{models.CategoryWorkerTypes, req.WorkerTypes},
		{models.CategoryWorkerSubTypes, req.WorkerSubTypes},
		{models.CategoryOffices, req.OfficeLocations},
		{models.CategoryJobLevels, req.JobLevels},
	}

	changed := map[string]interface{}{}
	for _, sub := range submitted {
		if sub.desired == nil {
			continue
		}
		diff, err := s.reconcileCategory(ctx, tx, configTables[sub.category], c.ID, sub.desired)
		if err != nil {
			return err
		}
		if len(diff.ToAdd) > 0 || len(diff.ToDeactivate) > 0 {
			changed[string(sub.category)] = map[string]int{
				"added":       len(diff.ToAdd),
				"deactivated": len(diff.ToDeactivate),
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if s.cache != nil {
		s.cache.Delete(ctx, configCacheKey(c.ID))
	}
	if len(changed) > 0 {
		s.audit.Record(tenant.WithCompany(ctx, c), audit.Entry{
			Action:       "company.configurations.update",
			ResourceType: "company",
			ResourceID:   &c.ID,
			Details:      changed,
		})
	}
	return nil
}

func (s *Service) reconcileCategory(ctx context.Context, tx pgx.Tx, table string, companyID uuid.UUID, desired []ValueItem) (Diff, error) {
	rows, err := tx.Query(ctx,
		fmt.Sprintf("SELECT id, name, is_active FROM %s WHERE company_id = $1", table),
		companyID,
	)
	if err != nil {
		return Diff{}, fmt.Errorf("load %s: %w", table, err)
	}

	var existing []ExistingItem
	for rows.Next() {
		var item ExistingItem
		if err := rows.Scan(&item.ID, &item.Name, &item.IsActive); err != nil {
			rows.Close()
			return Diff{}, fmt.Errorf("scan %s: %w", table, err)
		}
		existing = append(existing, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Diff{}, fmt.Errorf("iterate %s: %w", table, err)
	}

	names := make([]string, len(desired))
	for i, v := range desired {
		names[i] = v.Value
	}

	diff := Reconcile(existing, names)

	if err := insertConfigItems(ctx, tx, table, companyID, diff.ToAdd); err != nil {
		return Diff{}, err
	}

	if len(diff.ToDeactivate) > 0 {
		_, err = tx.Exec(ctx,
			fmt.Sprintf("UPDATE %s SET is_active = false, deleted_at = now() WHERE id = ANY($1)", table),
			diff.ToDeactivate,
		)
		if err != nil {
			return Diff{}, fmt.Errorf("deactivate %s: %w", table, err)
		}
	}

	return diff, nil
}

func (s *Service) companyForSubject(ctx context.Context, tx pgx.Tx, subject string) (*models.Company, error) {
	var companyID *uuid.UUID
	err := tx.QueryRow(ctx, "SELECT company_id FROM users WHERE id = $1", subject).Scan(&companyID)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && companyID == nil) {
		return nil, apperr.NotFound("user has no company")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	var c models.Company
	err = tx.QueryRow(ctx,
		"SELECT id, name, logo, creator_id, created_at, updated_at FROM companies WHERE id = $1",
		*companyID,
	).Scan(&c.ID, &c.Name, &c.Logo, &c.CreatorID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("company %s", companyID)
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

func insertConfigItems(ctx context.Context, tx pgx.Tx, table string, companyID uuid.UUID, names []string) error {
	for _, name := range names {
		_, err := tx.Exec(ctx,
			fmt.Sprintf("INSERT INTO %s (company_id, name) VALUES ($1, $2)", table),
			companyID, name,
		)
		if err != nil {
			return apperr.FromPg("insert into "+table, err)
		}
	}
	return nil
}

func loadActiveItems(ctx context.Context, tx pgx.Tx, table string, companyID uuid.UUID) ([]models.ConfigItem, error) {
	rows, err := tx.Query(ctx,
		fmt.Sprintf(`SELECT id, company_id, name, description, is_active, deleted_at, created_at
		 FROM %s WHERE company_id = $1 AND is_active ORDER BY created_at`, table),
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	var items []models.ConfigItem
	for rows.Next() {
		var it models.ConfigItem
		if err := rows.Scan(&it.ID, &it.CompanyID, &it.Name, &it.Description, &it.IsActive, &it.DeletedAt, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type InviteRequest struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

func (s *Service) CreateInvitation(ctx context.Context, req InviteRequest) (*models.Invitation, error) {
	if !strings.Contains(req.Email, "@") {
		return nil, apperr.Validation("invalid email address")
	}
	switch req.Role {
	case models.RoleAdmin, models.RoleApprover, models.RoleMember:
	case "":
		req.Role = models.RoleMember
	default:
		return nil, apperr.Validation("role %q cannot be granted by invitation", req.Role)
	}

	c := tenant.FromContext(ctx)
	if c == nil {
		return nil, apperr.NotFound("user has no company")
	}
	u := tenant.UserFromContext(ctx)
	if u == nil {
		return nil, apperr.NotFound("user not registered")
	}

	var inv models.Invitation
	err := s.db.QueryRow(ctx,
		`INSERT INTO invitations (email, company_id, invited_by_id, role, token, expires_at, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, email, company_id, invited_by_id, role, token, expires_at, status, created_at`,
		req.Email, c.ID, u.ID, req.Role, uuid.NewString(), time.Now().Add(invitationTTL), models.InvitationPending,
	).Scan(&inv.ID, &inv.Email, &inv.CompanyID, &inv.InvitedByID, &inv.Role, &inv.Token, &inv.ExpiresAt, &inv.Status, &inv.CreatedAt)
	if err != nil {
		return nil, apperr.FromPg("insert invitation", err)
	}

	s.audit.Record(ctx, audit.Entry{
		Action:       "invitation.create",
		ResourceType: "invitation",
		ResourceID:   &inv.ID,
		Details:      map[string]interface{}{"email": inv.Email, "role": inv.Role},
	})
	return &inv, nil
}

func (s *Service) ListInvitations(ctx context.Context) ([]models.Invitation, error) {
	c := tenant.FromContext(ctx)
	if c == nil {
		return nil, apperr.NotFound("user has no company")
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, email, company_id, invited_by_id, role, token, expires_at, status, created_at
		 FROM invitations WHERE company_id = $1 ORDER BY created_at DESC`,
		c.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	defer rows.Close()

	var invs []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(&inv.ID, &inv.Email, &inv.CompanyID, &inv.InvitedByID, &inv.Role, &inv.Token, &inv.ExpiresAt, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invitation: %w", err)
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

func (s *Service) RevokeInvitation(ctx context.Context, id uuid.UUID) error {
	c := tenant.FromContext(ctx)
	if c == nil {
		return apperr.NotFound("user has no company")
	}

	tag, err := s.db.Exec(ctx,
		"DELETE FROM invitations WHERE id = $1 AND company_id = $2 AND status = $3",
		id, c.ID, models.InvitationPending,
	)
	if err != nil {
		return fmt.Errorf("revoke invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("pending invitation %s", id)
	}
	return nil
}
