package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/reqline/reqline/internal/apperr"
	"github.com/reqline/reqline/internal/models"
)

// Service resolves identity-provider subjects to local users and companies.
type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var c models.Company
	err := s.db.QueryRow(ctx,
		"SELECT id, name, logo, creator_id, created_at, updated_at FROM companies WHERE id = $1", id,
	).Scan(&c.ID, &c.Name, &c.Logo, &c.CreatorID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("company %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// GetUser returns the local user row for an identity-provider subject, or nil
// when the subject has not been seen yet.
func (s *Service) GetUser(ctx context.Context, subject string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(ctx,
		"SELECT id, company_id, created_at FROM users WHERE id = $1", subject,
	).Scan(&u.ID, &u.CompanyID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// EnsureUser creates the local user row for a subject if it does not exist
// yet. Safe to call on every login.
func (s *Service) EnsureUser(ctx context.Context, subject string) (*models.User, error) {
	_, err := s.db.Exec(ctx,
		"INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING", subject,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	return s.GetUser(ctx, subject)
}
