package models

import (
	"time"

	"github.com/google/uuid"
)

// User links an external identity-provider subject to a tenant. Identity
// itself (email, password, sessions) lives with the provider; the local row
// only carries the association.
type User struct {
	ID        string     `json:"id" db:"id"`
	CompanyID *uuid.UUID `json:"company_id,omitempty" db:"company_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
