package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type RequisitionStatus string

const (
	StatusDraft     RequisitionStatus = "DRAFT"
	StatusApproved  RequisitionStatus = "APPROVED"
	StatusPublished RequisitionStatus = "PUBLISHED"
	StatusClosed    RequisitionStatus = "CLOSED"
)

// Requisition is a single hiring request. RequisitionNumber is a zero-padded
// five-digit string, unique and monotonically increasing per company; it is
// never reused even after soft deletion.
type Requisition struct {
	ID                uuid.UUID         `json:"id" db:"id"`
	CompanyID         uuid.UUID         `json:"company_id" db:"company_id"`
	UserID            string            `json:"user_id" db:"user_id"`
	RequisitionNumber string            `json:"requisition_number" db:"requisition_number"`
	Title             string            `json:"title" db:"title"`
	LevelID           uuid.UUID         `json:"level_id" db:"level_id"`
	TypeID            uuid.UUID         `json:"type_id" db:"type_id"`
	SubTypeID         uuid.UUID         `json:"sub_type_id" db:"sub_type_id"`
	ReasonID          uuid.UUID         `json:"reason_id" db:"reason_id"`
	LocationID        uuid.UUID         `json:"location_id" db:"location_id"`
	OfficeID          uuid.UUID         `json:"office_id" db:"office_id"`
	Description       *string           `json:"description,omitempty" db:"description"`
	Status            RequisitionStatus `json:"status" db:"status"`
	Version           int               `json:"version" db:"version"`
	ChangeHistory     json.RawMessage   `json:"change_history" db:"change_history"`
	DeletedAt         *time.Time        `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt         time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt         *time.Time        `json:"updated_at,omitempty" db:"updated_at"`
}

// ChangeEntry is one element of a requisition's change_history array.
type ChangeEntry struct {
	Version   int       `json:"version"`
	Field     string    `json:"field"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}

// RequisitionDetail denormalizes the config-item names a requisition points
// at, for prompt building and read views.
type RequisitionDetail struct {
	Requisition
	Level    string `json:"level"`
	Type     string `json:"type"`
	SubType  string `json:"sub_type"`
	Reason   string `json:"reason"`
	Location string `json:"location"`
	Office   string `json:"office"`
}
