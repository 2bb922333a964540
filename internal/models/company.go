package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant root. Every configuration list and requisition hangs
// off one company.
type Company struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Logo      *string    `json:"logo,omitempty" db:"logo"`
	CreatorID string     `json:"creator_id" db:"creator_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleAdmin    Role = "ADMIN"
	RoleApprover Role = "APPROVER"
	RoleMember   Role = "MEMBER"
)

type CompanyMember struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	CompanyID uuid.UUID `json:"company_id" db:"company_id"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationRejected InvitationStatus = "REJECTED"
	InvitationExpired  InvitationStatus = "EXPIRED"
)

type Invitation struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	Email       string           `json:"email" db:"email"`
	CompanyID   uuid.UUID        `json:"company_id" db:"company_id"`
	InvitedByID string           `json:"invited_by_id" db:"invited_by_id"`
	Role        Role             `json:"role" db:"role"`
	Token       string           `json:"-" db:"token"`
	ExpiresAt   time.Time        `json:"expires_at" db:"expires_at"`
	Status      InvitationStatus `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

// ConfigItem is one named, soft-deletable lookup value (location, worker
// type, sub-type, reason, office, job level). All six categories share this
// shape; the category determines the table.
type ConfigItem struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	CompanyID   uuid.UUID  `json:"company_id" db:"company_id"`
	Name        string     `json:"name" db:"name"`
	Description *string    `json:"description,omitempty" db:"description"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// ConfigCategory identifies one of the six reconcilable lookup lists.
type ConfigCategory string

const (
	CategoryLocations      ConfigCategory = "locations"
	CategoryWorkerTypes    ConfigCategory = "worker_types"
	CategoryWorkerSubTypes ConfigCategory = "worker_sub_types"
	CategoryReasons        ConfigCategory = "requisition_reasons"
	CategoryOffices        ConfigCategory = "offices"
	CategoryJobLevels      ConfigCategory = "job_levels"
)

// CompanyConfiguration is the company joined with its active config lists,
// the shape returned by GET /company/configurations.
type CompanyConfiguration struct {
	Company
	Locations          []ConfigItem `json:"locations"`
	RequisitionReasons []ConfigItem `json:"requisition_reasons"`
	WorkerTypes        []ConfigItem `json:"worker_types"`
	WorkerSubTypes     []ConfigItem `json:"worker_sub_types"`
	Offices            []ConfigItem `json:"offices"`
	JobLevels          []ConfigItem `json:"job_levels"`
}
