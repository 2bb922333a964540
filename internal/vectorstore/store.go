package vectorstore

import (
	"context"

	"github.com/google/uuid"
)

// Match is one similar requisition returned by a search, with cosine score
// in [0, 1].
type Match struct {
	RequisitionID     uuid.UUID `json:"requisition_id"`
	RequisitionNumber string    `json:"requisition_number"`
	Title             string    `json:"title"`
	Score             float64   `json:"score"`
}

// Store persists one embedding per requisition and answers similarity
// queries scoped to a company.
type Store interface {
	Upsert(ctx context.Context, companyID, requisitionID uuid.UUID, embedding []float32) error
	Similar(ctx context.Context, companyID, requisitionID uuid.UUID, topK int) ([]Match, error)
	Delete(ctx context.Context, requisitionID uuid.UUID) error
}
