package vectorstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type PgVectorStore struct {
	db *pgxpool.Pool
}

func NewPgVectorStore(db *pgxpool.Pool) *PgVectorStore {
	return &PgVectorStore{db: db}
}

func (s *PgVectorStore) Upsert(ctx context.Context, companyID, requisitionID uuid.UUID, embedding []float32) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO requisition_embeddings (requisition_id, company_id, embedding, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (requisition_id) DO UPDATE SET embedding = $3, updated_at = now()`,
		requisitionID, companyID, pgvector.NewVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("upsert embedding for %s: %w", requisitionID, err)
	}
	return nil
}

// Similar ranks the company's other requisitions by cosine distance to the
// stored embedding of requisitionID. Soft-deleted requisitions are skipped.
// Returns nothing when the source embedding has not been generated yet.
func (s *PgVectorStore) Similar(ctx context.Context, companyID, requisitionID uuid.UUID, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 5
	}

	rows, err := s.db.Query(ctx,
		`SELECT r.id, r.requisition_number, r.title,
		        1 - (e.embedding <=> q.embedding) AS score
		 FROM requisition_embeddings q
		 JOIN requisition_embeddings e
		   ON e.company_id = q.company_id AND e.requisition_id <> q.requisition_id
		 JOIN requisitions r
		   ON r.id = e.requisition_id AND r.deleted_at IS NULL
		 WHERE q.requisition_id = $1 AND q.company_id = $2
		 ORDER BY e.embedding <=> q.embedding
		 LIMIT $3`,
		requisitionID, companyID, topK,
	)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.RequisitionID, &m.RequisitionNumber, &m.Title, &m.Score); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *PgVectorStore) Delete(ctx context.Context, requisitionID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		"DELETE FROM requisition_embeddings WHERE requisition_id = $1", requisitionID,
	)
	if err != nil {
		return fmt.Errorf("delete embedding for %s: %w", requisitionID, err)
	}
	return nil
}
