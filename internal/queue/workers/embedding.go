package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/reqline/reqline/internal/embedding"
	"github.com/reqline/reqline/internal/jobdesc"
	"github.com/reqline/reqline/internal/queue"
	"github.com/reqline/reqline/internal/requisition"
	"github.com/reqline/reqline/internal/vectorstore"
)

// EmbeddingWorker refreshes the similarity vector of a requisition after it
// is created or its description changes.
type EmbeddingWorker struct {
	reqs    *requisition.Service
	embed   *embedding.Service
	vectors vectorstore.Store
}

func NewEmbeddingWorker(reqs *requisition.Service, embed *embedding.Service, vectors vectorstore.Store) *EmbeddingWorker {
	return &EmbeddingWorker{reqs: reqs, embed: embed, vectors: vectors}
}

func (w *EmbeddingWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.EmbeddingGeneratePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	reqID, err := uuid.Parse(payload.RequisitionID)
	if err != nil {
		return fmt.Errorf("invalid requisition id: %w", err)
	}
	companyID, err := uuid.Parse(payload.CompanyID)
	if err != nil {
		return fmt.Errorf("invalid company id: %w", err)
	}

	detail, err := w.reqs.DetailForCompany(ctx, reqID, companyID)
	if err != nil {
		return fmt.Errorf("load requisition: %w", err)
	}

	vec, err := w.embed.EmbedText(ctx, jobdesc.EmbeddingText(detail))
	if err != nil {
		return err
	}

	if err := w.vectors.Upsert(ctx, companyID, reqID, vec); err != nil {
		return err
	}

	slog.Info("requisition embedded", "requisition", reqID, "dims", len(vec))
	return nil
}
