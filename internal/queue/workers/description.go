package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/reqline/reqline/internal/jobdesc"
	"github.com/reqline/reqline/internal/models"
	"github.com/reqline/reqline/internal/queue"
	"github.com/reqline/reqline/internal/requisition"
	"github.com/reqline/reqline/internal/tenant"
)

// DescriptionWorker runs the LLM description generation off the request
// path for callers that enqueue instead of waiting.
type DescriptionWorker struct {
	reqs      *requisition.Service
	tenants   *tenant.Service
	generator *jobdesc.Generator
}

func NewDescriptionWorker(reqs *requisition.Service, tenants *tenant.Service, gen *jobdesc.Generator) *DescriptionWorker {
	return &DescriptionWorker{reqs: reqs, tenants: tenants, generator: gen}
}

func (w *DescriptionWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.DescriptionGeneratePayload
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

	company, err := w.tenants.GetCompany(ctx, companyID)
	if err != nil {
		return err
	}

	// Rebuild the tenant context the HTTP middleware would have provided.
	ctx = tenant.WithCompany(ctx, company)
	if payload.RequestedBy != "" {
		ctx = tenant.WithUser(ctx, &models.User{ID: payload.RequestedBy, CompanyID: &companyID})
	}

	detail, err := w.reqs.DetailForCompany(ctx, reqID, companyID)
	if err != nil {
		return fmt.Errorf("load requisition: %w", err)
	}

	text, err := w.generator.Generate(ctx, company.Name, detail)
	if err != nil {
		return err
	}

	if _, err := w.reqs.UpdateDescription(ctx, reqID, text); err != nil {
		return err
	}

	slog.Info("description generated", "requisition", reqID)
	return nil
}
