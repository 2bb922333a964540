package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reqline/reqline/internal/jobdesc"
	"github.com/reqline/reqline/internal/queue"
	"github.com/reqline/reqline/internal/requisition"
	"github.com/reqline/reqline/internal/tenant"
	"github.com/reqline/reqline/pkg/textextract"
)

type RequisitionHandler struct {
	svc       *requisition.Service
	generator *jobdesc.Generator
	jobs      *queue.Client
}

func NewRequisitionHandler(svc *requisition.Service, g *jobdesc.Generator, jobs *queue.Client) *RequisitionHandler {
	return &RequisitionHandler{svc: svc, generator: g, jobs: jobs}
}

func (h *RequisitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req requisition.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	rq, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rq)
}

func (h *RequisitionHandler) List(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.All(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"requisitions": reqs, "count": len(reqs)})
}

func (h *RequisitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := requisitionID(w, r)
	if !ok {
		return
	}

	detail, err := h.svc.GetDetail(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type updateDescriptionRequest struct {
	Description string `json:"description"`
}

func (h *RequisitionHandler) UpdateDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := requisitionID(w, r)
	if !ok {
		return
	}

	var req updateDescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description is required"})
		return
	}

	rq, err := h.svc.UpdateDescription(r.Context(), id, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rq)
}

// GenerateDescription runs the model synchronously and persists the first
// choice verbatim. With ?async=true the call is queued instead and the
// client polls the requisition for the result.
func (h *RequisitionHandler) GenerateDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := requisitionID(w, r)
	if !ok {
		return
	}

	c := tenant.FromContext(r.Context())
	if c == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user has no company"})
		return
	}

	if r.URL.Query().Get("async") == "true" {
		err := h.jobs.EnqueueDescriptionGenerate(queue.DescriptionGeneratePayload{
			RequisitionID: id.String(),
			CompanyID:     c.ID.String(),
			RequestedBy:   tenant.SubjectFromContext(r.Context()),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
		return
	}

	detail, err := h.svc.GetDetail(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	description, err := h.generator.Generate(r.Context(), c.Name, detail)
	if err != nil {
		writeError(w, err)
		return
	}

	rq, err := h.svc.UpdateDescription(r.Context(), id, description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rq)
}

// ImportDescription accepts a multipart PDF, DOCX or TXT upload and persists
// the extracted text as the description.
func (h *RequisitionHandler) ImportDescription(w http.ResponseWriter, r *http.Request) {
	id, ok := requisitionID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(16 << 20); err != nil { // 16MB max
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file required"})
		return
	}
	defer file.Close()

	fileType := filepath.Ext(header.Filename)
	if fileType == "" {
		fileType = header.Header.Get("Content-Type")
	}

	text, err := textextract.Extract(file, header.Size, fileType)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if strings.TrimSpace(text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no text found in document"})
		return
	}

	rq, err := h.svc.UpdateDescription(r.Context(), id, text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rq)
}

func (h *RequisitionHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id, ok := requisitionID(w, r)
	if !ok {
		return
	}

	topK, _ := strconv.Atoi(r.URL.Query().Get("top_k"))

	matches, err := h.svc.Similar(r.Context(), id, topK)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"matches": matches, "count": len(matches)})
}

func (h *RequisitionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requisitionID(w, r)
	if !ok {
		return
	}

	if err := h.svc.SoftDelete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requisitionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid requisition ID"})
		return uuid.Nil, false
	}
	return id, true
}
