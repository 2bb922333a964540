package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/reqline/reqline/internal/company"
)

type CompanyHandler struct {
	svc *company.Service
}

func NewCompanyHandler(svc *company.Service) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req company.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	c, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req company.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	c, err := h.svc.Update(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CompanyHandler) GetConfigurations(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.svc.GetConfigurations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *CompanyHandler) UpdateConfigurations(w http.ResponseWriter, r *http.Request) {
	var req company.UpdateConfigurationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.svc.UpdateConfigurations(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CompanyHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	var req company.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	inv, err := h.svc.CreateInvitation(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (h *CompanyHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	invs, err := h.svc.ListInvitations(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"invitations": invs, "count": len(invs)})
}

func (h *CompanyHandler) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid invitation ID"})
		return
	}

	if err := h.svc.RevokeInvitation(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
