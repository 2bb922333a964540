package handlers

import (
	"net/http"

	"github.com/reqline/reqline/internal/tenant"
)

type UserHandler struct {
	tenants *tenant.Service
}

func NewUserHandler(ts *tenant.Service) *UserHandler {
	return &UserHandler{tenants: ts}
}

// Me returns the caller's local user record. A valid token whose subject has
// never registered gets a 404, which tells the client to POST /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	subject := tenant.SubjectFromContext(r.Context())
	if subject == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing subject"})
		return
	}

	user, err := h.tenants.GetUser(r.Context(), subject)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not registered"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"company": tenant.FromContext(r.Context()),
	})
}

// Register upserts the local user row for the token subject. Safe to call on
// every login.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	subject := tenant.SubjectFromContext(r.Context())
	if subject == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing subject"})
		return
	}

	user, err := h.tenants.EnsureUser(r.Context(), subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
