package auth

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reqline/reqline/internal/models"
	"github.com/reqline/reqline/internal/tenant"
)

// RBAC gates mutating company endpoints on the caller's membership role.
type RBAC struct {
	db *pgxpool.Pool
}

func NewRBAC(db *pgxpool.Pool) *RBAC {
	return &RBAC{db: db}
}

// RequireRole permits the request only when the caller holds one of the
// given roles in the current company.
func (r *RBAC) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user := tenant.UserFromContext(req.Context())
			company := tenant.FromContext(req.Context())
			if user == nil || company == nil {
				writeError(w, http.StatusForbidden, "no company membership")
				return
			}

			role, err := r.memberRole(req.Context(), user.ID, company.ID.String())
			if err != nil {
				writeError(w, http.StatusForbidden, "no company membership")
				return
			}

			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, req)
					return
				}
			}
			writeError(w, http.StatusForbidden, "insufficient role")
		})
	}
}

func (r *RBAC) memberRole(ctx context.Context, userID, companyID string) (models.Role, error) {
	var role models.Role
	err := r.db.QueryRow(ctx,
		"SELECT role FROM company_members WHERE user_id = $1 AND company_id = $2",
		userID, companyID,
	).Scan(&role)
	return role, err
}
