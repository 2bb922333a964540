// Package auth verifies tokens minted by the external identity provider.
// The backend never issues credentials; it only checks the HS256 signature
// and maps the token subject onto the local user/tenant records.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/reqline/reqline/internal/models"
	"github.com/reqline/reqline/internal/tenant"
)

type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TenantResolver is the slice of the tenant service the middleware needs.
type TenantResolver interface {
	GetUser(ctx context.Context, subject string) (*models.User, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

type Middleware struct {
	secret  []byte
	issuer  string
	tenants TenantResolver
}

func NewMiddleware(secret, issuer string, ts TenantResolver) *Middleware {
	return &Middleware{secret: []byte(secret), issuer: issuer, tenants: ts}
}

// Authenticate validates the bearer token and loads the local user and
// company into the request context. A valid token whose subject has no local
// records yet still passes: first-login calls need to reach the user-upsert
// and company-create endpoints.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr := extractBearerToken(r)
		if tokenStr == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		claims := &Claims{}
		opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
		if m.issuer != "" {
			opts = append(opts, jwt.WithIssuer(m.issuer))
		}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		}, opts...)
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		if claims.Subject == "" {
			writeError(w, http.StatusUnauthorized, "token has no subject")
			return
		}

		ctx := tenant.WithSubject(r.Context(), claims.Subject)

		user, err := m.tenants.GetUser(ctx, claims.Subject)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "something went wrong")
			return
		}
		if user != nil {
			ctx = tenant.WithUser(ctx, user)
			if user.CompanyID != nil {
				company, err := m.tenants.GetCompany(ctx, *user.CompanyID)
				if err == nil {
					ctx = tenant.WithCompany(ctx, company)
				}
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
