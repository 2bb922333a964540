package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqline/reqline/internal/auth"
	"github.com/reqline/reqline/internal/models"
	"github.com/reqline/reqline/internal/tenant"
)

const testSecret = "test-secret"

type stubResolver struct {
	user    *models.User
	company *models.Company
}

func (s *stubResolver) GetUser(context.Context, string) (*models.User, error) {
	return s.user, nil
}

func (s *stubResolver) GetCompany(context.Context, uuid.UUID) (*models.Company, error) {
	return s.company, nil
}

func signToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func validClaims(sub string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func do(m *auth.Middleware, token string, capture *http.Request) *httptest.ResponseRecorder {
	handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*capture = *r
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	m := auth.NewMiddleware(testSecret, "", &stubResolver{})

	var captured http.Request
	rec := do(m, "", &captured)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsBadSignature(t *testing.T) {
	m := auth.NewMiddleware(testSecret, "", &stubResolver{})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("user-1"))
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	var captured http.Request
	rec := do(m, signed, &captured)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	m := auth.NewMiddleware(testSecret, "", &stubResolver{})

	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}

	var captured http.Request
	rec := do(m, signToken(t, claims), &captured)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatePassesUnknownSubject(t *testing.T) {
	// First login: no local user yet, request must still reach the handler
	// so the user-upsert endpoint can run.
	m := auth.NewMiddleware(testSecret, "", &stubResolver{})

	var captured http.Request
	rec := do(m, signToken(t, validClaims("user-1")), &captured)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", tenant.SubjectFromContext(captured.Context()))
	assert.Nil(t, tenant.UserFromContext(captured.Context()))
}

func TestAuthenticateLoadsUserAndCompany(t *testing.T) {
	companyID := uuid.New()
	resolver := &stubResolver{
		user:    &models.User{ID: "user-1", CompanyID: &companyID},
		company: &models.Company{ID: companyID, Name: "Acme"},
	}
	m := auth.NewMiddleware(testSecret, "", resolver)

	var captured http.Request
	rec := do(m, signToken(t, validClaims("user-1")), &captured)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, tenant.UserFromContext(captured.Context()))
	assert.Equal(t, companyID, tenant.IDFromContext(captured.Context()))
}

func TestAuthenticateChecksIssuer(t *testing.T) {
	m := auth.NewMiddleware(testSecret, "https://issuer.example.com", &stubResolver{})

	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "https://rogue.example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	var captured http.Request
	rec := do(m, signToken(t, claims), &captured)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
