package tenant

import (
	"context"

	"github.com/google/uuid"
	"github.com/reqline/reqline/internal/models"
)

type contextKey string

const (
	companyKey contextKey = "company"
	userKey    contextKey = "user"
	subjectKey contextKey = "subject"
)

func WithCompany(ctx context.Context, c *models.Company) context.Context {
	return context.WithValue(ctx, companyKey, c)
}

func FromContext(ctx context.Context) *models.Company {
	c, _ := ctx.Value(companyKey).(*models.Company)
	return c
}

func IDFromContext(ctx context.Context) uuid.UUID {
	if c := FromContext(ctx); c != nil {
		return c.ID
	}
	return uuid.Nil
}

func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// WithSubject stores the raw identity-provider subject. It is present even
// before a local user row exists (first login).
func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, subjectKey, sub)
}

func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}
