package ports

import (
	"context"

	"github.com/essentialtimes/newsroom/internal/core/domain"
)

// RegisterInput carries the fields of a self-service account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login returns a signed token and the public profile. Unknown email and
	// wrong password both yield domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Verify decodes a token into the identity it was issued for.
	Verify(token string) (domain.Identity, error)
}
