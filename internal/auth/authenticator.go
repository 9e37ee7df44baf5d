package auth

import (
	"context"

	"github.com/splitsms/splitsms/internal/models"
)

// Authenticator abstracts over authentication methods so the service
// layer does not depend on the password implementation.
type Authenticator interface {
	// Register creates a new user account from an email, display name
	// and credential. The credential format depends on the implementation.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies credentials and returns the user if valid.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
