package auth

import (
	"context"

	"github.com/jvalladares/tienda-backend/internal/modules/user"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	// Register creates a local-credential account.
	Register(ctx context.Context, req RegisterRequest) (*user.User, error)

	// Login verifies local credentials and returns a signed session token.
	Login(ctx context.Context, email, password string) (string, error)

	// AuthCodeURL builds the identity provider's authorization URL for the
	// PKCE authorization-code flow.
	AuthCodeURL(state, pkceVerifier string) string

	// HandleCallback exchanges the authorization code, verifies the ID token,
	// upserts the federated user, and returns a signed session token.
	HandleCallback(ctx context.Context, code, pkceVerifier string) (string, error)

	// VerifyToken validates a session token and returns the subject user ID.
	VerifyToken(tokenString string) (int64, error)
}

// RegisterRequest is the payload for local account creation.
type RegisterRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FirstName      string `json:"first_name"`
	MiddleName     string `json:"middle_name,omitempty"`
	LastName       string `json:"last_name"`
	SecondLastName string `json:"second_last_name,omitempty"`
}
