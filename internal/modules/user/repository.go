package user

import "context"

// Repository defines data access for users.
type Repository interface {
	// CreateUser persists a new user and fills in the store-assigned ID.
	CreateUser(ctx context.Context, u *User) error

	// GetUserByEmail retrieves a user by email address.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID retrieves a user by numeric ID.
	GetUserByID(ctx context.Context, id int64) (*User, error)
}
