package user

import "time"

// Role identifiers from the user_roles lookup table.
const (
	RoleCustomer = 1
	RoleAdmin    = 2
)

// User represents a registered shopper. Accounts created through the
// identity-provider callback carry no password hash.
type User struct {
	ID             int64     `json:"id"`
	RoleID         int       `json:"role_id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	FirstName      string    `json:"first_name"`
	MiddleName     string    `json:"middle_name,omitempty"`
	LastName       string    `json:"last_name"`
	SecondLastName string    `json:"second_last_name,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}
