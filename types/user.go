package types

import "time"

// User represents an account in the system.
// It contains identity, role, and audit metadata.
type User struct {
	// ID is the unique identifier of the user.
	ID string `json:"id"`

	// Email is the user's email address. Unique across accounts,
	// compared exactly as stored.
	Email string `json:"email"`

	// Name is the user's display name.
	Name string `json:"name"`

	// Role indicates the user's authorization level
	// within the system (e.g., "admin", "user").
	Role string `json:"role"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is persisted but never exposed in API responses;
	// handlers project users through SafeUser before encoding.
	PasswordHash string `json:"password"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt"`
}

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// SafeUser is the public projection of a User, with credentials stripped.
type SafeUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Safe returns the public projection of the user.
func (u User) Safe() SafeUser {
	return SafeUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
