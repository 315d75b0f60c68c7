package domain

import "time"

// Role controls which tickets an account can see and which admin screens it can reach.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Roles lists the roles in display order.
var Roles = []Role{RoleAdmin, RoleUser}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// DefaultPassword is assigned to every provisioned account and restored on reset.
const DefaultPassword = "kerjaibadah"

// Account is an identity record. PasswordHash never leaves the service layer.
type Account struct {
	ID           string
	Email        string
	Name         string
	Phone        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the account holds the admin role.
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Public strips the credential.
func (a Account) Public() PublicAccount {
	return PublicAccount{
		ID:    a.ID,
		Email: a.Email,
		Name:  a.Name,
		Phone: a.Phone,
		Role:  a.Role,
	}
}

// PublicAccount is the secret-free view of an account. It is also the shape of the
// persisted session snapshot.
type PublicAccount struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the account holds the admin role.
func (a PublicAccount) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// AccountInput is the provisioning payload. The secret is never caller supplied.
type AccountInput struct {
	Email string
	Name  string
	Phone string
	Role  Role
}
