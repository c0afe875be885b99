package domain

// Role differentiates residents from residency admins.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a registered member of exactly one residency.
type User struct {
	ID                string
	Username          string
	Phone             string
	Email             *string
	Role              Role
	ResidencyID       string
	WorkingProfession *string
}

// IsAdmin reports whether the user manages complaints for their residency.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
