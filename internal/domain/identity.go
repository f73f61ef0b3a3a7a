package domain

// Role controls which views a user may reach.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Identity is the authenticated caller of a single request.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the identity may see historical records.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
