package types

import "github.com/google/uuid"

// Role is the role claim assigned to an account by the identity provider.
type Role string

// Account roles.
const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
	RoleClient    Role = "client"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is a role the identity provider issues.
func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleRecruiter || r == RoleClient || r == RoleAdmin
}

// User is a read-only projection of an account owned by the identity provider.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  Role      `json:"role"`
}
