package domain

const RoleAdmin = "admin"

// Caller is an identity already verified by the authentication layer.
type Caller struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
