package domain

import "time"

// Role enumerates operator roles carried in issued tokens. Only
// administrators exist today; read endpoints are anonymous.
type Role string

const (
	RoleAdmin Role = "ADMIN"
)

// Token represents issued authentication token metadata.
type Token struct {
	Subject   string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}
