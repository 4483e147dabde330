package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleCustomer = "customer"
	RoleAdvisor  = "advisor"
	RoleAdmin    = "admin"
)

// Claims are the JWT claims issued to callers of the adjustment service.
// UserID is the customer identifier (USERnnnnn) the token acts as.
type Claims struct {
	jwt.RegisteredClaims
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
}

func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// CanActFor reports whether the holder may read or change userID's
// adjustments. Advisors and admins act for any customer.
func (c Claims) CanActFor(userID string) bool {
	if c.HasRole(RoleAdvisor) || c.HasRole(RoleAdmin) {
		return true
	}
	return c.UserID != "" && c.UserID == userID
}
