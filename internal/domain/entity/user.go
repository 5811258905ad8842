// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors an account of the external identity provider together with its point balance.
// The ID is the provider's subject claim, so it is assigned outside this service.
type User struct {
	ID        uuid.UUID // Subject of the identity provider token.
	Email     string    // Primary contact email reported by the identity provider.
	Name      string    // Display name.
	Role      Role      // Highest role granted to the account.
	Points    int       // Current point balance, never negative.
	CreatedAt time.Time // Timestamp of when the profile row was mirrored.
	UpdatedAt time.Time // Timestamp of the last profile or balance change.
}

// Principal is the authenticated caller extracted from a verified access token.
type Principal struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Roles  Roles
}

// HighestRole returns the most privileged role held by the principal.
func (p *Principal) HighestRole() Role {
	switch {
	case p.Roles.Contains(RoleAdmin):
		return RoleAdmin
	case p.Roles.Contains(RoleOperator):
		return RoleOperator
	default:
		return RoleUser
	}
}
