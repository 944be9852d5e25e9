package domain

import "time"

// Role enumerates supported roles. Roles are claims owned by the identity
// provider; the local store never persists them.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User represents an authenticated account within the platform. The ID is the
// identity provider's stable subject for the account; rows are provisioned on
// first authenticated access or through the register webhook.
type User struct {
	ID               string
	IsSubscribed     bool
	SubscriptionEnds *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OnFreeTier reports whether the user is subject to the free-tier todo cap.
func (u User) OnFreeTier() bool {
	return !u.IsSubscribed
}
