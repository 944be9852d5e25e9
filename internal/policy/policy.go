// Package policy holds the pure decision logic for authorization and quota
// enforcement. Functions here take already-resolved identity, role, and counts
// as explicit arguments and never touch transport or storage.
package policy

import "server/internal/domain"

// FreeTierTodoLimit is the maximum number of todos a non-subscribed user may
// own. Enforced at creation, not retroactively on subscription expiry.
const FreeTierTodoLimit = 3

// Action enumerates the operations subject to authorization.
type Action string

const (
	ActionRead    Action = "read"
	ActionReadAll Action = "read_all"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
)

// Reason classifies a denial.
type Reason string

const (
	ReasonForbidden     Reason = "forbidden"
	ReasonQuotaExceeded Reason = "quota_exceeded"
)

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Err maps a denial to its sentinel error. Returns nil for allowed decisions.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonQuotaExceeded:
		return domain.ErrQuotaExceeded
	default:
		return domain.ErrForbidden
	}
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason Reason) Decision { return Decision{Reason: reason} }

// CanCreateTodo decides whether a user may create another todo. Subscribed
// users are never capped; free-tier users are capped at FreeTierTodoLimit.
// currentCount must be a freshly read count of the user's todos; the caller
// supplies it so this stays a pure function. The subscription flag is the sole
// gate: an expired-but-still-true flag still counts as subscribed, keeping the
// expiry reconciliation with the external subscription workflow.
func CanCreateTodo(isSubscribed bool, currentCount int) Decision {
	if isSubscribed {
		return allow()
	}
	if currentCount < FreeTierTodoLimit {
		return allow()
	}
	return deny(ReasonQuotaExceeded)
}

// Authorize decides whether an actor may perform an action against a todo
// owned by resourceOwnerID. Admins may do anything, including ActionReadAll;
// members are limited to their own resources and never ActionReadAll.
func Authorize(actorRole domain.Role, actorID, resourceOwnerID string, action Action) Decision {
	if actorRole == domain.RoleAdmin {
		return allow()
	}
	switch action {
	case ActionRead, ActionUpdate, ActionDelete:
		if actorID != "" && actorID == resourceOwnerID {
			return allow()
		}
	}
	return deny(ReasonForbidden)
}
