package handlers

import (
	"net/http"
	"time"
)

type subscriptionDTO struct {
	IsSubscribed     bool       `json:"isSubscribed"`
	SubscriptionEnds *time.Time `json:"subscriptionEnds"`
}

// SubscriptionStatus returns the caller's subscription state, provisioning
// the user row on first access.
func (a *App) SubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, r, http.StatusUnauthorized, codeUnauthenticated)
		return
	}
	user, err := a.Users.Ensure(r.Context(), userID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, subscriptionDTO{
		IsSubscribed:     user.IsSubscribed,
		SubscriptionEnds: user.SubscriptionEnds,
	})
}

// SubscriptionActivate flips the caller onto the paid tier for one period.
// Payment itself lives outside this service; this endpoint records the
// externally supplied outcome.
func (a *App) SubscriptionActivate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, r, http.StatusUnauthorized, codeUnauthenticated)
		return
	}
	if _, err := a.Users.Ensure(r.Context(), userID); err != nil {
		a.domainError(w, r, err)
		return
	}
	ends := time.Now().Add(a.SubscriptionPeriod)
	user, err := a.Users.SetSubscription(r.Context(), userID, true, &ends)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, subscriptionDTO{
		IsSubscribed:     user.IsSubscribed,
		SubscriptionEnds: user.SubscriptionEnds,
	})
}
