package handlers

import (
	"encoding/json"
	"net/http"
)

type registerEvent struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// WebhookRegister provisions a user row from the identity provider's
// user-created event. Guarded by the shared webhook secret; unknown event
// types are acknowledged without side effects so the provider does not
// retry them forever.
func (a *App) WebhookRegister(w http.ResponseWriter, r *http.Request) {
	if !a.sharedSecretOK(r) {
		a.error(w, r, http.StatusForbidden, codeForbidden)
		return
	}
	var event registerEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.Data.ID == "" {
		a.error(w, r, http.StatusBadRequest, codeBadRequest)
		return
	}
	if event.Type != "" && event.Type != "user.created" {
		a.json(w, http.StatusOK, map[string]string{"message": "event ignored"})
		return
	}
	user, err := a.Users.Ensure(r.Context(), event.Data.ID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"id": user.ID, "message": "user registered"})
}
