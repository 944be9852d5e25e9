package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"server/internal/middleware"
)

type tokenRequest struct {
	UserID string `json:"user_id"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthToken exchanges the shared provisioning secret for a session token.
// This is the service-to-service bridge for environments where the identity
// provider's own session tokens are not forwarded; the user row is
// provisioned on the way through.
func (a *App) AuthToken(w http.ResponseWriter, r *http.Request) {
	if !a.sharedSecretOK(r) {
		a.error(w, r, http.StatusForbidden, codeForbidden)
		return
	}
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		a.error(w, r, http.StatusBadRequest, codeBadRequest)
		return
	}
	if _, err := a.Users.Ensure(r.Context(), req.UserID); err != nil {
		a.domainError(w, r, err)
		return
	}
	token, err := middleware.SignSessionToken(a.JWTSecret, req.UserID, a.SessionTTL)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign session token failed")
		a.error(w, r, http.StatusInternalServerError, codeInternal)
		return
	}
	a.json(w, http.StatusOK, tokenResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(a.SessionTTL),
	})
}

func (a *App) sharedSecretOK(r *http.Request) bool {
	if a.WebhookSecret == "" {
		return false
	}
	provided := r.Header.Get("X-Webhook-Secret")
	return subtle.ConstantTimeCompare([]byte(provided), []byte(a.WebhookSecret)) == 1
}
