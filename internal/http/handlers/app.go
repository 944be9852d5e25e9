package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/identity"
	"server/internal/middleware"
)

// App is the handler container. Handlers stay thin: parse the request, run the
// policy decision, call the repositories, shape the response.
type App struct {
	Logger zerolog.Logger
	Users  domain.UserRepository
	Todos  domain.TodoRepository
	Roles  identity.RoleResolver

	JWTSecret          string
	WebhookSecret      string
	SessionTTL         time.Duration
	SubscriptionPeriod time.Duration
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes the stable machine-readable code plus a localized message.
func (a *App) error(w http.ResponseWriter, r *http.Request, status int, code string) {
	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, status, map[string]string{
		"code":  code,
		"error": message(locale, code),
	})
}

// domainError translates a sentinel error from the policy or persistence
// layers into a response. Unknown errors become a generic 500 so storage
// details never leak.
func (a *App) domainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		a.error(w, r, http.StatusUnauthorized, codeUnauthenticated)
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, r, http.StatusForbidden, codeForbidden)
	case errors.Is(err, domain.ErrQuotaExceeded):
		a.error(w, r, http.StatusForbidden, codeQuotaExceeded)
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, r, http.StatusNotFound, codeNotFound)
	case errors.Is(err, domain.ErrInvalidTitle):
		a.error(w, r, http.StatusBadRequest, codeInvalidTitle)
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		a.error(w, r, http.StatusServiceUnavailable, codeUpstreamUnavailable)
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, r, http.StatusInternalServerError, codeInternal)
	}
}

// Unauthenticated writes the 401 payload. The auth middleware delegates its
// rejections here so they carry the localized catalog message instead of a
// fixed English body.
func (a *App) Unauthenticated(w http.ResponseWriter, r *http.Request) {
	a.error(w, r, http.StatusUnauthorized, codeUnauthenticated)
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
