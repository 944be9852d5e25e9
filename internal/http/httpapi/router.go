package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// Options carries the router's middleware configuration.
type Options struct {
	JWTSecret       string
	AllowedOrigins  []string
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	RateLimitPerMin int
}

// NewRouter wires the HTTP surface. Route groups fix the composition order:
// authentication runs before any handler on protected routes, and handlers
// apply authorization and quota policy before touching storage.
func NewRouter(app *handlers.App, logger zerolog.Logger, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
		middleware.Logger(logger),
	)

	r.Get("/healthz", app.Health)

	// Provisioning surface, guarded by the shared secret inside the handlers.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
		r.Post("/auth/token", app.AuthToken)
		r.Post("/webhook/register", app.WebhookRegister)
	})

	// Authenticated surface.
	r.Group(func(r chi.Router) {
		r.Use(
			middleware.Auth(opts.JWTSecret, app.Unauthenticated),
			middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
		)

		r.Route("/todos", func(r chi.Router) {
			r.Get("/", app.TodosList)
			r.Post("/", app.TodosCreate)
			r.Put("/{id}", app.TodosUpdate)
			r.Delete("/{id}", app.TodosDelete)
		})

		r.Route("/admin/todos", func(r chi.Router) {
			r.Get("/", app.AdminTodosList)
			r.Put("/", app.AdminTodosUpdate)
			r.Delete("/", app.AdminTodosDelete)
		})

		r.Route("/subscription", func(r chi.Router) {
			r.Get("/", app.SubscriptionStatus)
			r.Post("/", app.SubscriptionActivate)
		})
	})

	return r
}
