package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/aroxa-cropscience/aroxa/internal/auth"
	"github.com/aroxa-cropscience/aroxa/internal/fields"
	"github.com/aroxa-cropscience/aroxa/internal/inquiries"
	"github.com/aroxa-cropscience/aroxa/internal/products"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	AuthHandler      *auth.Handler
	FieldsHandler    *fields.Handler
	ProductsHandler  *products.Handler
	InquiriesHandler *inquiries.Handler
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		params.AuthHandler.MountRoutes(r)
		params.FieldsHandler.MountRoutes(r)
		params.ProductsHandler.MountRoutes(r)
		params.InquiriesHandler.MountRoutes(r)
	})

	return r
}
