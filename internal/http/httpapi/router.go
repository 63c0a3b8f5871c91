package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"labelscan/internal/http/handlers"
	"labelscan/internal/infra"
	"labelscan/internal/middleware"
)

func NewRouter(app *handlers.App, logger infra.Logger, allowedOrigins []string) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP, chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))
	r.Use(middleware.Locale)

	r.Get("/", app.UI)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/items", func(r chi.Router) {
		r.Post("/", app.ItemsUpload)
		r.Get("/", app.ItemsList)
		r.Delete("/{id}", app.ItemsDelete)
		r.Get("/{id}/image", app.ItemsImage)
	})

	r.Get("/v1/export", app.Export)

	return r
}
