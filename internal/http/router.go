package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/factura/internal/http/auth"
	"github.com/MrJamesThe3rd/factura/internal/http/document"
	"github.com/MrJamesThe3rd/factura/internal/http/export"
	"github.com/MrJamesThe3rd/factura/internal/http/logo"
	"github.com/MrJamesThe3rd/factura/internal/http/render"
	"github.com/MrJamesThe3rd/factura/internal/http/settings"
)

type Options struct {
	AuthSecret     string
	AllowedOrigins []string
}

func New(
	opts Options,
	renderV1 *render.Handler,
	documentsV1 *document.Handler,
	logoV1 *logo.Handler,
	settingsV1 *settings.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(opts.AuthSecret))

		r.Group(func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			renderV1.Routes(r)
		})

		r.Route("/documents", documentsV1.Routes)

		r.Route("/logo", logoV1.Routes)

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			settingsV1.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			exportV1.Routes(r)
		})
	})

	return router
}
