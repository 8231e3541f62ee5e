package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ogero/stremio-lastvideos/internal/common"
	slogchi "github.com/samber/slog-chi"
)

// NewRouter returns the addon HTTP handler: request logging, panic recovery, a permissive GET only CORS policy and the addon routes.
func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()
	r.Use(slogchi.New(common.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{
			"Content-Type",
			"X-Requested-With",
			"Accept",
			"Accept-Language",
			"Accept-Encoding",
			"Content-Language",
			"Origin",
		},
		MaxAge: 300,
	}))

	app.Routes(r)

	return r
}
