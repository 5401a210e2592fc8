package httpapi

import (
	"net/http"
	"time"

	"github.com/mchlmayer/iathumb/internal/http/handlers"
	"github.com/mchlmayer/iathumb/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the public API surface.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Route("/v1/studio", func(r chi.Router) {
		r.Get("/", app.StudioState)
		r.Post("/reset", app.StudioReset)
		r.Post("/reference", app.ReferenceUpload)
		r.Delete("/reference", app.ReferenceDelete)
		r.Get("/result/download", app.ResultDownload)

		// Only the routes that burn provider quota are rate limited.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
			r.Post("/generate", app.StudioGenerate)
			r.Post("/prompt/enhance", app.PromptEnhance)
		})
	})

	return r
}
