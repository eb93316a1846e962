package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"timed-quiz-service/internal/app"
)

// NewRouter mounts the websocket endpoints and the authoring API. CORS is only enabled
// when allowedOrigins is non-empty.
func NewRouter(service *app.QuizService, results ResultSource, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP, middleware.Logger, middleware.Recoverer)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ws/session", NewSessionHandler(service).ServeWS)
	r.Get("/ws/results", NewResultsHandler(results).ServeWS)
	NewAuthoringHandler(service).Routes(r)
	return r
}
