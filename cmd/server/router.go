package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/lingo-api/internal/api"
	apiMiddleware "github.com/phrazzld/lingo-api/internal/api/middleware"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// setupRouter builds the HTTP handler with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins: app.config.Server.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}).Handler)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	lessonHandler := api.NewLessonHandler(app.pipeline, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	deckHandler := api.NewDeckHandler(app.deckService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/lessons/vocabulary", lessonHandler.SaveVocabulary)

		r.Post("/reviews", reviewHandler.Grade)
		r.Get("/reviews/due", reviewHandler.Due)

		r.Get("/decks", deckHandler.List)
		r.Post("/decks", deckHandler.Create)
		r.Get("/decks/{id}", deckHandler.Get)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return otelhttp.NewHandler(r, app.config.Tracing.ServiceName)
}
