package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"deepresearch-backend/internal/handlers"
	"deepresearch-backend/internal/middleware"
)

func New(
	healthHandler *handlers.HealthHandler,
	chatHandler *handlers.ChatHandler,
	chatRateLimit int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS)

	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Check)

	chatLimiter := middleware.NewRateLimiter(chatRateLimit, time.Minute)
	r.Group(func(r chi.Router) {
		r.Use(chatLimiter.Middleware)
		r.Post("/chat", chatHandler.Send)
	})

	return r
}
