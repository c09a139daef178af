package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/yuchialin/moodjar-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux) {
	// Auth routes
	r.Post("/api/auth/signup", handlers.Signup)
	r.Post("/api/auth/signin", handlers.Signin)
	r.Post("/api/auth/signout", handlers.Signout)
	r.Get("/api/auth/me", handlers.GetMe)

	// Journal routes
	r.Get("/api/journals", handlers.GetJournals)
	r.Post("/api/journals", handlers.CreateJournal)
	r.Delete("/api/journals", handlers.DeleteJournal)

	// Mood analysis
	r.Post("/api/analyze", handlers.AnalyzeMood)
}
