package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/yuchialin/moodjar-backend/internal/config"
	"github.com/yuchialin/moodjar-backend/internal/database"
	"github.com/yuchialin/moodjar-backend/internal/handlers"
	"github.com/yuchialin/moodjar-backend/internal/middleware"
	"github.com/yuchialin/moodjar-backend/internal/routes"
	"github.com/yuchialin/moodjar-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if cfg.ClassifierKey == "" {
		log.Println("⚠️  WARNING: CLASSIFIER_API_KEY not set. Mood analysis will fail upstream.")
	}

	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	log.Printf("Connecting to MongoDB...")
	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	store := services.NewMongoJournalStore(database.DB)
	if err := store.EnsureJournalIndexes(context.Background()); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB journal indexes: %v", err)
	} else {
		log.Println("✅ MongoDB journal indexes ensured")
	}

	monthsCache := services.NewMonthIndexCache(time.Duration(cfg.MonthIndexTTLMin) * time.Minute)
	classifier := services.NewClassifier(cfg.ClassifierURL, cfg.ClassifierKey, cfg.ClassifierModel)
	handlers.Init(store, monthsCache, classifier)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.PerIPRateLimit)
		r.Use(middleware.RateLimitMiddleware)
		log.Println("✅ Production security enabled (security headers, per-IP rate limiting)")
	} else {
		r.Use(middleware.RateLimitMiddleware)
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r)

	log.Println("📋 Registered routes:")
	log.Println("  GET    /health")
	log.Println("  POST   /api/auth/signup")
	log.Println("  POST   /api/auth/signin")
	log.Println("  POST   /api/auth/signout")
	log.Println("  GET    /api/auth/me")
	log.Println("  GET    /api/journals")
	log.Println("  POST   /api/journals")
	log.Println("  DELETE /api/journals")
	log.Println("  POST   /api/analyze")

	log.Printf("🚀 MoodJar backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
