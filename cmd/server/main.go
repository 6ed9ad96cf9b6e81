package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/algocoach/backend/internal/auth"
	"github.com/algocoach/backend/internal/catalog"
	"github.com/algocoach/backend/internal/database"
	"github.com/algocoach/backend/internal/middleware"
	"github.com/algocoach/backend/internal/progress"
	"github.com/algocoach/backend/internal/ratelimit"
	"github.com/algocoach/backend/internal/recommend"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Stores
	catalogStore := catalog.NewStore(db)
	progressStore := progress.NewStore(db)

	if err := catalog.Seed(catalogStore); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}

	// Services
	cache := recommend.NewCache(recommend.DefaultCacheTTL)
	recommendService := recommend.NewService(catalogStore, progressStore, cache)
	tracker := progress.NewTracker(progressStore, recommendService)

	// Handlers
	authHandler := auth.NewHandler(db)
	catalogHandler := catalog.NewHandler(catalogStore)
	progressHandler := progress.NewHandler(tracker, progressStore, catalogStore)
	recommendHandler := recommend.NewHandler(recommendService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	limiter := ratelimit.NewLimiter(envInt("RATE_LIMIT_PER_MINUTE", 60))
	api.Use(middleware.RateLimitMiddleware(limiter))

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	// Problem catalog
	protected.HandleFunc("/problems", catalogHandler.ListProblems).Methods("GET")
	protected.HandleFunc("/problems", catalogHandler.CreateProblem).Methods("POST")
	protected.HandleFunc("/problems/search", catalogHandler.SearchProblems).Methods("GET")
	protected.HandleFunc("/problems/difficulty/{difficulty}", catalogHandler.ListByDifficulty).Methods("GET")
	protected.HandleFunc("/problems/topic/{topic}", catalogHandler.ListByTopic).Methods("GET")
	protected.HandleFunc("/problems/discover", catalogHandler.Discover).Methods("GET")
	protected.HandleFunc("/problems/filters", catalogHandler.FilterOptions).Methods("GET")
	protected.HandleFunc("/problems/{id:[0-9]+}", catalogHandler.GetProblem).Methods("GET")
	protected.HandleFunc("/problems/{id:[0-9]+}", catalogHandler.UpdateProblem).Methods("PUT")
	protected.HandleFunc("/problems/{id:[0-9]+}", catalogHandler.DeleteProblem).Methods("DELETE")

	// Catalog stats
	protected.HandleFunc("/stats/overview", catalogHandler.Overview).Methods("GET")
	protected.HandleFunc("/stats/difficulty-breakdown", catalogHandler.DifficultyBreakdown).Methods("GET")
	protected.HandleFunc("/stats/topic-breakdown", catalogHandler.TopicBreakdown).Methods("GET")

	// Progress tracking
	protected.HandleFunc("/problems/{id:[0-9]+}/start", progressHandler.StartProblem).Methods("POST")
	protected.HandleFunc("/problems/{id:[0-9]+}/attempt", progressHandler.RecordAttempt).Methods("POST")
	protected.HandleFunc("/problems/{id:[0-9]+}/hint", progressHandler.UseHint).Methods("POST")
	protected.HandleFunc("/problems/{id:[0-9]+}/solve", progressHandler.SolveProblem).Methods("POST")
	protected.HandleFunc("/problems/{id:[0-9]+}/giveup", progressHandler.GiveUpProblem).Methods("POST")
	protected.HandleFunc("/problems/{id:[0-9]+}/bookmark", progressHandler.ToggleBookmark).Methods("POST")
	protected.HandleFunc("/problems/{id:[0-9]+}/progress", progressHandler.GetProblemProgress).Methods("GET")
	protected.HandleFunc("/progress", progressHandler.ListProgress).Methods("GET")
	protected.HandleFunc("/progress/solved", progressHandler.ListSolved).Methods("GET")
	protected.HandleFunc("/progress/in-progress", progressHandler.ListInProgress).Methods("GET")
	protected.HandleFunc("/progress/stats", recommendHandler.GetProgressStats).Methods("GET")

	// Recommendations & practice
	protected.HandleFunc("/recommendations", recommendHandler.GetRecommendations).Methods("GET")
	protected.HandleFunc("/recommendations/enhanced", recommendHandler.GetEnhancedRecommendations).Methods("GET")
	protected.HandleFunc("/practice/topic/{topic}", recommendHandler.GetTopicPractice).Methods("GET")
	protected.HandleFunc("/practice/random", recommendHandler.GetRandomPractice).Methods("GET")
	protected.HandleFunc("/dashboard", recommendHandler.GetDashboard).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envInt(key string, fallback int) int {
	s := os.Getenv(key)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		log.Printf("WARN: invalid %s=%q, using %d", key, s, fallback)
		return fallback
	}
	return v
}
