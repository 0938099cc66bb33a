package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dailyDoodleAPI/handlers"
	"dailyDoodleAPI/internal/apperr"
	"dailyDoodleAPI/internal/blob"
	"dailyDoodleAPI/internal/localstore"
	"dailyDoodleAPI/internal/remotestore"
	"dailyDoodleAPI/internal/user"
	"dailyDoodleAPI/middleware"
	"dailyDoodleAPI/services"

	_ "net/http/pprof"
)

var (
	dbPool        *pgxpool.Pool
	cache         *localstore.Store
	remote        *remotestore.Client
	storage       *blob.BucketClient
	userService   *services.UserService
	statsService  *services.StatsService
	badgeService  *services.BadgeService
	streakService *services.StreakService
	syncService   *services.SyncService
	uploadService *services.UploadService
	socialService *services.SocialService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)
	log.Println("Clerk initialized successfully")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to NeonDB")

	cachePath := os.Getenv("CACHE_DB_PATH")
	if cachePath == "" {
		cachePath = "./cache.db"
	}
	cache, err = localstore.Open(cachePath)
	if err != nil {
		log.Fatal("Failed to open local cache:", err)
	}
	log.Printf("Local cache opened at %s", cachePath)

	storageURL := os.Getenv("STORAGE_URL")
	storageBucket := os.Getenv("STORAGE_BUCKET")
	storageKey := os.Getenv("STORAGE_KEY")
	if storageURL == "" || storageBucket == "" {
		log.Fatal("STORAGE_URL and STORAGE_BUCKET environment variables are not set")
	}
	storage = blob.NewBucketClient(storageURL, storageBucket, storageKey)

	remote = remotestore.NewClient(dbPool)

	statsService = services.NewStatsService(cache)
	badgeService = services.NewBadgeService(cache, remote, statsService)
	streakService = services.NewStreakService(cache, remote, badgeService)
	syncService = services.NewSyncService(cache, remote, badgeService)
	uploadService = services.NewUploadService(cache, remote, storage, statsService, badgeService)
	socialService = services.NewSocialService(cache, remote, statsService, badgeService)
	userService = services.NewUserService(remote)

	middleware.InitPrometheus()
}

func resolveIdentity(ctx context.Context, clerkID string) (user.Identity, error) {
	u, err := userService.GetByClerkID(ctx, clerkID)
	if err != nil {
		return user.Identity{}, apperr.Authorization("unknown user")
	}
	return user.Identity{UserID: u.ID, IsPremium: u.IsPremium, IsAdmin: u.IsAdmin}, nil
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, syncService, badgeService, statsService, streakService)
	doodleHandler := handlers.NewDoodleHandler(uploadService, socialService)
	socialHandler := handlers.NewSocialHandler(socialService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "dailyDoodle-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware(resolveIdentity))

	protected.HandleFunc("/session/start", userHandler.StartSession).Methods("POST")
	protected.HandleFunc("/session/end", userHandler.EndSession).Methods("POST")

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/update-profile", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/badges", userHandler.GetBadges).Methods("GET")
	protected.HandleFunc("/user/stats", userHandler.GetStats).Methods("GET")
	protected.HandleFunc("/user/streak", userHandler.GetStreak).Methods("GET")
	protected.HandleFunc("/user/streak/view", userHandler.RecordDailyView).Methods("POST")
	protected.HandleFunc("/user/streak/freeze", userHandler.UseFreeze).Methods("POST")

	protected.HandleFunc("/doodles", doodleHandler.Upload).Methods("POST")
	protected.HandleFunc("/doodles/feed", doodleHandler.GetFeed).Methods("GET")
	protected.HandleFunc("/doodles/{id}", doodleHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/doodles/{id}/like", socialHandler.Like).Methods("POST")
	protected.HandleFunc("/doodles/{id}/like", socialHandler.Unlike).Methods("DELETE")
	protected.HandleFunc("/doodles/{id}/share", socialHandler.Share).Methods("POST")
	protected.HandleFunc("/doodles/{id}/report", doodleHandler.Report).Methods("POST")

	protected.HandleFunc("/follows", socialHandler.Follow).Methods("POST")
	protected.HandleFunc("/follows/{id}", socialHandler.Unfollow).Methods("DELETE")

	protected.HandleFunc("/bookmarks", socialHandler.Bookmark).Methods("POST")
	protected.HandleFunc("/bookmarks/{id}", socialHandler.RemoveBookmark).Methods("DELETE")

	protected.HandleFunc("/prompt-ideas", socialHandler.SubmitPromptIdea).Methods("POST")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
