package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interviewprep/auth"
	"interviewprep/config"
	"interviewprep/db"
	"interviewprep/handlers"
	"interviewprep/services"
	"interviewprep/services/ai"
	"interviewprep/services/llm"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] Failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	completer, err := llm.NewCompleter(cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider: %v", err)
	}

	router := newRouter(cfg, database, completer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      3*cfg.LLM.Timeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Printf("[INFO] Server starting on port %s (LLM provider %s)", cfg.Port, cfg.LLM.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("[INFO] Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] Graceful shutdown failed: %v", err)
	}
}

func newRouter(cfg *config.Config, database *sql.DB, completer llm.Completer) *mux.Router {
	userRepo := db.NewPostgresUserRepository(database)
	sessionRepo := db.NewPostgresSessionRepository(database)
	questionRepo := db.NewPostgresQuestionRepository(database)

	tokens := auth.NewTokenProvider(cfg.JWTSecret, cfg.JWTTTL)
	hasher := auth.NewHasher(cfg.BcryptCost)

	client := llm.NewClient(completer, cfg.LLM.Timeout, cfg.LLM.RetryBackoff)
	aiService := ai.NewService(client, cfg.DefaultQuestionCount, cfg.MaxQuestionCount)

	authService := services.NewAuthService(userRepo, hasher, tokens)
	sessionStoreService := services.NewSessionStoreService(sessionRepo, questionRepo)
	prepService := services.NewPrepService(aiService, sessionStoreService)

	router := mux.NewRouter()

	router.Use(corsMiddleware(cfg.AllowedOrigins))
	router.Use(jsonMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	protected := api.NewRoute().Subrouter()
	protected.Use(auth.Middleware(tokens, userRepo))

	handlers.NewAuthHandler(authService).RegisterRoutes(api, protected)
	handlers.NewAIHandler(aiService).RegisterRoutes(protected)
	handlers.NewSessionHandler(sessionStoreService, prepService).RegisterRoutes(protected)
	handlers.NewQuestionHandler(sessionStoreService, prepService).RegisterRoutes(protected)

	return router
}
