package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aridharma/sheetdrop/internal/auth"
	"github.com/aridharma/sheetdrop/internal/config"
	"github.com/aridharma/sheetdrop/internal/db"
	"github.com/aridharma/sheetdrop/internal/files"
	"github.com/aridharma/sheetdrop/internal/ingestion"
	"github.com/aridharma/sheetdrop/internal/middleware"
	"github.com/aridharma/sheetdrop/internal/repository"

	"github.com/rs/cors"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.Database, cfg.Server.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	userRepo := repository.NewUserRepository(conn.Pool)
	fileRepo := repository.NewFileUploadRepository(conn.Pool)
	rowRepo := repository.NewContactRowRepository(conn.Pool)

	// Background processing pipeline
	processor := ingestion.NewProcessor(ingestion.NewParser(), fileRepo, rowRepo)
	scheduler := ingestion.NewScheduler(processor, cfg.Ingestion.Workers, cfg.Ingestion.QueueSize)

	// Services and handlers
	authService := auth.NewService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authHandler := auth.NewHTTPHandler(authService)
	filesHandler := files.NewHTTPHandler(fileRepo, rowRepo, scheduler, cfg.Server.UploadsDir)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	requireAuth := middleware.AuthMiddleware(authService)

	mux := http.NewServeMux()
	mux.Handle("/auth/register", http.HandlerFunc(authHandler.Register))
	mux.Handle("/auth/login", http.HandlerFunc(authHandler.Login))
	mux.Handle("/files", requireAuth(filesHandler))
	mux.Handle("/files/", requireAuth(filesHandler))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      corsHandler.Handler(middleware.LoggingMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Let queued jobs reach a terminal state before the pool disappears.
	scheduler.Stop()

	log.Println("Server exited")
}
