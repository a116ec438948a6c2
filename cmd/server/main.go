package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/weldworks/workshop-api/internal/api"
	"github.com/weldworks/workshop-api/internal/config"
	"github.com/weldworks/workshop-api/internal/db"
	"github.com/weldworks/workshop-api/internal/importer"
	"github.com/weldworks/workshop-api/internal/middleware"
	"github.com/weldworks/workshop-api/internal/repository"
	"github.com/weldworks/workshop-api/internal/scheduler"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	machineRepo := repository.NewMachineRepository(conn.Pool)
	templateRepo := repository.NewTemplateRepository(conn.Pool)
	entryRepo := repository.NewEntryRepository(conn)
	runRepo := repository.NewImportRunRepository(conn.Pool)
	operationsRepo := repository.NewOperationsRepository(conn.Pool)

	// Import pipeline and scheduler. Jobs are not persisted across restarts;
	// callers re-register schedules after startup.
	importService := importer.NewService(templateRepo, entryRepo, runRepo)
	sched := scheduler.New(importService, cfg.Scheduler.TickInterval)
	sched.Start()

	mux := http.NewServeMux()
	importer.NewHTTPHandler(importService, sched, cfg.Server.UploadDir).Register(mux)
	api.NewHTTPHandler(machineRepo, templateRepo, entryRepo, operationsRepo).Register(mux)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

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
		log.Printf("Starting workshop API server on %s", cfg.Server.Addr)

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

	// Let in-flight imports finish before exiting.
	if err := sched.Stop(shutdownCtx); err != nil {
		log.Printf("Scheduler stopped with in-flight jobs abandoned: %v", err)
	}

	log.Println("Server exited")
}
