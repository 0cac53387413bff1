package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tz-journal/internal/config"
	"github.com/tz-journal/internal/handler"
	"github.com/tz-journal/internal/middleware"
	"github.com/tz-journal/internal/realtime"
	"github.com/tz-journal/internal/repository"
	"github.com/tz-journal/internal/service"
	"github.com/tz-journal/internal/store"
	"github.com/tz-journal/internal/worker"
)

// Build info (injected at build time via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	configPath := "config.yaml"
	if p := os.Getenv("JOURNAL_CONFIG"); p != "" {
		configPath = p
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := middleware.InitLogger(cfg.Log.Dir, cfg.Log.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	loc, err := cfg.Journal.Location()
	if err != nil {
		log.Fatalf("Invalid journal timezone: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Open the storage backend and load the journal
	repo, closeRepo, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	st := store.New(repo, middleware.Logger("Store"))
	if err := st.Load(ctx); err != nil {
		log.Fatalf("Failed to load journal: %v", err)
	}

	journal := service.NewJournalService(st, service.Options{
		Location:      loc,
		MaxImageBytes: cfg.Journal.MaxImageBytes,
	}, middleware.Logger("Journal"))

	// Push change notifications to websocket clients
	hub := realtime.NewHub(middleware.Logger("Realtime"))
	hub.Attach(st)
	go hub.Run(ctx)

	router := handler.NewRouter(journal, hub, handler.BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	})

	var backups *worker.BackupWorker
	if cfg.Journal.BackupDir != "" && cfg.Journal.BackupInterval > 0 {
		backups = worker.NewBackupWorker(journal, cfg.Journal.BackupDir, cfg.Journal.BackupKeep,
			cfg.Journal.BackupInterval, middleware.Logger("Backup"))
		go backups.Start()
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		middleware.LogInfo("Starting server on %s (storage: %s)", addr, cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	middleware.LogInfo("Shutting down server...")

	if backups != nil {
		backups.Stop()
	}

	// Graceful shutdown with 10 second timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		middleware.LogError("Server forced to shutdown: %v", err)
	}
	cancel()

	if err := closeRepo(); err != nil {
		middleware.LogError("Error closing storage: %v", err)
	}

	middleware.LogInfo("Server exited properly")
}
