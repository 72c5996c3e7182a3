package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"

	"coaching-backend/internal/config"
	"coaching-backend/internal/cron"
	"coaching-backend/internal/database"
	"coaching-backend/internal/email"
	"coaching-backend/internal/firebaseapp"
	"coaching-backend/internal/handlers"
	"coaching-backend/internal/middleware"
	"coaching-backend/internal/notifier"
	"coaching-backend/internal/repository"
	"coaching-backend/internal/repository/firestoredb"
	"coaching-backend/internal/repository/memory"
	"coaching-backend/internal/repository/postgres"
	"coaching-backend/internal/storage"
	"coaching-backend/internal/tenant"
)

func main() {
	// 1. Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tenants := tenant.NewResolver(cfg.DefaultTenant)

	// 2. Firebase is shared by the firestore backend and firebase auth
	var app *firebase.App
	if cfg.Backend == config.BackendFirestore || cfg.AuthMode == config.AuthFirebase {
		app, err = firebaseapp.New(ctx, cfg.Firebase)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
	}

	// 3. Storage backend
	backend, health, err := openBackend(ctx, cfg, app, tenants)
	if err != nil {
		log.Fatalf("Failed to open %s backend: %v", cfg.Backend, err)
	}
	defer backend.Close()

	// 4. Token verification
	verifier, err := newVerifier(cfg, app)
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}

	// 5. File storage: R2 when configured, local disk otherwise
	var files storage.Store
	if cfg.R2.Enabled() {
		files, err = storage.NewR2Store(ctx, cfg.R2)
	} else {
		files, err = storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.BaseURL)
	}
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	// 6. Notification engine and daily job
	svc := notifier.New(backend, backend, notifier.WithScanLimit(cfg.Notifier.ScanConcurrency))

	var sender email.Sender = email.NewNoopSender()
	if cfg.Email.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From)
	}
	if cfg.Notifier.Enabled {
		job := cron.NewJob(svc, backend, sender, cfg.Email.PanelURL)
		cron.StartNotifier(ctx, job, cfg.Notifier.Interval)
	}

	// 7. Router
	deps := handlers.Deps{
		Backend:     backend,
		Notifier:    svc,
		Verifier:    verifier,
		Tenants:     tenants,
		Files:       files,
		CORSOrigins: cfg.CORSOrigins,
		Health:      health,
	}
	if cfg.AuthMode == config.AuthJWT {
		deps.JWTSecret = cfg.JWTSecret
	}

	// 8. Start server with graceful shutdown
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handlers.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server started on port %s (backend=%s, auth=%s)", cfg.Port, cfg.Backend, cfg.AuthMode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Server stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}

// openBackend returns the configured store and its health probe.
func openBackend(ctx context.Context, cfg *config.Config, app *firebase.App, tenants tenant.Resolver) (repository.Backend, func() map[string]string, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := database.New(&cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := db.Migrate(migrateCtx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.New(db), db.Health, nil

	case config.BackendFirestore:
		client, err := app.Firestore(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("firestore client: %w", err)
		}
		return firestoredb.New(client, tenants), nil, nil

	default:
		log.Println("Using in-memory store; data is lost on restart")
		return memory.New(), nil, nil
	}
}

func newVerifier(cfg *config.Config, app *firebase.App) (middleware.Verifier, error) {
	if cfg.AuthMode != config.AuthFirebase {
		return middleware.NewJWTVerifier(cfg.JWTSecret), nil
	}
	client, err := firebaseapp.Auth(app)
	if err != nil {
		return nil, err
	}
	return middleware.NewFirebaseVerifier(client), nil
}
