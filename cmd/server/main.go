package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"drive/internal/auth"
	"drive/internal/config"
	models "drive/internal/domain/models/drive"
	"drive/internal/handler"
	"drive/internal/handler/sse"
	"drive/internal/jobs"
	"drive/internal/metrics"
	"drive/internal/middleware"
	"drive/internal/notify"
	"drive/internal/policy"
	"drive/internal/repository"
	"drive/internal/service/activity"
	serviceAuth "drive/internal/service/auth"
	serviceDrive "drive/internal/service/drive"
	"drive/internal/storage/blob"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"blob_backend", cfg.BlobBackend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Authentication
	var verifier auth.TokenVerifier
	if cfg.JWKSURL != "" {
		jwks, err := auth.NewJWTVerifier(ctx, cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwks.Close()
		verifier = jwks
	}
	if cfg.DevAuthUser != "" {
		logger.Warn("DEV AUTH: trusting X-User-ID header (NEVER use in production!)", "default_user", cfg.DevAuthUser)
	}
	if verifier == nil && cfg.DevAuthUser == "" {
		log.Fatalf("Either JWKS_URL or AUTH_DEV_USER must be set")
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Storage
	stores, err := repository.Open(ctx, cfg, true, logger)
	if err != nil {
		log.Fatalf("Failed to open tree store: %v", err)
	}
	defer stores.Close()

	blobs, err := blob.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	// Authorization
	policyRegistry, err := policy.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load access policy: %v", err)
	}
	authorizer := serviceAuth.NewAccessAuthorizer(stores.Folders, stores.Files, stores.Access, policyRegistry, logger)

	// Change notifier
	hub := notify.NewHub(notify.DefaultBufferSize, m, logger)
	defer hub.Close()

	services := serviceDrive.SetupServices(serviceDrive.Deps{
		Folders:    stores.Folders,
		Files:      stores.Files,
		Versions:   stores.Versions,
		Access:     stores.Access,
		TxManager:  stores.TxManager,
		Authorizer: authorizer,
		Blobs:      blobs,
		Activity:   activity.NewRecorder(stores.Activity, logger),
		Notifier:   hub,
		Metrics:    m,
		Logger:     logger,
		Retention:  cfg.TrashRetention,
	}, stores.Activity)

	logger.Info("services initialized", "tree_store", stores.Backend)

	// Scheduled purge
	if cfg.PurgeEnabled {
		scheduler := jobs.NewPurgeScheduler(services.Trash, cfg.PurgeInterval, m, logger)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	origins := strings.Split(cfg.CORSOrigins, ",")
	wsConfig := notify.DefaultWebSocketConfig()
	wsConfig.CheckOrigin = cors.New(cors.Options{AllowedOrigins: origins}).OriginAllowed

	handlers := handler.Handlers{
		Folders:  handler.NewFolderHandler(services.Folders, logger),
		Files:    handler.NewFileHandler(services.Files, cfg.MaxUploadBytes, logger),
		FolderOp: handler.NewItemHandler(models.ItemTypeFolder, services.Mover, services.Trash, nil, logger),
		FileOp:   handler.NewItemHandler(models.ItemTypeFile, services.Mover, services.Trash, services.Versions, logger),
		Versions: handler.NewVersionHandler(services.Versions, cfg.MaxUploadBytes, logger),
		Access:   handler.NewAccessHandler(services.Access, logger),
		Events: handler.NewEventsHandler(hub, notify.NewRoomGate(authorizer),
			notify.NewWebSocketTransport(wsConfig, logger), sse.DefaultConfig(), logger),
	}

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handlers,
		middleware.AuthMiddleware(verifier, cfg.DevAuthUser, logger),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)

	// Order: CORS → Recovery → Metrics → Routes (auth is per route)
	var h http.Handler = mux
	h = middleware.Metrics(m)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - Must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID", middleware.DevUserHeader},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  5 * time.Minute, // large uploads
		WriteTimeout: 0,               // Disabled to allow long-lived SSE and websocket streams
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	// closing the hub first ends open streams so Shutdown does not wait on them
	hub.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
