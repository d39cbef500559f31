package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"docvault/internal/auth"
	"docvault/internal/config"
	"docvault/internal/handler"
	"docvault/internal/middleware"
	"docvault/internal/notify"
	"docvault/internal/repository/postgres"
	"docvault/internal/service/docsystem"
	"docvault/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, 10)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// JWT verifier against the identity collaborator's JWKS endpoint
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	projectRepo := postgres.NewProjectRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	versionRepo := postgres.NewVersionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Blob storage with upload policy
	policy := config.DefaultStoragePolicy()
	if cfg.StoragePolicyFile != "" {
		policy, err = config.LoadStoragePolicy(cfg.StoragePolicyFile)
		if err != nil {
			log.Fatalf("Failed to load storage policy: %v", err)
		}
	}
	gateway, err := storage.NewLocalGateway(cfg.BlobRootDir, policy, logger)
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}
	logger.Info("blob storage ready", "root", cfg.BlobRootDir, "max_file_size", policy.MaxFileSizeBytes)

	// AI collaborator webhook; disabled when no URL is configured
	notifier := notify.NewNoopNotifier()
	if cfg.AINotifyURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.AINotifyURL, logger)
		logger.Info("document notifier enabled", "url", cfg.AINotifyURL)
	}

	// Create services
	authorizer := docsystem.NewOwnershipAuthorizer(projectRepo, folderRepo, docRepo)
	validator := docsystem.NewResourceValidator(projectRepo, folderRepo)
	projectService := docsystem.NewProjectService(projectRepo, authorizer, logger)
	folderService := docsystem.NewFolderService(folderRepo, docRepo, txManager, validator, authorizer, logger)
	documentService := docsystem.NewDocumentService(docRepo, versionRepo, folderRepo, txManager, gateway, validator, authorizer, notifier, logger)
	statsService := docsystem.NewStatsService(folderRepo, docRepo, versionRepo, authorizer, logger)
	bulkService := docsystem.NewBulkService(documentService, docRepo, logger)
	lifecycleService := docsystem.NewLifecycleService(projectRepo, folderRepo, docRepo, txManager, authorizer, logger)
	treeService := docsystem.NewTreeService(folderRepo, docRepo, authorizer, logger)

	logger.Info("services initialized")

	// Create handlers and routes (Go 1.22+ method patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux,
		handler.NewProjectHandler(projectService, lifecycleService, logger),
		handler.NewFolderHandler(folderService, lifecycleService, statsService, logger),
		handler.NewDocumentHandler(documentService, logger),
		handler.NewBulkHandler(bulkService, logger),
		handler.NewTreeHandler(treeService, logger),
	)

	root := buildHandler(mux, jwtVerifier, logger, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // long enough for large version downloads
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildHandler assembles the middleware chain around the API routes.
// Outermost first: CORS, Recovery, then Auth around the API mux only. The
// health endpoint sits outside Auth so load balancer probes need no token.
func buildHandler(apiMux *http.ServeMux, verifier auth.JWTVerifier, logger *slog.Logger, corsOrigins string) http.Handler {
	outer := http.NewServeMux()
	outer.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	outer.Handle("/", middleware.Auth(verifier, logger)(apiMux))

	var root http.Handler = middleware.Recovery(logger)(outer)

	// CORS - must be outermost so OPTIONS pre-flight requests skip auth
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(corsOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	return corsHandler.Handler(root)
}
