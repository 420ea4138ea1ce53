package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"orgvault/internal/auth"
	"orgvault/internal/config"
	"orgvault/internal/handler"
	"orgvault/internal/middleware"
	"orgvault/internal/rbac"
	"orgvault/internal/repository/postgres"
	"orgvault/internal/service/directory"
	servicevfs "orgvault/internal/service/vfs"
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

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier
	verifier, err := auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer verifier.Close()

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
	orgDirectory := postgres.NewOrgDirectory(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Load role registry
	roles, err := rbac.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load role registry: %v", err)
	}
	logger.Info("role registry initialized")

	// Create services
	parentContext := servicevfs.NewParentContextResolver(orgDirectory, folderRepo, roles, logger)
	nodeService := servicevfs.NewNodeService(orgDirectory, folderRepo, fileRepo, roles, logger)
	folderService := servicevfs.NewFolderService(folderRepo, fileRepo, parentContext, txManager, roles, logger)
	directoryService := directory.NewService(orgDirectory, txManager, roles, logger)

	// Create handlers
	nodeHandler := handler.NewNodeHandler(nodeService, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	directoryHandler := handler.NewDirectoryHandler(directoryService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", nodeHandler.HealthCheck)

	// Navigation routes. The literal /roots route is registered ahead of
	// the {id} routes so "roots" never dispatches as a node identifier.
	mux.HandleFunc("GET /api/nodes/roots", nodeHandler.ListRoots)
	mux.HandleFunc("GET /api/nodes/{id}", nodeHandler.GetNode)
	mux.HandleFunc("GET /api/nodes/{id}/children", nodeHandler.ListChildren)
	mux.HandleFunc("GET /api/nodes/{id}/path", nodeHandler.GetPath)

	// Folder mutation routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("DELETE /api/files/{id}", folderHandler.DeleteFile)

	// Organization directory routes
	mux.HandleFunc("POST /api/holdings", directoryHandler.CreateHolding)
	mux.HandleFunc("GET /api/holdings", directoryHandler.ListHoldings)
	mux.HandleFunc("GET /api/holdings/{id}", directoryHandler.GetHolding)
	mux.HandleFunc("PATCH /api/holdings/{id}", directoryHandler.UpdateHolding)
	mux.HandleFunc("DELETE /api/holdings/{id}", directoryHandler.DeleteHolding)
	mux.HandleFunc("GET /api/holdings/{id}/companies", directoryHandler.ListCompanies)

	mux.HandleFunc("POST /api/companies", directoryHandler.CreateCompany)
	mux.HandleFunc("GET /api/companies/{id}", directoryHandler.GetCompany)
	mux.HandleFunc("PATCH /api/companies/{id}", directoryHandler.UpdateCompany)
	mux.HandleFunc("DELETE /api/companies/{id}", directoryHandler.DeleteCompany)
	mux.HandleFunc("GET /api/companies/{id}/departments", directoryHandler.ListDepartments)

	mux.HandleFunc("POST /api/departments", directoryHandler.CreateDepartment)
	mux.HandleFunc("GET /api/departments/{id}", directoryHandler.GetDepartment)
	mux.HandleFunc("PATCH /api/departments/{id}", directoryHandler.UpdateDepartment)
	mux.HandleFunc("DELETE /api/departments/{id}", directoryHandler.DeleteDepartment)

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS -> Recovery -> Auth -> Routes
	h = middleware.AuthMiddleware(verifier)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}
