package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"docvault/internal/config"
	models "docvault/internal/domain/models/docsystem"
	"docvault/internal/repository/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed sample data")
	ownerID := flag.String("owner", "", "Owner user id for seeded data (defaults to a random UUID)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	owner := *ownerID
	if owner == "" {
		owner = uuid.NewString()
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	if err := seedSampleTree(ctx, repoConfig, owner); err != nil {
		log.Fatalf("Failed to seed sample data: %v", err)
	}
	log.Printf("✅ Seed complete (owner: %s)", owner)
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Projects + ` (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			owner_id UUID NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES ` + tables.Projects + `(id) ON DELETE CASCADE,
			parent_id UUID REFERENCES ` + tables.Folders + `(id),
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			level INTEGER NOT NULL DEFAULT 0,
			is_archived BOOLEAN NOT NULL DEFAULT FALSE,
			created_by_user_id UUID NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Documents + ` (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			owner_id UUID NOT NULL,
			project_id UUID REFERENCES ` + tables.Projects + `(id) ON DELETE SET NULL,
			folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE SET NULL,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			current_version_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Versions + ` (
			id UUID PRIMARY KEY,
			document_id UUID NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			version_number INTEGER NOT NULL,
			file_hash TEXT NOT NULL,
			file_size BIGINT NOT NULL,
			storage_key TEXT NOT NULL,
			user_id UUID NOT NULL,
			change_summary TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (document_id, version_number)
		)`,
		// Case-insensitive sibling uniqueness inside one parent
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tables.Folders + `_sibling_name
			ON ` + tables.Folders + ` (project_id, COALESCE(parent_id, '00000000-0000-0000-0000-000000000000'::uuid), LOWER(name))`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Folders + `_project ON ` + tables.Folders + ` (project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Documents + `_project ON ` + tables.Documents + ` (project_id) WHERE is_deleted = FALSE`,
		`CREATE INDEX IF NOT EXISTS idx_` + tables.Versions + `_document ON ` + tables.Versions + ` (document_id, version_number DESC)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	for _, table := range []string{tables.Versions, tables.Documents, tables.Folders, tables.Projects} {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return err
		}
	}
	return nil
}

// seedSampleTree creates one project with a small folder hierarchy so the
// tree, stats and listing endpoints have something to show out of the box.
func seedSampleTree(ctx context.Context, repoConfig *postgres.RepositoryConfig, ownerID string) error {
	projectRepo := postgres.NewProjectRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)

	now := time.Now()
	project := &models.Project{
		ID:        uuid.NewString(),
		Name:      "Getting Started",
		OwnerID:   ownerID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := projectRepo.Create(ctx, project); err != nil {
		return err
	}
	log.Printf("📁 Created project %q (%s)", project.Name, project.ID)

	type spec struct {
		name   string
		parent string // path of parent, "" for root
	}
	specs := []spec{
		{name: "Contracts"},
		{name: "Reports"},
		{name: "2026", parent: "/Reports"},
		{name: "Drafts", parent: "/Reports/2026"},
	}

	byPath := make(map[string]*models.Folder)
	for _, sp := range specs {
		var parentID *string
		level := 0
		path := "/" + sp.name
		if sp.parent != "" {
			parent := byPath[sp.parent]
			parentID = &parent.ID
			level = parent.Level + 1
			path = parent.Path + "/" + sp.name
		}
		folder := &models.Folder{
			ID:              uuid.NewString(),
			ProjectID:       project.ID,
			ParentID:        parentID,
			Name:            sp.name,
			Path:            path,
			Level:           level,
			CreatedByUserID: ownerID,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := folderRepo.Create(ctx, folder); err != nil {
			return err
		}
		byPath[path] = folder
		log.Printf("📂 Created folder %s", strings.Repeat("  ", level)+path)
	}

	return nil
}
