package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"orgvault/internal/config"
	"orgvault/internal/repository/postgres"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed the demo hierarchy")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

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
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	log.Println("🏢 Seeding demo organization...")
	if err := seedDemoOrg(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to seed demo organization: %v", err)
	}
	log.Println("✅ Seeding complete")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	createHoldings := `
		CREATE TABLE IF NOT EXISTS ` + tables.Holdings + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name TEXT NOT NULL,
			description TEXT,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createHoldings); err != nil {
		return err
	}

	createCompanies := `
		CREATE TABLE IF NOT EXISTS ` + tables.Companies + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			holding_id UUID NOT NULL REFERENCES ` + tables.Holdings + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createCompanies); err != nil {
		return err
	}

	createDepartments := `
		CREATE TABLE IF NOT EXISTS ` + tables.Departments + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			company_id UUID NOT NULL REFERENCES ` + tables.Companies + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			manager_id UUID,
			is_deleted BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createDepartments); err != nil {
		return err
	}

	// Context columns are TEXT, not UUID: an empty string means the folder
	// is not scoped at that level, and UUID columns cannot hold it.
	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			parent_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE RESTRICT,
			name TEXT NOT NULL,
			holding_id TEXT NOT NULL DEFAULT '',
			company_id TEXT NOT NULL DEFAULT '',
			department_id TEXT NOT NULL DEFAULT '',
			created_by TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	createFiles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE RESTRICT,
			filename TEXT NOT NULL,
			holding_id TEXT NOT NULL DEFAULT '',
			company_id TEXT NOT NULL DEFAULT '',
			department_id TEXT NOT NULL DEFAULT '',
			size_bytes BIGINT NOT NULL DEFAULT 0,
			content_type TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFiles); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `companies_holding ON ` + tables.Companies + `(holding_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `departments_company ON ` + tables.Departments + `(company_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_parent ON ` + tables.Folders + `(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_department_root ON ` + tables.Folders + `(department_id) WHERE parent_id IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_folder ON ` + tables.Files + `(folder_id)`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Files,
		tables.Folders,
		tables.Departments,
		tables.Companies,
		tables.Holdings,
	}
	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}
	return nil
}

// seedDemoOrg inserts a small holding > company > department hierarchy with a
// few folders, enough to browse end to end against a fresh database.
func seedDemoOrg(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	now := time.Now().UTC()

	holdingID := uuid.NewString()
	if _, err := pool.Exec(ctx,
		`INSERT INTO `+tables.Holdings+` (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)`,
		holdingID, "Aurora Group", "Demo holding", now,
	); err != nil {
		return err
	}

	companyID := uuid.NewString()
	if _, err := pool.Exec(ctx,
		`INSERT INTO `+tables.Companies+` (id, holding_id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $5)`,
		companyID, holdingID, "Aurora Logistics", "Demo company", now,
	); err != nil {
		return err
	}

	departmentID := uuid.NewString()
	if _, err := pool.Exec(ctx,
		`INSERT INTO `+tables.Departments+` (id, company_id, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)`,
		departmentID, companyID, "Finance", now,
	); err != nil {
		return err
	}

	seedUser := uuid.NewString()

	reportsID := uuid.NewString()
	if _, err := pool.Exec(ctx,
		`INSERT INTO `+tables.Folders+` (id, parent_id, name, holding_id, company_id, department_id, created_by, created_at, updated_at)
		 VALUES ($1, NULL, $2, $3, $4, $5, $6, $7, $7)`,
		reportsID, "Reports", holdingID, companyID, departmentID, seedUser, now,
	); err != nil {
		return err
	}

	for _, name := range []string{"Q1", "Q2"} {
		if _, err := pool.Exec(ctx,
			`INSERT INTO `+tables.Folders+` (id, parent_id, name, holding_id, company_id, department_id, created_by, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
			uuid.NewString(), reportsID, name, holdingID, companyID, departmentID, seedUser, now,
		); err != nil {
			return err
		}
	}

	log.Printf("  ✓ Seeded holding %s > company %s > department %s", holdingID, companyID, departmentID)
	return nil
}
