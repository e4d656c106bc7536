package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	"atelier/internal/config"
	"atelier/internal/repository/postgres"
	"atelier/internal/seed"
	"atelier/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't insert sample data")
	clearData := flag.Bool("clear-data", false, "Delete all rows (keep schema)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	switch {
	case *clearData:
		log.Printf("Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	case *schemaOnly:
		log.Printf("Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	default:
		log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("Dropping all tables...")
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		if err := postgres.TruncateAll(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("Data cleared successfully")
		return
	}

	// Sample data is appended, so start from empty tables
	if cfg.Environment != "prod" {
		if err := postgres.TruncateAll(ctx, pool, tables); err != nil {
			log.Printf("Warning: Could not clear data: %v", err)
		}
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	txManager := postgres.NewTransactionManager(pool, logger)
	ordering := service.NewOrderingService(postgres.NewOrderingRepository(repoConfig), txManager, logger)

	seeder := seed.NewSeeder(seed.Repositories{
		Projects:   postgres.NewProjectRepository(repoConfig),
		Images:     postgres.NewProjectImageRepository(repoConfig),
		Homepage:   postgres.NewHomepageRepository(repoConfig),
		Messages:   postgres.NewMessageRepository(repoConfig),
		Categories: postgres.NewCategoryRepository(repoConfig),
		Items:      postgres.NewPortfolioItemRepository(repoConfig),
	}, ordering, txManager, strings.TrimSuffix(cfg.PublicBaseURL, "/")+"/uploads", logger)

	if err := seeder.SeedAll(ctx); err != nil {
		log.Fatalf("Failed to seed: %v", err)
	}

	log.Println("Seeding complete!")
}
