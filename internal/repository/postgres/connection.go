package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Prefix           string
	Projects         string
	ProjectImages    string
	HomepageSettings string
	Messages         string
	Categories       string
	PortfolioItems   string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Prefix:           prefix,
		Projects:         prefix + "projects",
		ProjectImages:    prefix + "project_images",
		HomepageSettings: prefix + "homepage_settings",
		Messages:         prefix + "messages",
		Categories:       prefix + "categories",
		PortfolioItems:   prefix + "portfolio_items",
	}
}

// orderable describes where a scope's display_order lives.
// scopeColumn is empty for unscoped tables.
type orderable struct {
	table       string
	scopeColumn string
}

// orderable resolves an ordering scope to its table and scope column.
func (t *TableNames) orderable(scope models.OrderScope) (orderable, error) {
	switch scope {
	case models.ScopeProjects:
		return orderable{table: t.Projects}, nil
	case models.ScopeProjectImages:
		return orderable{table: t.ProjectImages, scopeColumn: "project_id"}, nil
	case models.ScopePortfolioItems:
		return orderable{table: t.PortfolioItems}, nil
	}
	return orderable{}, fmt.Errorf("unknown order scope %q", scope)
}

// CreateConnectionPool creates a new pgx connection pool with automatic PgBouncer compatibility.
//
// PgBouncer in transaction pooling mode (port 6543 on Supabase and most managed
// poolers) does not support prepared statements. When that port is detected and
// the connection string did not pick a mode, QueryExecModeCacheDescribe is used:
// it keeps the extended protocol but caches descriptions instead of statements.
//
// Table names are interpolated with fmt.Sprintf before the SQL reaches the
// database, so each prefix gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	// Configure pool size
	config.MaxConns = 10
	config.MinConns = 2

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none.
// Repositories use it so they join a transaction whenever a service opened one.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
