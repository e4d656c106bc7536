package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema/schema.sql
var schemaSQL string

// SchemaStatements returns the schema DDL for prefix, one statement per element.
func SchemaStatements(prefix string) []string {
	rendered := strings.ReplaceAll(schemaSQL, "{{prefix}}", prefix)

	var stmts []string
	for _, part := range strings.Split(rendered, ";") {
		lines := make([]string, 0)
		for _, line := range strings.Split(part, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "--") {
				continue
			}
			lines = append(lines, line)
		}
		stmt := strings.TrimSpace(strings.Join(lines, "\n"))
		if stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// EnsureSchema creates any missing tables and indexes. It is idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range SchemaStatements(tables.Prefix) {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// DropSchema drops every table owned by this service for the given prefix.
func DropSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	for _, table := range []string{
		tables.HomepageSettings,
		tables.ProjectImages,
		tables.Projects,
		tables.PortfolioItems,
		tables.Categories,
		tables.Messages,
	} {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

// TruncateAll deletes every row and resets the id sequences, keeping the schema.
func TruncateAll(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	stmt := fmt.Sprintf("TRUNCATE %s, %s, %s, %s, %s, %s RESTART IDENTITY CASCADE",
		tables.HomepageSettings,
		tables.ProjectImages,
		tables.Projects,
		tables.PortfolioItems,
		tables.Categories,
		tables.Messages,
	)
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}
