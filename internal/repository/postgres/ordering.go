package postgres

import (
	"context"
	"fmt"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOrderingRepository implements OrderingRepository over every orderable table.
type PostgresOrderingRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewOrderingRepository creates a new ordering repository
func NewOrderingRepository(config *RepositoryConfig) repositories.OrderingRepository {
	return &PostgresOrderingRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// positionColumns selects the scope key as NULL for unscoped tables so
// every query scans the same three columns.
func (o orderable) positionColumns() string {
	if o.scopeColumn == "" {
		return "id, display_order, NULL::BIGINT"
	}
	return "id, display_order, " + o.scopeColumn
}

// LockPosition reads id and locks its row until the transaction ends
func (r *PostgresOrderingRepository) LockPosition(ctx context.Context, scope models.OrderScope, id int64) (*models.Position, error) {
	o, err := r.tables.orderable(scope)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
		FOR UPDATE
	`, o.positionColumns(), o.table)

	var pos models.Position
	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query, id).Scan(&pos.ID, &pos.DisplayOrder, &pos.ScopeKey)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("%s %d: %w", scope.Noun(), id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lock %s position: %w", scope.Noun(), err)
	}

	return &pos, nil
}

// LockAdjacent finds the closest row to pos in direction within the same scope key.
// Comparing (display_order, id) as a tuple makes ties resolve by id.
func (r *PostgresOrderingRepository) LockAdjacent(ctx context.Context, scope models.OrderScope, pos *models.Position, dir models.Direction) (*models.Position, error) {
	o, err := r.tables.orderable(scope)
	if err != nil {
		return nil, err
	}

	args := []any{pos.DisplayOrder, pos.ID}
	if o.scopeColumn != "" {
		args = append(args, pos.ScopeKey)
	}
	query := adjacentQuery(o, dir)

	var adj models.Position
	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query, args...).Scan(&adj.ID, &adj.DisplayOrder, &adj.ScopeKey)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find adjacent %s: %w", scope.Noun(), err)
	}

	return &adj, nil
}

// adjacentQuery selects and locks the nearest row after ($1, $2) in direction.
// Scoped tables take the scope key as $3.
func adjacentQuery(o orderable, dir models.Direction) string {
	cmp, order := ">", "display_order ASC, id ASC"
	if dir == models.Backward {
		cmp, order = "<", "display_order DESC, id DESC"
	}

	filter := ""
	if o.scopeColumn != "" {
		filter = fmt.Sprintf(" AND %s = $3", o.scopeColumn)
	}

	return fmt.Sprintf(`SELECT %s FROM %s WHERE (display_order, id) %s ($1, $2)%s ORDER BY %s LIMIT 1 FOR UPDATE`,
		o.positionColumns(), o.table, cmp, filter, order)
}

// LockScope takes a transaction scoped advisory lock on the scope's table.
// Moves, appends and renumbering all take it first, so they never wait on
// each other's row locks and every read after it sees committed orders.
func (r *PostgresOrderingRepository) LockScope(ctx context.Context, scope models.OrderScope) error {
	o, err := r.tables.orderable(scope)
	if err != nil {
		return err
	}
	return r.lockTable(ctx, scope, o)
}

func (r *PostgresOrderingRepository) lockTable(ctx context.Context, scope models.OrderScope, o orderable) error {
	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, scopeLockKey(o)); err != nil {
		return fmt.Errorf("lock %s order: %w", scope.Noun(), err)
	}
	return nil
}

func scopeLockKey(o orderable) string {
	return "display_order:" + o.table
}

// SetDisplayOrder overwrites display_order only; updated_at is left alone
func (r *PostgresOrderingRepository) SetDisplayOrder(ctx context.Context, scope models.OrderScope, id int64, order int) error {
	o, err := r.tables.orderable(scope)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE %s SET display_order = $1 WHERE id = $2`, o.table)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, order, id)
	if err != nil {
		return fmt.Errorf("set %s display order: %w", scope.Noun(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", scope.Noun(), id, domain.ErrNotFound)
	}

	return nil
}

// NextDisplayOrder returns max+1 for the scope key, or 1 when it is empty.
// Inside a transaction it takes the scope lock so concurrent appends are serialized.
func (r *PostgresOrderingRepository) NextDisplayOrder(ctx context.Context, scope models.OrderScope, scopeKey *int64) (int, error) {
	o, err := r.tables.orderable(scope)
	if err != nil {
		return 0, err
	}

	if repositories.InTx(ctx) {
		if err := r.lockTable(ctx, scope, o); err != nil {
			return 0, err
		}
	}
	executor := GetExecutor(ctx, r.pool)

	var (
		query string
		args  []any
	)
	if o.scopeColumn == "" {
		query = fmt.Sprintf(`SELECT COALESCE(MAX(display_order), 0) + 1 FROM %s`, o.table)
	} else {
		query = fmt.Sprintf(`SELECT COALESCE(MAX(display_order), 0) + 1 FROM %s WHERE %s = $1`, o.table, o.scopeColumn)
		args = append(args, scopeKey)
	}

	var next int
	if err := executor.QueryRow(ctx, query, args...).Scan(&next); err != nil {
		return 0, fmt.Errorf("next %s display order: %w", scope.Noun(), err)
	}

	return next, nil
}

// ListPositions returns every row of scope grouped by scope key in display order.
// Rows stay locked until the surrounding transaction ends.
func (r *PostgresOrderingRepository) ListPositions(ctx context.Context, scope models.OrderScope) ([]models.Position, error) {
	o, err := r.tables.orderable(scope)
	if err != nil {
		return nil, err
	}

	order := "display_order, id"
	if o.scopeColumn != "" {
		order = o.scopeColumn + ", " + order
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s FOR UPDATE`, o.positionColumns(), o.table, order)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s positions: %w", scope.Noun(), err)
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		var pos models.Position
		if err := rows.Scan(&pos.ID, &pos.DisplayOrder, &pos.ScopeKey); err != nil {
			return nil, fmt.Errorf("scan %s position: %w", scope.Noun(), err)
		}
		positions = append(positions, pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s positions: %w", scope.Noun(), err)
	}

	return positions, nil
}
