package postgres

import (
	"context"
	"fmt"
	"time"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCategoryRepository implements the CategoryRepository interface
type PostgresCategoryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(config *RepositoryConfig) repositories.CategoryRepository {
	return &PostgresCategoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new category
func (r *PostgresCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, created_at)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, r.tables.Categories)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, category.Name, category.CreatedAt).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		if IsPgDuplicateError(err) {
			existingID, queryErr := r.getIDByName(ctx, category.Name)
			if queryErr != nil {
				// Fallback to generic conflict error if we can't find the existing category
				return fmt.Errorf("category '%s' already exists: %w", category.Name, domain.ErrConflict)
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("category '%s' already exists", category.Name),
				ResourceType: "category",
				ResourceID:   existingID,
			}
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *PostgresCategoryRepository) getIDByName(ctx context.Context, name string) (int64, error) {
	query := fmt.Sprintf(`SELECT id FROM %s WHERE name = $1`, r.tables.Categories)

	var id int64
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID retrieves a category by ID
func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	query := fmt.Sprintf(`SELECT id, name, created_at FROM %s WHERE id = $1`, r.tables.Categories)

	var c models.Category
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &c, nil
}

// List retrieves all categories ordered by name
func (r *PostgresCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	query := fmt.Sprintf(`SELECT id, name, created_at FROM %s ORDER BY name, id`, r.tables.Categories)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// Delete deletes a category; its items keep existing with category_id NULL
func (r *PostgresCategoryRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Categories)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("category %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

// itemSelect reads items with their category joined in; "i" is the item table alias
const itemSelect = `
	SELECT i.id, i.title, i.description, i.category_id, i.image_url, i.image_blob_url,
		i.display_order, i.created_at, i.updated_at,
		c.id, c.name, c.created_at
	FROM %s i
	LEFT JOIN %s c ON c.id = i.category_id`

// PostgresPortfolioItemRepository implements the PortfolioItemRepository interface
type PostgresPortfolioItemRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewPortfolioItemRepository creates a new portfolio item repository
func NewPortfolioItemRepository(config *RepositoryConfig) repositories.PortfolioItemRepository {
	return &PostgresPortfolioItemRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new portfolio item
func (r *PostgresPortfolioItemRepository) Create(ctx context.Context, item *models.PortfolioItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, description, category_id, image_url, image_blob_url, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.PortfolioItems)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		item.Title,
		item.Description,
		item.CategoryID,
		item.ImageURL,
		item.ImageBlobURL,
		item.DisplayOrder,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("category %d: %w", derefID(item.CategoryID), domain.ErrNotFound)
		}
		return fmt.Errorf("create portfolio item: %w", err)
	}

	return nil
}

// GetByID retrieves a portfolio item by ID
func (r *PostgresPortfolioItemRepository) GetByID(ctx context.Context, id int64) (*models.PortfolioItem, error) {
	query := fmt.Sprintf(itemSelect+` WHERE i.id = $1`, r.tables.PortfolioItems, r.tables.Categories)

	executor := GetExecutor(ctx, r.pool)
	item, err := scanItem(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get portfolio item: %w", err)
	}

	return item, nil
}

// List retrieves items ordered by display_order, id, optionally within one category
func (r *PostgresPortfolioItemRepository) List(ctx context.Context, categoryID *int64) ([]models.PortfolioItem, error) {
	query := fmt.Sprintf(itemSelect+`
		WHERE ($1::BIGINT IS NULL OR i.category_id = $1)
		ORDER BY i.display_order, i.id
	`, r.tables.PortfolioItems, r.tables.Categories)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list portfolio items: %w", err)
	}
	defer rows.Close()

	items := []models.PortfolioItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan portfolio item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate portfolio items: %w", err)
	}

	return items, nil
}

// Update updates an item's metadata, category, URLs and updated_at timestamp
func (r *PostgresPortfolioItemRepository) Update(ctx context.Context, item *models.PortfolioItem) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, category_id = $3, image_url = $4, image_blob_url = $5, updated_at = $6
		WHERE id = $7
	`, r.tables.PortfolioItems)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		item.Title,
		item.Description,
		item.CategoryID,
		item.ImageURL,
		item.ImageBlobURL,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("category %d: %w", derefID(item.CategoryID), domain.ErrNotFound)
		}
		return fmt.Errorf("update portfolio item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("item %d: %w", item.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a portfolio item
func (r *PostgresPortfolioItemRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.PortfolioItems)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete portfolio item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanItem(row pgx.Row) (*models.PortfolioItem, error) {
	var (
		it        models.PortfolioItem
		catID     *int64
		catName   *string
		catCreate *time.Time
	)
	err := row.Scan(
		&it.ID,
		&it.Title,
		&it.Description,
		&it.CategoryID,
		&it.ImageURL,
		&it.ImageBlobURL,
		&it.DisplayOrder,
		&it.CreatedAt,
		&it.UpdatedAt,
		&catID,
		&catName,
		&catCreate,
	)
	if err != nil {
		return nil, err
	}
	if catID != nil && catName != nil && catCreate != nil {
		it.Category = &models.Category{ID: *catID, Name: *catName, CreatedAt: *catCreate}
	}
	return &it, nil
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
