package postgres

import (
	"context"
	"fmt"

	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const imageColumns = `id, project_id, title, description, image_url, image_blob_url, display_order, created_at, updated_at`

// PostgresProjectImageRepository implements the ProjectImageRepository interface
type PostgresProjectImageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewProjectImageRepository creates a new project image repository
func NewProjectImageRepository(config *RepositoryConfig) repositories.ProjectImageRepository {
	return &PostgresProjectImageRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new project image
func (r *PostgresProjectImageRepository) Create(ctx context.Context, image *models.ProjectImage) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (project_id, title, description, image_url, image_blob_url, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.ProjectImages)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		image.ProjectID,
		image.Title,
		image.Description,
		image.ImageURL,
		image.ImageBlobURL,
		image.DisplayOrder,
		image.CreatedAt,
		image.UpdatedAt,
	).Scan(&image.ID, &image.CreatedAt, &image.UpdatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("project %d: %w", image.ProjectID, domain.ErrNotFound)
		}
		return fmt.Errorf("create project image: %w", err)
	}

	return nil
}

// GetByID retrieves a project image by ID
func (r *PostgresProjectImageRepository) GetByID(ctx context.Context, id int64) (*models.ProjectImage, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, imageColumns, r.tables.ProjectImages)

	executor := GetExecutor(ctx, r.pool)
	image, err := scanImage(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("image %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get project image: %w", err)
	}

	return image, nil
}

// ListByProject retrieves one project's images ordered by display_order, id
func (r *PostgresProjectImageRepository) ListByProject(ctx context.Context, projectID int64) ([]models.ProjectImage, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1
		ORDER BY display_order, id
	`, imageColumns, r.tables.ProjectImages)

	return r.list(ctx, query, projectID)
}

// ListAll retrieves every image grouped by project
func (r *PostgresProjectImageRepository) ListAll(ctx context.Context) ([]models.ProjectImage, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY project_id, display_order, id
	`, imageColumns, r.tables.ProjectImages)

	return r.list(ctx, query)
}

func (r *PostgresProjectImageRepository) list(ctx context.Context, query string, args ...any) ([]models.ProjectImage, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list project images: %w", err)
	}
	defer rows.Close()

	images := []models.ProjectImage{}
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project image: %w", err)
		}
		images = append(images, *image)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project images: %w", err)
	}

	return images, nil
}

// Update updates an image's metadata, URLs and updated_at timestamp
func (r *PostgresProjectImageRepository) Update(ctx context.Context, image *models.ProjectImage) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, image_url = $3, image_blob_url = $4, updated_at = $5
		WHERE id = $6
	`, r.tables.ProjectImages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		image.Title,
		image.Description,
		image.ImageURL,
		image.ImageBlobURL,
		image.UpdatedAt,
		image.ID,
	)
	if err != nil {
		return fmt.Errorf("update project image: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("image %d: %w", image.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes an image; homepage slots pointing at it are set to NULL by the FK
func (r *PostgresProjectImageRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.ProjectImages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete project image: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("image %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanImage(row pgx.Row) (*models.ProjectImage, error) {
	var img models.ProjectImage
	err := row.Scan(
		&img.ID,
		&img.ProjectID,
		&img.Title,
		&img.Description,
		&img.ImageURL,
		&img.ImageBlobURL,
		&img.DisplayOrder,
		&img.CreatedAt,
		&img.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &img, nil
}
