package repositories

import (
	"context"

	"atelier/internal/domain/models"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create inserts a project; DisplayOrder must already be set.
	// Fills in ID and timestamps.
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id int64) (*models.Project, error)

	// List retrieves all projects ordered by display_order, id
	List(ctx context.Context) ([]models.Project, error)

	// Update writes name, description, location and updated_at
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project. Its images are removed by cascade.
	Delete(ctx context.Context, id int64) error
}

// ProjectImageRepository defines data access operations for project images
type ProjectImageRepository interface {
	// Create inserts an image; DisplayOrder must already be set.
	Create(ctx context.Context, image *models.ProjectImage) error

	// GetByID retrieves an image by ID
	GetByID(ctx context.Context, id int64) (*models.ProjectImage, error)

	// ListByProject retrieves one project's images ordered by display_order, id
	ListByProject(ctx context.Context, projectID int64) ([]models.ProjectImage, error)

	// ListAll retrieves every image ordered by project_id, display_order, id
	ListAll(ctx context.Context) ([]models.ProjectImage, error)

	// Update writes title, description, both URLs and updated_at
	Update(ctx context.Context, image *models.ProjectImage) error

	// Delete deletes an image. Homepage references are nulled by the store.
	Delete(ctx context.Context, id int64) error
}
