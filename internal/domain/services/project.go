package services

import (
	"context"

	"atelier/internal/domain/models"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
}

// UpdateProjectRequest represents a partial project update
type UpdateProjectRequest struct {
	Name        *string
	Description OptionalText
	Location    OptionalText
}

// ProjectService defines business logic operations for projects
type ProjectService interface {
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)

	// GetProjectWithImages retrieves a project with its ordered images
	GetProjectWithImages(ctx context.Context, id int64) (*models.Project, error)

	// ListProjects retrieves all projects in display order
	ListProjects(ctx context.Context) ([]models.Project, error)

	// ListProjectsWithImages retrieves all projects, each with its ordered images
	ListProjectsWithImages(ctx context.Context) ([]models.Project, error)

	UpdateProject(ctx context.Context, id int64, req *UpdateProjectRequest) (*models.Project, error)

	// DeleteProject deletes a project and, by cascade, its images
	DeleteProject(ctx context.Context, id int64) error

	// MoveProject swaps the project with its neighbor in direction
	MoveProject(ctx context.Context, id int64, dir models.Direction) (*models.SwapResult, error)
}

// CreateProjectImageRequest represents a request to add an image to a project
type CreateProjectImageRequest struct {
	ProjectID   int64
	Title       string
	Description *string
	File        *UploadedFile
}

// UpdateProjectImageRequest represents a partial image update.
// A non-nil File replaces the stored image.
type UpdateProjectImageRequest struct {
	Title       *string
	Description OptionalText
	File        *UploadedFile
}

// ProjectImageService defines business logic operations for project images
type ProjectImageService interface {
	CreateImage(ctx context.Context, req *CreateProjectImageRequest) (*models.ProjectImage, error)
	GetImage(ctx context.Context, id int64) (*models.ProjectImage, error)

	// ListImages lists one project's images, or every image when projectID is nil
	ListImages(ctx context.Context, projectID *int64) ([]models.ProjectImage, error)

	UpdateImage(ctx context.Context, id int64, req *UpdateProjectImageRequest) (*models.ProjectImage, error)
	DeleteImage(ctx context.Context, id int64) error
	MoveImage(ctx context.Context, id int64, dir models.Direction) (*models.SwapResult, error)
}
