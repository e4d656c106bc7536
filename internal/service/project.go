package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"atelier/internal/config"
	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo repositories.ProjectRepository
	imageRepo   repositories.ProjectImageRepository
	ordering    services.OrderingService
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	imageRepo repositories.ProjectImageRepository,
	ordering services.OrderingService,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		imageRepo:   imageRepo,
		ordering:    ordering,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateProject appends a new project to the end of the list
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := time.Now()
	project := &models.Project{
		Name:        strings.TrimSpace(req.Name),
		Description: normalizeText(req.Description),
		Location:    normalizeText(req.Location),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		order, err := s.ordering.NextOrder(txCtx, models.ScopeProjects, nil)
		if err != nil {
			return err
		}
		project.DisplayOrder = order
		return s.projectRepo.Create(txCtx, project)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"display_order", project.DisplayOrder,
	)

	return project, nil
}

// GetProject retrieves a project by ID
func (s *projectService) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// GetProjectWithImages retrieves a project with its images in display order
func (s *projectService) GetProjectWithImages(ctx context.Context, id int64) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	images, err := s.imageRepo.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Images = images

	return project, nil
}

// ListProjects retrieves all projects in display order
func (s *projectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.projectRepo.List(ctx)
}

// ListProjectsWithImages retrieves all projects with their images attached
func (s *projectService) ListProjectsWithImages(ctx context.Context) ([]models.Project, error) {
	return listProjectsWithImages(ctx, s.projectRepo, s.imageRepo)
}

// UpdateProject applies a partial update
func (s *projectService) UpdateProject(ctx context.Context, id int64, req *services.UpdateProjectRequest) (*models.Project, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = strings.TrimSpace(*req.Name)
	}
	project.Description = normalizeText(req.Description.Apply(project.Description))
	project.Location = normalizeText(req.Location.Apply(project.Location))
	project.UpdatedAt = time.Now()

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project updated",
		"id", project.ID,
		"name", project.Name,
	)

	return project, nil
}

// DeleteProject deletes a project; its images go with it
func (s *projectService) DeleteProject(ctx context.Context, id int64) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("project deleted", "id", id)
	return nil
}

// MoveProject swaps the project with its neighbor
func (s *projectService) MoveProject(ctx context.Context, id int64, dir models.Direction) (*models.SwapResult, error) {
	return s.ordering.MoveOneStep(ctx, models.ScopeProjects, id, dir)
}

// validateCreateRequest validates a create project request
func (s *projectService) validateCreateRequest(req *services.CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxProjectNameLength),
			validation.By(notBlank),
		),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.Location, validation.Length(0, config.MaxLocationLength)),
	)
}

// validateUpdateRequest validates an update project request
func (s *projectService) validateUpdateRequest(req *services.UpdateProjectRequest) error {
	return validation.Errors{
		"name": validation.Validate(req.Name,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxProjectNameLength),
			validation.By(notBlank),
		),
		"description": validation.Validate(req.Description.Value, validation.Length(0, config.MaxDescriptionLength)),
		"location":    validation.Validate(req.Location.Value, validation.Length(0, config.MaxLocationLength)),
	}.Filter()
}

// listProjectsWithImages loads every project and attaches its images in display order.
// Two queries instead of one per project.
func listProjectsWithImages(
	ctx context.Context,
	projectRepo repositories.ProjectRepository,
	imageRepo repositories.ProjectImageRepository,
) ([]models.Project, error) {
	projects, err := projectRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	images, err := imageRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byProject := make(map[int64][]models.ProjectImage, len(projects))
	for _, img := range images {
		byProject[img.ProjectID] = append(byProject[img.ProjectID], img)
	}

	for i := range projects {
		projects[i].Images = byProject[projects[i].ID]
		if projects[i].Images == nil {
			projects[i].Images = []models.ProjectImage{}
		}
	}

	return projects, nil
}

// notBlank rejects strings that are empty after trimming.
// Nil pointers pass; combine with Required where presence matters.
func notBlank(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case *string:
		if v == nil {
			return nil
		}
		s = *v
	default:
		return fmt.Errorf("must be a string")
	}

	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be blank")
	}
	return nil
}

// normalizeText trims optional text and maps blank to NULL.
func normalizeText(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
