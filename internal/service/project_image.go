package service

import (
	"context"
	"errors"
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

// projectImageService implements the ProjectImageService interface
type projectImageService struct {
	projectRepo repositories.ProjectRepository
	imageRepo   repositories.ProjectImageRepository
	ordering    services.OrderingService
	uploader    *ImageUploader
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewProjectImageService creates a new project image service
func NewProjectImageService(
	projectRepo repositories.ProjectRepository,
	imageRepo repositories.ProjectImageRepository,
	ordering services.OrderingService,
	uploader *ImageUploader,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ProjectImageService {
	return &projectImageService{
		projectRepo: projectRepo,
		imageRepo:   imageRepo,
		ordering:    ordering,
		uploader:    uploader,
		txManager:   txManager,
		logger:      logger,
	}
}

// CreateImage uploads the file and appends the image to its project.
// Nothing is inserted when the upload fails.
func (s *projectImageService) CreateImage(ctx context.Context, req *services.CreateProjectImageRequest) (*models.ProjectImage, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxTitleLength),
			validation.By(notBlank),
		),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "project not found")
		}
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, ProjectImagePrefix, req.File)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	image := &models.ProjectImage{
		ProjectID:    req.ProjectID,
		Title:        strings.TrimSpace(req.Title),
		Description:  normalizeText(req.Description),
		ImageURL:     url,
		ImageBlobURL: url,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		order, err := s.ordering.NextOrder(txCtx, models.ScopeProjectImages, &req.ProjectID)
		if err != nil {
			return err
		}
		image.DisplayOrder = order
		return s.imageRepo.Create(txCtx, image)
	})
	if err != nil {
		s.logger.Warn("image row not created after upload", "url", url, "error", err)
		return nil, err
	}

	s.logger.Info("image created",
		"id", image.ID,
		"project_id", image.ProjectID,
		"display_order", image.DisplayOrder,
	)

	return image, nil
}

// GetImage retrieves an image by ID
func (s *projectImageService) GetImage(ctx context.Context, id int64) (*models.ProjectImage, error) {
	return s.imageRepo.GetByID(ctx, id)
}

// ListImages lists one project's images, or all images when projectID is nil
func (s *projectImageService) ListImages(ctx context.Context, projectID *int64) ([]models.ProjectImage, error) {
	if projectID == nil {
		return s.imageRepo.ListAll(ctx)
	}

	if _, err := s.projectRepo.GetByID(ctx, *projectID); err != nil {
		return nil, err
	}
	return s.imageRepo.ListByProject(ctx, *projectID)
}

// UpdateImage applies a partial update, replacing the file when one is given
func (s *projectImageService) UpdateImage(ctx context.Context, id int64, req *services.UpdateProjectImageRequest) (*models.ProjectImage, error) {
	err := validation.Errors{
		"title": validation.Validate(req.Title,
			validation.NilOrNotEmpty,
			validation.Length(1, config.MaxTitleLength),
			validation.By(notBlank),
		),
		"description": validation.Validate(req.Description.Value, validation.Length(0, config.MaxDescriptionLength)),
	}.Filter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.File != nil {
		url, err := s.uploader.Upload(ctx, ProjectImagePrefix, req.File)
		if err != nil {
			return nil, err
		}
		image.ImageURL = url
		image.ImageBlobURL = url
	}

	if req.Title != nil {
		image.Title = strings.TrimSpace(*req.Title)
	}
	image.Description = normalizeText(req.Description.Apply(image.Description))
	image.UpdatedAt = time.Now()

	if err := s.imageRepo.Update(ctx, image); err != nil {
		return nil, err
	}

	s.logger.Info("image updated",
		"id", image.ID,
		"project_id", image.ProjectID,
		"replaced_file", req.File != nil,
	)

	return image, nil
}

// DeleteImage deletes an image; homepage slots pointing at it are cleared
func (s *projectImageService) DeleteImage(ctx context.Context, id int64) error {
	if err := s.imageRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("image deleted", "id", id)
	return nil
}

// MoveImage swaps the image with its neighbor in the same project
func (s *projectImageService) MoveImage(ctx context.Context, id int64, dir models.Direction) (*models.SwapResult, error) {
	return s.ordering.MoveOneStep(ctx, models.ScopeProjectImages, id, dir)
}
