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

// portfolioService implements the PortfolioService interface
type portfolioService struct {
	categoryRepo repositories.CategoryRepository
	itemRepo     repositories.PortfolioItemRepository
	ordering     services.OrderingService
	uploader     *ImageUploader
	txManager    repositories.TransactionManager
	logger       *slog.Logger
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(
	categoryRepo repositories.CategoryRepository,
	itemRepo repositories.PortfolioItemRepository,
	ordering services.OrderingService,
	uploader *ImageUploader,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.PortfolioService {
	return &portfolioService{
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
		ordering:     ordering,
		uploader:     uploader,
		txManager:    txManager,
		logger:       logger,
	}
}

// ListCategories lists categories by name
func (s *portfolioService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// CreateCategory creates a category; duplicate names conflict
func (s *portfolioService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	err := validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxCategoryNameLength),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: name: %v", domain.ErrValidation, err)
	}

	category := &models.Category{Name: name, CreatedAt: time.Now()}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info("category created", "id", category.ID, "name", category.Name)
	return category, nil
}

// DeleteCategory deletes a category; its items become uncategorized
func (s *portfolioService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("category deleted", "id", id)
	return nil
}

// ListItems lists items in display order, optionally filtered by category
func (s *portfolioService) ListItems(ctx context.Context, categoryID *int64) ([]models.PortfolioItem, error) {
	return s.itemRepo.List(ctx, categoryID)
}

// GetItem retrieves an item by ID
func (s *portfolioService) GetItem(ctx context.Context, id int64) (*models.PortfolioItem, error) {
	return s.itemRepo.GetByID(ctx, id)
}

// CreateItem uploads the file and appends the item to the gallery
func (s *portfolioService) CreateItem(ctx context.Context, req *services.CreatePortfolioItemRequest) (*models.PortfolioItem, error) {
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

	category, err := s.checkCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	url, err := s.uploader.Upload(ctx, PortfolioItemPrefix, req.File)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := &models.PortfolioItem{
		Title:        strings.TrimSpace(req.Title),
		Description:  normalizeText(req.Description),
		CategoryID:   req.CategoryID,
		Category:     category,
		ImageURL:     url,
		ImageBlobURL: url,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		order, err := s.ordering.NextOrder(txCtx, models.ScopePortfolioItems, nil)
		if err != nil {
			return err
		}
		item.DisplayOrder = order
		return s.itemRepo.Create(txCtx, item)
	})
	if err != nil {
		s.logger.Warn("portfolio row not created after upload", "url", url, "error", err)
		return nil, err
	}

	s.logger.Info("portfolio item created",
		"id", item.ID,
		"category_id", derefID(item.CategoryID),
		"display_order", item.DisplayOrder,
	)

	return item, nil
}

// UpdateItem applies a partial update, replacing the file when one is given
func (s *portfolioService) UpdateItem(ctx context.Context, id int64, req *services.UpdatePortfolioItemRequest) (*models.PortfolioItem, error) {
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

	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var category *models.Category
	if !req.ClearCategory {
		if category, err = s.checkCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}

	if req.File != nil {
		url, err := s.uploader.Upload(ctx, PortfolioItemPrefix, req.File)
		if err != nil {
			return nil, err
		}
		item.ImageURL = url
		item.ImageBlobURL = url
	}

	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	item.Description = normalizeText(req.Description.Apply(item.Description))
	switch {
	case req.ClearCategory:
		item.CategoryID = nil
		item.Category = nil
	case req.CategoryID != nil:
		item.CategoryID = req.CategoryID
		item.Category = category
	}
	item.UpdatedAt = time.Now()

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("portfolio item updated", "id", item.ID)
	return item, nil
}

// DeleteItem deletes a portfolio item
func (s *portfolioService) DeleteItem(ctx context.Context, id int64) error {
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("portfolio item deleted", "id", id)
	return nil
}

// MoveItem swaps the item with its neighbor in the gallery
func (s *portfolioService) MoveItem(ctx context.Context, id int64, dir models.Direction) (*models.SwapResult, error) {
	return s.ordering.MoveOneStep(ctx, models.ScopePortfolioItems, id, dir)
}

// checkCategory loads the category an item is being filed under; nil id means none
func (s *portfolioService) checkCategory(ctx context.Context, id *int64) (*models.Category, error) {
	if id == nil {
		return nil, nil
	}
	category, err := s.categoryRepo.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Errorf(domain.ErrNotFound, "category not found")
		}
		return nil, err
	}
	return category, nil
}
