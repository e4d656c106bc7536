package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"atelier/internal/cache"
	"atelier/internal/domain"
	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
)

const (
	homePageKey   = "home"
	featuredCount = 3
)

// homepageService implements the HomepageService interface
type homepageService struct {
	homepageRepo repositories.HomepageRepository
	projectRepo  repositories.ProjectRepository
	imageRepo    repositories.ProjectImageRepository
	site         services.SiteProvider
	pages        *cache.TTL[string, *models.HomePage]
	txManager    repositories.TransactionManager
	logger       *slog.Logger
}

// NewHomepageService creates a new homepage service.
// pages may be nil, in which case every GetHomePage reads the database.
func NewHomepageService(
	homepageRepo repositories.HomepageRepository,
	projectRepo repositories.ProjectRepository,
	imageRepo repositories.ProjectImageRepository,
	site services.SiteProvider,
	pages *cache.TTL[string, *models.HomePage],
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.HomepageService {
	return &homepageService{
		homepageRepo: homepageRepo,
		projectRepo:  projectRepo,
		imageRepo:    imageRepo,
		site:         site,
		pages:        pages,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetSettings returns the singleton with both slots resolved
func (s *homepageService) GetSettings(ctx context.Context) (*models.HomepageSettings, error) {
	settings, err := s.homepageRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &models.HomepageSettings{ID: models.HomepageSettingsID}
	}

	if err := s.resolve(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// SetImage points slot at imageID. The image must exist; nil clears the slot.
func (s *homepageService) SetImage(ctx context.Context, slot models.HomepageSlot, imageID *int64) (*models.HomepageSettings, error) {
	if slot != models.SlotHero && slot != models.SlotAbout {
		return nil, fmt.Errorf("%w: unknown homepage slot %q", domain.ErrValidation, slot)
	}

	var settings *models.HomepageSettings
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if imageID != nil {
			if _, err := s.imageRepo.GetByID(txCtx, *imageID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return domain.Errorf(domain.ErrNotFound, "image not found")
				}
				return err
			}
		}

		var err error
		settings, err = s.homepageRepo.SetImage(txCtx, slot, imageID)
		if err != nil {
			return err
		}
		return s.resolve(txCtx, settings)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("homepage image set",
		"slot", slot,
		"image_id", derefID(imageID),
	)

	return settings, nil
}

// GetHomePage assembles the public home page, served from cache when warm
func (s *homepageService) GetHomePage(ctx context.Context) (*models.HomePage, error) {
	if page, ok := s.pages.Get(homePageKey); ok {
		return page, nil
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	projects, err := listProjectsWithImages(ctx, s.projectRepo, s.imageRepo)
	if err != nil {
		return nil, err
	}

	page := &models.HomePage{
		Settings:   settings,
		HeroImage:  settings.HeroImage,
		AboutImage: settings.AboutImage,
		Featured:   projects[:min(featuredCount, len(projects))],
		Projects:   projects,
	}
	if s.site != nil {
		page.Site = s.site.Info()
	}

	hero, about := fallbackImages(projects)
	if page.HeroImage == nil {
		page.HeroImage = hero
	}
	if page.AboutImage == nil {
		page.AboutImage = about
	}

	s.pages.Add(homePageKey, page)
	return page, nil
}

// resolve loads the image rows referenced by settings.
// A reference that vanished between reads resolves to nil.
func (s *homepageService) resolve(ctx context.Context, settings *models.HomepageSettings) error {
	load := func(id *int64) (*models.ProjectImage, error) {
		if id == nil {
			return nil, nil
		}
		img, err := s.imageRepo.GetByID(ctx, *id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return img, err
	}

	var err error
	if settings.HeroImage, err = load(settings.HeroImageID); err != nil {
		return err
	}
	if settings.AboutImage, err = load(settings.AboutImageID); err != nil {
		return err
	}
	return nil
}

// fallbackImages picks the first image of the first and second projects that have images.
func fallbackImages(projects []models.Project) (hero, about *models.ProjectImage) {
	for i := range projects {
		if len(projects[i].Images) == 0 {
			continue
		}
		img := &projects[i].Images[0]
		if hero == nil {
			hero = img
			continue
		}
		about = img
		break
	}
	return hero, about
}

func derefID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
