// Package seed fills a development database with sample content.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"
	"atelier/internal/domain/services"
	"atelier/internal/service"
)

// Repositories groups the stores the seeder writes to
type Repositories struct {
	Projects   repositories.ProjectRepository
	Images     repositories.ProjectImageRepository
	Homepage   repositories.HomepageRepository
	Messages   repositories.MessageRepository
	Categories repositories.CategoryRepository
	Items      repositories.PortfolioItemRepository
}

// Seeder inserts sample projects, images, messages and a small gallery.
// Image rows point at placeholder URLs; nothing is uploaded.
type Seeder struct {
	repos     Repositories
	ordering  services.OrderingService
	txManager repositories.TransactionManager
	imageBase string
	logger    *slog.Logger
}

// NewSeeder creates a seeder. imageBase prefixes the placeholder image paths.
func NewSeeder(repos Repositories, ordering services.OrderingService, txManager repositories.TransactionManager, imageBase string, logger *slog.Logger) *Seeder {
	return &Seeder{
		repos:     repos,
		ordering:  ordering,
		txManager: txManager,
		imageBase: imageBase,
		logger:    logger,
	}
}

type sampleProject struct {
	name        string
	location    string
	description string
	images      []string
}

var sampleProjects = []sampleProject{
	{
		name:        "Hillside Residence",
		location:    "Portland, OR",
		description: "A full renovation of a 1960s hillside home with warm oak and plaster finishes.",
		images:      []string{"Living Room", "Kitchen", "Primary Suite"},
	},
	{
		name:        "Downtown Loft",
		location:    "Seattle, WA",
		description: "Open plan loft with custom millwork and a restrained palette.",
		images:      []string{"Great Room", "Reading Nook"},
	},
	{
		name:        "Coastal Cottage",
		location:    "Cannon Beach, OR",
		description: "Light filled weekend cottage furnished around a collection of vintage textiles.",
		images:      []string{"Sunroom"},
	},
	{
		name:     "Studio Office",
		location: "Portland, OR",
	},
}

var sampleMessages = []models.Message{
	{Name: "Jordan Lee", Email: "jordan@example.com", Message: "We just bought a house and would love help with the living areas."},
	{Name: "Sam Rivera", Email: "sam@example.com", Message: "Do you take on small kitchen refreshes?", Read: true},
}

var sampleGallery = map[string][]string{
	"Kitchens":      {"Walnut Kitchen", "White Oak Pantry"},
	"Living":        {"Plaster Fireplace", "Window Seat"},
	"Bath & Spa":    {"Terrazzo Bath"},
	"Uncategorized": {"Entry Console"},
}

// SeedAll inserts every sample set and points the homepage slots at seeded images
func (s *Seeder) SeedAll(ctx context.Context) error {
	images, err := s.SeedProjects(ctx)
	if err != nil {
		return err
	}

	if len(images) >= 2 {
		if _, err := s.repos.Homepage.SetImage(ctx, models.SlotHero, &images[0].ID); err != nil {
			return fmt.Errorf("set hero image: %w", err)
		}
		if _, err := s.repos.Homepage.SetImage(ctx, models.SlotAbout, &images[len(images)-1].ID); err != nil {
			return fmt.Errorf("set about image: %w", err)
		}
	}

	if err := s.SeedMessages(ctx); err != nil {
		return err
	}
	return s.SeedGallery(ctx)
}

// SeedProjects appends the sample projects and their images in order
func (s *Seeder) SeedProjects(ctx context.Context) ([]models.ProjectImage, error) {
	var created []models.ProjectImage

	for _, sample := range sampleProjects {
		err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			now := time.Now()
			project := &models.Project{
				Name:      sample.name,
				Location:  optional(sample.location),
				CreatedAt: now,
				UpdatedAt: now,
			}
			project.Description = optional(sample.description)

			order, err := s.ordering.NextOrder(txCtx, models.ScopeProjects, nil)
			if err != nil {
				return err
			}
			project.DisplayOrder = order
			if err := s.repos.Projects.Create(txCtx, project); err != nil {
				return err
			}

			for _, title := range sample.images {
				image := &models.ProjectImage{
					ProjectID: project.ID,
					Title:     title,
					ImageURL:  s.placeholder("project-images", sample.name, title),
					CreatedAt: now,
					UpdatedAt: now,
				}
				image.ImageBlobURL = image.ImageURL

				order, err := s.ordering.NextOrder(txCtx, models.ScopeProjectImages, &project.ID)
				if err != nil {
					return err
				}
				image.DisplayOrder = order
				if err := s.repos.Images.Create(txCtx, image); err != nil {
					return err
				}
				created = append(created, *image)
			}

			s.logger.Info("seeded project", "id", project.ID, "name", project.Name, "images", len(sample.images))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("seed project %q: %w", sample.name, err)
		}
	}

	return created, nil
}

// SeedMessages inserts a couple of inbox entries
func (s *Seeder) SeedMessages(ctx context.Context) error {
	for i := range sampleMessages {
		msg := sampleMessages[i]
		msg.CreatedAt = time.Now().Add(-time.Duration(len(sampleMessages)-i) * time.Hour)
		if err := s.repos.Messages.Create(ctx, &msg); err != nil {
			return fmt.Errorf("seed message from %s: %w", msg.Name, err)
		}
	}

	s.logger.Info("seeded messages", "count", len(sampleMessages))
	return nil
}

// SeedGallery creates categories and appends portfolio items to them
func (s *Seeder) SeedGallery(ctx context.Context) error {
	for _, name := range slices.Sorted(maps.Keys(sampleGallery)) {
		var categoryID *int64
		if name != "Uncategorized" {
			category := &models.Category{Name: name, CreatedAt: time.Now()}
			if err := s.repos.Categories.Create(ctx, category); err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}
			categoryID = &category.ID
		}

		for _, title := range sampleGallery[name] {
			err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
				now := time.Now()
				item := &models.PortfolioItem{
					Title:      title,
					CategoryID: categoryID,
					ImageURL:   s.placeholder("portfolio", name, title),
					CreatedAt:  now,
					UpdatedAt:  now,
				}
				item.ImageBlobURL = item.ImageURL

				order, err := s.ordering.NextOrder(txCtx, models.ScopePortfolioItems, nil)
				if err != nil {
					return err
				}
				item.DisplayOrder = order
				return s.repos.Items.Create(txCtx, item)
			})
			if err != nil {
				return fmt.Errorf("seed item %q: %w", title, err)
			}
		}
	}

	s.logger.Info("seeded gallery", "categories", len(sampleGallery)-1)
	return nil
}

func (s *Seeder) placeholder(prefix, group, title string) string {
	return fmt.Sprintf("%s/%s/seed-%s-%s.jpg", s.imageBase, prefix, service.Slugify(group), service.Slugify(title))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
