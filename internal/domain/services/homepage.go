package services

import (
	"context"

	"atelier/internal/domain/models"
)

// HomepageService manages featured image selections and the public home page
type HomepageService interface {
	// GetSettings returns the singleton with image references resolved.
	// Returns empty defaults if the row has never been written.
	GetSettings(ctx context.Context) (*models.HomepageSettings, error)

	// SetImage points slot at imageID, or clears it when imageID is nil
	SetImage(ctx context.Context, slot models.HomepageSlot, imageID *int64) (*models.HomepageSettings, error)

	// GetHomePage assembles the public home page with fallbacks for empty slots
	GetHomePage(ctx context.Context) (*models.HomePage, error)
}
