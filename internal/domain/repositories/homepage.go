package repositories

import (
	"context"

	"atelier/internal/domain/models"
)

// HomepageRepository defines data access for the homepage settings singleton
type HomepageRepository interface {
	// Get retrieves the settings row.
	// Returns nil if the row has not been written yet.
	Get(ctx context.Context) (*models.HomepageSettings, error)

	// SetImage upserts a single slot on the singleton row.
	// A nil imageID clears the slot.
	SetImage(ctx context.Context, slot models.HomepageSlot, imageID *int64) (*models.HomepageSettings, error)
}
