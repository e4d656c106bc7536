package postgres

import (
	"context"
	"fmt"

	"atelier/internal/domain/models"
	"atelier/internal/domain/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresHomepageRepository implements the HomepageRepository interface
type PostgresHomepageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewHomepageRepository creates a new homepage settings repository
func NewHomepageRepository(config *RepositoryConfig) repositories.HomepageRepository {
	return &PostgresHomepageRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Get retrieves the singleton settings row
func (r *PostgresHomepageRepository) Get(ctx context.Context) (*models.HomepageSettings, error) {
	query := fmt.Sprintf(`
		SELECT id, hero_image_id, about_image_id, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.HomepageSettings)

	var settings models.HomepageSettings
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, models.HomepageSettingsID).Scan(
		&settings.ID,
		&settings.HeroImageID,
		&settings.AboutImageID,
		&settings.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			// Never written yet - return nil (not an error)
			return nil, nil
		}
		return nil, fmt.Errorf("get homepage settings: %w", err)
	}

	return &settings, nil
}

// SetImage upserts one slot of the singleton row
func (r *PostgresHomepageRepository) SetImage(ctx context.Context, slot models.HomepageSlot, imageID *int64) (*models.HomepageSettings, error) {
	column, err := slotColumn(slot)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (id, %[2]s, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET
			%[2]s = EXCLUDED.%[2]s,
			updated_at = EXCLUDED.updated_at
		RETURNING id, hero_image_id, about_image_id, updated_at
	`, r.tables.HomepageSettings, column)

	var settings models.HomepageSettings
	executor := GetExecutor(ctx, r.pool)
	err = executor.QueryRow(ctx, query, models.HomepageSettingsID, imageID).Scan(
		&settings.ID,
		&settings.HeroImageID,
		&settings.AboutImageID,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert homepage settings: %w", err)
	}

	return &settings, nil
}

func slotColumn(slot models.HomepageSlot) (string, error) {
	switch slot {
	case models.SlotHero:
		return "hero_image_id", nil
	case models.SlotAbout:
		return "about_image_id", nil
	}
	return "", fmt.Errorf("unknown homepage slot %q", slot)
}
