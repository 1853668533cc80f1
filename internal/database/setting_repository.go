package database

import (
	"database/sql"
	"fmt"

	"github.com/fourtravels/b2b-backend/internal/models"
)

// SettingRepository handles portal settings database operations
type SettingRepository struct {
	db DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db DB) *SettingRepository {
	return &SettingRepository{
		db: db,
	}
}

// Get retrieves the settings row, falling back to defaults when none exists.
func (r *SettingRepository) Get() (*models.Settings, error) {
	var settings models.Settings

	query := `SELECT upcoming_due_threshold_days FROM settings WHERE id = 1`

	err := r.db.Get(&settings, query)
	if err != nil {
		if err == sql.ErrNoRows {
			return &models.Settings{
				UpcomingDueThresholdDays: models.DefaultUpcomingDueThresholdDays,
			}, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &settings, nil
}

// Update upserts the single settings row.
func (r *SettingRepository) Update(settings *models.Settings) error {
	query := `
		INSERT INTO settings (id, upcoming_due_threshold_days)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET upcoming_due_threshold_days = EXCLUDED.upcoming_due_threshold_days
	`

	_, err := r.db.Exec(query, settings.UpcomingDueThresholdDays)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	return nil
}
