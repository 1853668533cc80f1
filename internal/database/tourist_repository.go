package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/fourtravels/b2b-backend/internal/models"
)

// TouristRepository handles tourist registry database operations
type TouristRepository struct {
	db DB
}

// NewTouristRepository creates a new tourist repository
func NewTouristRepository(db DB) *TouristRepository {
	return &TouristRepository{
		db: db,
	}
}

const touristColumns = `
	id, first_name, last_name, date_of_birth, gender, citizenship,
	document_type, document_number, document_expiration, phone, email, created_at
`

// List retrieves all tourists ordered by last name
func (r *TouristRepository) List() ([]*models.Tourist, error) {
	var tourists []*models.Tourist

	query := fmt.Sprintf("SELECT %s FROM tourists ORDER BY last_name ASC, first_name ASC", touristColumns)

	if err := r.db.Select(&tourists, query); err != nil {
		return nil, fmt.Errorf("failed to list tourists: %w", err)
	}

	return tourists, nil
}

// GetByID retrieves a tourist by ID
func (r *TouristRepository) GetByID(id uuid.UUID) (*models.Tourist, error) {
	var tourist models.Tourist

	query := fmt.Sprintf("SELECT %s FROM tourists WHERE id = $1", touristColumns)

	err := r.db.Get(&tourist, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tourist: %w", err)
	}

	return &tourist, nil
}

// Create inserts a tourist
func (r *TouristRepository) Create(tourist *models.Tourist) error {
	tourist.ID = uuid.New()
	tourist.CreatedAt = time.Now()

	query := `
		INSERT INTO tourists (
			id, first_name, last_name, date_of_birth, gender, citizenship,
			document_type, document_number, document_expiration, phone, email, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(
		query,
		tourist.ID,
		tourist.FirstName,
		tourist.LastName,
		tourist.DateOfBirth,
		tourist.Gender,
		tourist.Citizenship,
		tourist.DocumentType,
		tourist.DocumentNumber,
		tourist.DocumentExpiration,
		tourist.Phone,
		tourist.Email,
		tourist.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create tourist: %w", err)
	}

	return nil
}

// Update replaces a tourist's editable fields
func (r *TouristRepository) Update(id uuid.UUID, tourist *models.Tourist) error {
	query := `
		UPDATE tourists SET
			first_name = $1, last_name = $2, date_of_birth = $3, gender = $4,
			citizenship = $5, document_type = $6, document_number = $7,
			document_expiration = $8, phone = $9, email = $10
		WHERE id = $11
	`

	result, err := r.db.Exec(
		query,
		tourist.FirstName,
		tourist.LastName,
		tourist.DateOfBirth,
		tourist.Gender,
		tourist.Citizenship,
		tourist.DocumentType,
		tourist.DocumentNumber,
		tourist.DocumentExpiration,
		tourist.Phone,
		tourist.Email,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update tourist: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("tourist not found")
	}

	return nil
}

// Delete removes a tourist
func (r *TouristRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM tourists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tourist: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("tourist not found")
	}

	return nil
}

// ListNames returns distinct "First Last" names for the reservation form
// autocomplete.
func (r *TouristRepository) ListNames() ([]string, error) {
	var names []string

	query := `
		SELECT DISTINCT first_name || ' ' || last_name
		FROM tourists
		ORDER BY 1
	`

	if err := r.db.Select(&names, query); err != nil {
		return nil, fmt.Errorf("failed to list tourist names: %w", err)
	}

	return names, nil
}
