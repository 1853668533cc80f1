package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/fourtravels/b2b-backend/internal/models"
)

// SupplierRepository handles supplier database operations
type SupplierRepository struct {
	db DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db DB) *SupplierRepository {
	return &SupplierRepository{
		db: db,
	}
}

// List retrieves all suppliers ordered by name
func (r *SupplierRepository) List() ([]*models.Supplier, error) {
	var suppliers []*models.Supplier

	query := `SELECT id, name, created_at FROM suppliers ORDER BY name ASC`

	if err := r.db.Select(&suppliers, query); err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	return suppliers, nil
}

// GetByID retrieves a supplier by ID
func (r *SupplierRepository) GetByID(id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier

	err := r.db.Get(&supplier, `SELECT id, name, created_at FROM suppliers WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}

	return &supplier, nil
}

// Create inserts a supplier
func (r *SupplierRepository) Create(name string) (*models.Supplier, error) {
	supplier := &models.Supplier{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO suppliers (id, name, created_at) VALUES ($1, $2, $3)`,
		supplier.ID, supplier.Name, supplier.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	return supplier, nil
}

// Delete removes a supplier
func (r *SupplierRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("supplier not found")
	}

	return nil
}
