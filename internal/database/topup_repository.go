package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/fourtravels/b2b-backend/internal/models"
)

// TopUpRepository handles the top-up ledger. Every mutation runs inside a
// transaction that also adjusts the target agency's balance, so the
// balance and the ledger can never drift apart.
type TopUpRepository struct {
	db DB
}

// NewTopUpRepository creates a new top-up repository
func NewTopUpRepository(db DB) *TopUpRepository {
	return &TopUpRepository{
		db: db,
	}
}

// List retrieves all top-ups, most recent first.
func (r *TopUpRepository) List() ([]*models.TopUp, error) {
	var topups []*models.TopUp

	query := `
		SELECT id, agency_id, agency_name, amount, type, date, created_at
		FROM topups
		ORDER BY created_at DESC
	`

	if err := r.db.Select(&topups, query); err != nil {
		return nil, fmt.Errorf("failed to list topups: %w", err)
	}

	return topups, nil
}

// GetByID retrieves a top-up by ID
func (r *TopUpRepository) GetByID(id uuid.UUID) (*models.TopUp, error) {
	var topup models.TopUp

	query := `
		SELECT id, agency_id, agency_name, amount, type, date, created_at
		FROM topups
		WHERE id = $1
	`

	err := r.db.Get(&topup, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topup: %w", err)
	}

	return &topup, nil
}

// Create inserts a ledger entry and credits the agency balance in one
// transaction. Returns the new balance.
func (r *TopUpRepository) Create(topup *models.TopUp) (float64, error) {
	topup.ID = uuid.New()
	topup.Amount = models.RoundCurrency(topup.Amount)
	topup.CreatedAt = time.Now()
	if topup.Date == "" {
		topup.Date = topup.CreatedAt.Format("2006-01-02")
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO topups (id, agency_id, agency_name, amount, type, date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		topup.ID, topup.AgencyID, topup.AgencyName, topup.Amount, topup.Type, topup.Date, topup.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create topup: %w", err)
	}

	var newBalance float64
	err = tx.QueryRow(
		`UPDATE users SET balance = balance + $1 WHERE id = $2 RETURNING balance`,
		topup.Amount, topup.AgencyID,
	).Scan(&newBalance)
	if err != nil {
		return 0, fmt.Errorf("failed to credit balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit topup: %w", err)
	}

	return newBalance, nil
}

// Update changes a ledger entry's amount and type and applies the amount
// delta to the agency balance in one transaction.
func (r *TopUpRepository) Update(id uuid.UUID, amount float64, topupType string) error {
	existing, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("topup not found")
	}

	amount = models.RoundCurrency(amount)
	delta := amount - existing.Amount

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`UPDATE topups SET amount = $1, type = $2 WHERE id = $3`, amount, topupType, id)
	if err != nil {
		return fmt.Errorf("failed to update topup: %w", err)
	}

	_, err = tx.Exec(`UPDATE users SET balance = balance + $1 WHERE id = $2`, delta, existing.AgencyID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit topup update: %w", err)
	}

	return nil
}

// Delete removes a ledger entry and reverses its effect on the agency
// balance in one transaction.
func (r *TopUpRepository) Delete(id uuid.UUID) error {
	existing, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("topup not found")
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM topups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete topup: %w", err)
	}

	_, err = tx.Exec(`UPDATE users SET balance = balance - $1 WHERE id = $2`, existing.Amount, existing.AgencyID)
	if err != nil {
		return fmt.Errorf("failed to reverse balance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit topup delete: %w", err)
	}

	return nil
}
