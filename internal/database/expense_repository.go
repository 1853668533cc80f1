package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/fourtravels/b2b-backend/internal/models"
)

// ExpenseRepository handles expense database operations
type ExpenseRepository struct {
	db DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db DB) *ExpenseRepository {
	return &ExpenseRepository{
		db: db,
	}
}

const expenseColumns = `
	id, agency_id, agency_name, date, description, amount, created_at
`

// List retrieves expenses, optionally scoped to one agency, newest first
func (r *ExpenseRepository) List(agencyID uuid.NullUUID) ([]*models.Expense, error) {
	var expenses []*models.Expense

	query := fmt.Sprintf("SELECT %s FROM expenses", expenseColumns)
	args := []interface{}{}

	if agencyID.Valid {
		query += " WHERE agency_id = $1"
		args = append(args, agencyID.UUID)
	}
	query += " ORDER BY date DESC, created_at DESC"

	if err := r.db.Select(&expenses, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return expenses, nil
}

// GetByID retrieves an expense by ID
func (r *ExpenseRepository) GetByID(id uuid.UUID) (*models.Expense, error) {
	var expense models.Expense

	query := fmt.Sprintf("SELECT %s FROM expenses WHERE id = $1", expenseColumns)

	err := r.db.Get(&expense, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return &expense, nil
}

// Create inserts an expense. The amount is rounded to two decimals and the
// date defaults to today when empty.
func (r *ExpenseRepository) Create(expense *models.Expense) error {
	expense.ID = uuid.New()
	expense.CreatedAt = time.Now()
	expense.Amount = models.RoundCurrency(expense.Amount)
	if expense.Date == "" {
		expense.Date = time.Now().Format("2006-01-02")
	}

	query := `
		INSERT INTO expenses (
			id, agency_id, agency_name, date, description, amount, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(
		query,
		expense.ID,
		expense.AgencyID,
		expense.AgencyName,
		expense.Date,
		expense.Description,
		expense.Amount,
		expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// Delete removes an expense
func (r *ExpenseRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("expense not found")
	}

	return nil
}
