package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/fourtravels/b2b-backend/internal/models"
)

// UserRepository handles user/agency database operations
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// CreateUser creates a new account. The password must already be hashed.
func (r *UserRepository) CreateUser(agencyName, email, passwordHash, phone, role, locale string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		AgencyName:   agencyName,
		Email:        email,
		PasswordHash: passwordHash,
		Phone:        models.NewNullString(phone),
		Role:         role,
		Locale:       locale,
		IsActive:     true,
		Balance:      0,
		CreatedAt:    time.Now(),
	}

	query := `
		INSERT INTO users (
			id, agency_name, email, password_hash, phone,
			role, locale, is_active, balance, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(
		query,
		user.ID,
		user.AgencyName,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Role,
		user.Locale,
		user.IsActive,
		user.Balance,
		user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User

	query := `
		SELECT id, agency_name, email, password_hash, phone,
		       role, locale, is_active, balance, created_at
		FROM users
		WHERE email = $1
	`

	err := r.db.Get(&user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found, return nil without error
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User

	query := `
		SELECT id, agency_name, email, password_hash, phone,
		       role, locale, is_active, balance, created_at
		FROM users
		WHERE id = $1
	`

	err := r.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return &user, nil
}

// ListUsers retrieves all users ordered by creation time
func (r *UserRepository) ListUsers() ([]*models.User, error) {
	var users []*models.User

	query := `
		SELECT id, agency_name, email, password_hash, phone,
		       role, locale, is_active, balance, created_at
		FROM users
		ORDER BY created_at DESC
	`

	err := r.db.Select(&users, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// UserUpdate carries the optional fields of a user update. Nil fields are
// left untouched. Balance is deliberately absent: it moves only through
// top-up operations.
type UserUpdate struct {
	AgencyName   *string
	Email        *string
	PasswordHash *string
	Phone        *string
	Locale       *string
	IsActive     *bool
}

// UpdateUser applies the non-nil fields of upd to the user
func (r *UserRepository) UpdateUser(id uuid.UUID, upd UserUpdate) error {
	query := `
		UPDATE users
		SET agency_name   = COALESCE($1, agency_name),
		    email         = COALESCE($2, email),
		    password_hash = COALESCE($3, password_hash),
		    phone         = COALESCE($4, phone),
		    locale        = COALESCE($5, locale),
		    is_active     = COALESCE($6, is_active)
		WHERE id = $7
	`

	result, err := r.db.Exec(query, upd.AgencyName, upd.Email, upd.PasswordHash, upd.Phone, upd.Locale, upd.IsActive, id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// UpdatePasswordHash replaces the stored password hash
func (r *UserRepository) UpdatePasswordHash(id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`

	result, err := r.db.Exec(query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// DeleteUser removes a user
func (r *UserRepository) DeleteUser(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}

// CountAdmins returns the number of admin accounts
func (r *UserRepository) CountAdmins() (int, error) {
	var count int

	err := r.db.QueryRow(`SELECT COUNT(*) FROM users WHERE role = 'admin'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}

	return count, nil
}
