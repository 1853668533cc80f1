package database

import (
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourtravels/b2b-backend/internal/models"
)

func TestReservationCreate(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewReservationRepository(mockDB)

	t.Run("Rest amount recomputed from price and prepayment", func(t *testing.T) {
		agencyID := uuid.New()
		reservation := &models.Reservation{
			AgencyID:            agencyID,
			AgencyName:          "Sunrise Travel",
			DateOfIssue:         "2025-03-01",
			ServiceType:         "hotel",
			DateOfService:       "2025-04-15",
			Price:               1000,
			PrepaymentAmount:    300,
			RestAmountOfPayment: 999, // client-supplied value, must be ignored
		}

		mock.ExpectExec(`INSERT INTO reservations`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(reservation)
		require.NoError(t, err)
		assert.Equal(t, 700.0, reservation.RestAmountOfPayment)
		assert.NotEqual(t, uuid.Nil, reservation.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Money rounded to two decimals", func(t *testing.T) {
		reservation := &models.Reservation{
			AgencyID:         uuid.New(),
			DateOfIssue:      "2025-03-01",
			ServiceType:      "tour",
			DateOfService:    "2025-04-15",
			Price:            100.456,
			PrepaymentAmount: 33.333,
		}

		mock.ExpectExec(`INSERT INTO reservations`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(reservation)
		require.NoError(t, err)
		assert.Equal(t, 100.46, reservation.Price)
		assert.Equal(t, 33.33, reservation.PrepaymentAmount)
		assert.Equal(t, 67.13, reservation.RestAmountOfPayment)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		reservation := &models.Reservation{AgencyID: uuid.New(), DateOfIssue: "2025-03-01", ServiceType: "hotel", DateOfService: "2025-04-15"}

		mock.ExpectExec(`INSERT INTO reservations`).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(reservation)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create reservation")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReservationMarkPaid(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := NewReservationRepository(mockDB)

	t.Run("Success", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectExec(`UPDATE reservations`).
			WithArgs("2025-03-20", sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkPaid(id, "2025-03-20")
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		id := uuid.New()

		mock.ExpectExec(`UPDATE reservations`).
			WithArgs("2025-03-20", sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkPaid(id, "2025-03-20")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRestAmountHelper(t *testing.T) {
	assert.Equal(t, 700.0, models.RestAmount(1000, 300))
	assert.Equal(t, 0.0, models.RestAmount(500, 500))
	assert.Equal(t, 0.33, models.RestAmount(1, 0.67))
}
