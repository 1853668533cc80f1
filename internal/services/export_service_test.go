package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fourtravels/b2b-backend/internal/models"
)

var exportNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func sampleReservations() []*models.Reservation {
	return []*models.Reservation{
		{
			ID:                  uuid.New(),
			AgencyName:          "Sunrise Travel",
			DateOfIssue:         "2025-03-01",
			ServiceType:         "hotel",
			DateOfService:       "2025-04-15",
			Description:         "Antalya 5n",
			TouristNames:        "John Doe, Jane Doe",
			Price:               1000,
			PrepaymentAmount:    300,
			RestAmountOfPayment: 700,
			LastDateOfPayment:   models.NewNullString("2025-03-18"),
			SupplierName:        models.NewNullString("Coral Hotels"),
			SupplierPrice:       models.NewNullFloat(800),
			Revenue:             models.NewNullFloat(200),
		},
		{
			ID:                  uuid.New(),
			AgencyName:          "Blue Lagoon",
			DateOfIssue:         "2025-02-10",
			ServiceType:         "transfer",
			DateOfService:       "2025-03-01",
			Price:               100,
			RestAmountOfPayment: 0,
		},
	}
}

func openSheet(t *testing.T, data []byte) [][]string {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reservations")
	require.NoError(t, err)
	return rows
}

func TestExportFilename(t *testing.T) {
	svc := NewExportService()
	assert.Equal(t, "reservations_2025-03-15.xlsx", svc.ExportFilename(exportNow))
}

func TestExportReservations_AdminColumns(t *testing.T) {
	svc := NewExportService()

	data, err := svc.ExportReservations(sampleReservations(), true, 7, exportNow)
	require.NoError(t, err)

	rows := openSheet(t, data)
	require.Len(t, rows, 3)

	header := rows[0]
	assert.Equal(t, "Agency", header[0])
	assert.Equal(t, "Payment Status", header[10])
	assert.Equal(t, "Supplier", header[11])
	assert.Equal(t, "Revenue %", header[15])

	first := rows[1]
	assert.Equal(t, "Sunrise Travel", first[0])
	assert.Equal(t, "Coral Hotels", first[11])
	// Due 2025-03-18 with threshold 7 renders as an upcoming badge.
	assert.Equal(t, "upcoming: 3 days", first[10])
}

func TestExportReservations_SupplierColumnsOmitted(t *testing.T) {
	svc := NewExportService()

	data, err := svc.ExportReservations(sampleReservations(), false, 7, exportNow)
	require.NoError(t, err)

	rows := openSheet(t, data)
	require.Len(t, rows, 3)

	assert.Len(t, rows[0], 11)
	assert.Equal(t, "Payment Status", rows[0][10])

	second := rows[2]
	assert.Equal(t, "Blue Lagoon", second[0])
	assert.Equal(t, "paid", second[10])
}

func TestExportReservations_Empty(t *testing.T) {
	svc := NewExportService()

	data, err := svc.ExportReservations(nil, false, 7, exportNow)
	require.NoError(t, err)

	rows := openSheet(t, data)
	require.Len(t, rows, 1)
	assert.Equal(t, "Agency", rows[0][0])
}
