package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fourtravels/b2b-backend/internal/models"
	"github.com/fourtravels/b2b-backend/internal/status"
)

// ExportService produces xlsx exports of reservation lists.
type ExportService struct{}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{}
}

const exportSheet = "Reservations"

var baseExportHeaders = []string{
	"Agency",
	"Date of Issue",
	"Service Type",
	"Date of Service",
	"Description",
	"Tourist Names",
	"Price",
	"Prepayment",
	"Rest Amount",
	"Last Date of Payment",
	"Payment Status",
}

var adminExportHeaders = []string{
	"Supplier",
	"Supplier Price",
	"Supplier Prepayment",
	"Revenue",
	"Revenue %",
}

// ExportFilename returns the download filename for an export generated now.
func (s *ExportService) ExportFilename(now time.Time) string {
	return fmt.Sprintf("reservations_%s.xlsx", now.Format(status.DateLayout))
}

// ExportReservations renders reservations into an xlsx workbook. Supplier and
// revenue columns are included only when includeSupplierFields is set; the
// payment status column carries the same derived badge the dashboard shows.
func (s *ExportService) ExportReservations(reservations []*models.Reservation, includeSupplierFields bool, thresholdDays int, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheet)

	headers := baseExportHeaders
	if includeSupplierFields {
		headers = append(append([]string{}, baseExportHeaders...), adminExportHeaders...)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve header cell: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(exportSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	for rowIdx, r := range reservations {
		badge := status.PaymentFor(r.RestAmountOfPayment, r.PrepaymentAmount, r.LastDateOfPayment.ValueOrEmpty(), thresholdDays, now)

		values := []interface{}{
			r.AgencyName,
			r.DateOfIssue,
			r.ServiceType,
			r.DateOfService,
			r.Description,
			r.TouristNames,
			r.Price,
			r.PrepaymentAmount,
			r.RestAmountOfPayment,
			r.LastDateOfPayment.ValueOrEmpty(),
			badge.Label(),
		}

		if includeSupplierFields {
			values = append(values,
				r.SupplierName.ValueOrEmpty(),
				nullFloatCell(r.SupplierPrice),
				nullFloatCell(r.SupplierPrepayment),
				nullFloatCell(r.Revenue),
				nullFloatCell(r.RevenuePercentage),
			)
		}

		for colIdx, value := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve cell: %w", err)
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

// nullFloatCell renders an optional amount, leaving absent values blank.
func nullFloatCell(v models.NullFloat) interface{} {
	if !v.Valid {
		return ""
	}
	return v.Float64
}
