// Package export renders booking statistics as XLSX workbooks.
package export

import (
	"bytes"
	"fmt"

	"hotelbooking/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Statistics"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []string{"Period", "Total bookings", "Confirmed bookings", "Revenue"}

// StatisticsWorkbook writes rows to a single-sheet workbook with a title,
// a header line and a totals line.
func StatisticsWorkbook(rows []models.StatisticsRow, startDate, endDate, groupBy string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetCellValue(SheetName, "A1", fmt.Sprintf("Bookings %s - %s by %s", startDate, endDate, groupBy))
	_ = f.MergeCell(SheetName, "A1", "D1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(SheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	_ = f.SetCellStyle(SheetName, "A2", "D2", headerStyle)

	var total, confirmed int
	var revenue float64
	for i, r := range rows {
		row := i + 3
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", row), &[]interface{}{
			r.Period, r.TotalBookings, r.ConfirmedBookings, r.TotalRevenue,
		}); err != nil {
			return nil, fmt.Errorf("error writing row %d: %w", row, err)
		}
		total += r.TotalBookings
		confirmed += r.ConfirmedBookings
		revenue += r.TotalRevenue
	}

	totalsRow := len(rows) + 3
	_ = f.SetSheetRow(SheetName, fmt.Sprintf("A%d", totalsRow), &[]interface{}{"Total", total, confirmed, revenue})
	_ = f.SetCellStyle(SheetName, fmt.Sprintf("A%d", totalsRow), fmt.Sprintf("D%d", totalsRow), headerStyle)

	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	_ = f.SetCellStyle(SheetName, "D3", fmt.Sprintf("D%d", totalsRow), moneyStyle)

	_ = f.SetColWidth(SheetName, "A", "A", 16)
	_ = f.SetColWidth(SheetName, "B", "D", 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf, nil
}
