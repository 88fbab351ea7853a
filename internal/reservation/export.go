package reservation

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Reservations"

var exportHeader = []string{
	"ID", "Arena ID", "User", "Court", "Date", "Start", "End", "Sport",
	"Recurring", "Period", "Public", "Players needed", "Occurrences",
	"Price per session", "Total", "Status",
}

// Export renders the reservations as an .xlsx workbook.
func Export(reservations []*Reservation) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	for i, h := range exportHeader {
		if err := f.SetCellValue(exportSheet, cell(i, 1), h); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(exportSheet, cell(0, 1), cell(len(exportHeader)-1, 1), headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(exportSheet, "A", colName(len(exportHeader)-1), 16); err != nil {
		return nil, err
	}

	for n, r := range reservations {
		row := n + 2
		values := []any{
			r.ID, r.ExternalID, r.UserID, courtLabel(r), r.Date, r.Start.String(), r.End.String(), r.Sport,
			r.IsRecurring, string(r.RecurrencePeriod), r.IsPublic, r.NeededPlayers, r.Occurrences,
			r.BasePrice.InexactFloat64(), r.TotalPrice.InexactFloat64(), string(r.Status),
		}
		for i, v := range values {
			if err := f.SetCellValue(exportSheet, cell(i, row), v); err != nil {
				return nil, err
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
