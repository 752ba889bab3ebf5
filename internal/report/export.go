package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX renders the matrix as a spreadsheet: one class-label row per
// group, one row per student, day columns plus a total and percentage.
func ExportXLSX(m Matrix) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Attendance"
	f.SetSheetName("Sheet1", sheet)

	header := []any{"Student"}
	for _, d := range m.Days {
		header = append(header, d[len(d)-2:]) // day number
	}
	header = append(header, "Total", "%")
	if err := setRow(f, sheet, 1, header); err != nil {
		return nil, err
	}

	rowNum := 2
	for _, group := range m.Classes {
		if err := setRow(f, sheet, rowNum, []any{group.ClassID}); err != nil {
			return nil, err
		}
		rowNum++
		for _, row := range group.Rows {
			cells := []any{row.Name}
			for _, present := range row.Present {
				if present {
					cells = append(cells, "P")
				} else {
					cells = append(cells, "")
				}
			}
			cells = append(cells, fmt.Sprintf("%d / %d", row.PresentDays, row.TotalDays), row.Percentage)
			if err := setRow(f, sheet, rowNum, cells); err != nil {
				return nil, err
			}
			rowNum++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
