package service

import (
	"bytes"
	"fmt"
	"time"

	"sarana/internal/domains/booking/model"
	"sarana/shared/constant"

	"github.com/xuri/excelize/v2"
)

const historySheet = "Riwayat Peminjaman"

var historyColumns = []struct {
	title string
	width float64
}{
	{"ID", 38},
	{"Resource", 28},
	{"Kind", 12},
	{"Requester", 24},
	{"Start", 20},
	{"End", 20},
	{"Purpose", 32},
	{"Status", 12},
	{"Decided At", 20},
	{"Decision Note", 32},
	{"Submitted At", 20},
}

const historyTimeLayout = "2006-01-02 15:04"

func writeHistory(rows []model.RequestDetail, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(historySheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	if err = f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	f.SetActiveSheet(index)

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, col := range historyColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(historySheet, cell, col.title)
		_ = f.SetCellStyle(historySheet, cell, cell, header)

		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(historySheet, name, name, col.width)
	}

	for r, row := range rows {
		values := []any{
			row.ID,
			row.ResourceName,
			string(row.ResourceKind),
			row.RequesterName,
			row.StartTime.In(loc).Format(historyTimeLayout),
			row.EndTime.In(loc).Format(historyTimeLayout),
			row.Purpose,
			string(row.Status),
			formatOptional(row.DecidedAt, loc),
			derefString(row.DecisionNote),
			row.CreatedAt.In(loc).Format(historyTimeLayout),
		}

		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(historySheet, cell, v)
		}
	}

	if err = f.SetPanes(historySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err = f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func formatOptional(t *time.Time, loc *time.Location) string {
	if t == nil {
		return constant.Empty
	}

	return t.In(loc).Format(historyTimeLayout)
}

func derefString(s *string) string {
	if s == nil {
		return constant.Empty
	}

	return *s
}
