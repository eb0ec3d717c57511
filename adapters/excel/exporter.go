package excel

import (
	"fmt"
	"io"

	"edgestats/internal/association"
	"edgestats/internal/table"

	"github.com/xuri/excelize/v2"
)

const (
	// ContingencySheet holds the rendered table with its margins
	ContingencySheet = "Contingency"
	// StatisticsSheet holds one statistic per row
	StatisticsSheet = "Statistics"
)

// Exporter writes a rendered table and statistics panel to a workbook
type Exporter struct{}

// NewExporter creates a new workbook exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// Write builds the workbook and writes it to w. A nil grid produces only the
// statistics sheet.
func (e *Exporter) Write(w io.Writer, panel association.Panel, grid *table.Grid) error {
	f, err := e.build(panel, grid)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Save builds the workbook and saves it at path
func (e *Exporter) Save(path string, panel association.Panel, grid *table.Grid) error {
	f, err := e.build(panel, grid)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

func (e *Exporter) build(panel association.Panel, grid *table.Grid) (*excelize.File, error) {
	f := excelize.NewFile()
	first := f.GetSheetName(0)

	if err := f.SetSheetName(first, StatisticsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeStatistics(f, panel); err != nil {
		f.Close()
		return nil, err
	}

	if grid != nil {
		idx, err := f.NewSheet(ContingencySheet)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create %s sheet: %w", ContingencySheet, err)
		}
		if err := writeGrid(f, grid); err != nil {
			f.Close()
			return nil, err
		}
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeStatistics(f *excelize.File, panel association.Panel) error {
	if err := setRow(f, StatisticsSheet, 1, []interface{}{"Key", "Statistic"}); err != nil {
		return err
	}
	for i, line := range panel.Lines() {
		if err := setRow(f, StatisticsSheet, i+2, []interface{}{line.Key, line.Text}); err != nil {
			return err
		}
	}
	return nil
}

func writeGrid(f *excelize.File, grid *table.Grid) error {
	header := make([]interface{}, 0, len(grid.Header)+2)
	header = append(header, "")
	for _, h := range grid.Header {
		header = append(header, h)
	}
	header = append(header, "Total")
	if err := setRow(f, ContingencySheet, 1, header); err != nil {
		return err
	}

	for i, row := range grid.Rows {
		values := make([]interface{}, 0, len(row.Cells)+2)
		values = append(values, row.Label)
		for _, c := range row.Cells {
			values = append(values, c.Text())
		}
		values = append(values, row.Total.Text())
		if err := setRow(f, ContingencySheet, i+2, values); err != nil {
			return err
		}
	}

	totals := make([]interface{}, 0, len(grid.Totals)+2)
	totals = append(totals, "Total")
	for _, c := range grid.Totals {
		totals = append(totals, c.Text())
	}
	totals = append(totals, grid.GrandTotal.Text())
	return setRow(f, ContingencySheet, len(grid.Rows)+2, totals)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
