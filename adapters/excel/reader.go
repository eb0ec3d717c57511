package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"edgestats/domain/contingency"
	"edgestats/domain/core"

	"github.com/xuri/excelize/v2"
)

// MatrixReader loads a bare frequency table from an Excel or CSV file.
// Every non-empty row is one table row; blank cells read as zero.
type MatrixReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
}

// NewMatrixReader creates a reader for path. Sheet is only used for xlsx and
// defaults to the first sheet when empty.
func NewMatrixReader(path, sheet string) *MatrixReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		fileType = "csv"
	}
	return &MatrixReader{filePath: path, fileType: fileType, sheet: sheet}
}

// ReadMatrix reads and validates the table
func (r *MatrixReader) ReadMatrix() (contingency.Matrix, error) {
	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSV()
	default:
		rows, err = r.readExcel()
	}
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}

func (r *MatrixReader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	return rows, nil
}

func (r *MatrixReader) readCSV() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

func parseRows(rows [][]string) (contingency.Matrix, error) {
	freqs := make([][]float64, 0, len(rows))
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		values := make([]float64, len(row))
		for j, raw := range row {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %q is not a number", core.ErrInvalidMatrix, i+1, j+1, raw)
			}
			values[j] = v
		}
		freqs = append(freqs, values)
	}

	m := contingency.FromFrequencies(freqs)
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: table must be non-empty and rectangular", core.ErrInvalidMatrix)
	}
	return m, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
