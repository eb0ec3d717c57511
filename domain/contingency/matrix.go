package contingency

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"edgestats/domain/core"
)

// IsValid reports whether m is a non-empty rectangular table in which every
// cell has a numeric frequency. A row without cells does not count as a row.
func (m Matrix) IsValid() bool {
	if len(m) == 0 || len(m[0]) == 0 {
		return false
	}
	width := len(m[0])
	for _, row := range m {
		if len(row) != width {
			return false
		}
		for _, cell := range row {
			if !cell.HasFrequency() {
				return false
			}
		}
	}
	return true
}

// Dims returns the row and column counts. The column count is taken from the
// first row and is only meaningful for a valid matrix.
func (m Matrix) Dims() (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

// Frequencies materializes the cell frequencies as a dense matrix.
func (m Matrix) Frequencies() (*mat.Dense, error) {
	if !m.IsValid() {
		return nil, core.ErrInvalidMatrix
	}
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for _, row := range m {
		for _, cell := range row {
			data = append(data, *cell.Frequency)
		}
	}
	return mat.NewDense(r, c, data), nil
}

// Margins holds the row, column and grand totals of a table. Percentages that
// make no sense for a margin are withheld (nil).
type Margins struct {
	Rows    []Cell
	Columns []Cell
	Total   Cell
}

// Margins sums frequencies and percentages along each axis.
func (m Matrix) Margins() (Margins, error) {
	freq, err := m.Frequencies()
	if err != nil {
		return Margins{}, err
	}
	r, c := freq.Dims()

	out := Margins{
		Rows:    make([]Cell, r),
		Columns: make([]Cell, c),
	}
	for i := 0; i < r; i++ {
		row := m[i]
		out.Rows[i] = Cell{
			Frequency:       Float(mat.Sum(freq.RowView(i))),
			TotalPercentage: sumPercentages(row, func(c Cell) *float64 { return c.TotalPercentage }),
		}
	}
	for j := 0; j < c; j++ {
		col := make([]Cell, r)
		for i := 0; i < r; i++ {
			col[i] = m[i][j]
		}
		out.Columns[j] = Cell{
			Frequency:        Float(mat.Sum(freq.ColView(j))),
			ColumnPercentage: sumPercentages(col, func(c Cell) *float64 { return c.ColumnPercentage }),
		}
	}
	out.Total = Cell{Frequency: Float(mat.Sum(freq))}
	return out, nil
}

// sumPercentages adds the present percentages of cells; nil if none are present.
func sumPercentages(cells []Cell, pick func(Cell) *float64) *float64 {
	values := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if p := pick(cell); p != nil {
			values = append(values, *p)
		}
	}
	if len(values) == 0 {
		return nil
	}
	return Float(floats.Sum(values))
}
