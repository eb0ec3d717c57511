// Package table renders a contingency table with its margins for display.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"edgestats/domain/contingency"
	"edgestats/domain/core"
	"edgestats/internal/format"
)

// Cell is a rendered table cell. Withheld percentages are empty.
type Cell struct {
	Frequency        string `json:"frequency"`
	RowPercentage    string `json:"row_percentage,omitempty"`
	ColumnPercentage string `json:"column_percentage,omitempty"`
	TotalPercentage  string `json:"total_percentage,omitempty"`
}

// Percentages returns the present percentages in row, column, total order.
func (c Cell) Percentages() []string {
	out := make([]string, 0, 3)
	for _, p := range []string{c.RowPercentage, c.ColumnPercentage, c.TotalPercentage} {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Text is the single-line form, e.g. "8 (80.00%, 80.00%, 40.00%)".
func (c Cell) Text() string {
	p := c.Percentages()
	if len(p) == 0 {
		return c.Frequency
	}
	return c.Frequency + " (" + strings.Join(p, ", ") + ")"
}

// Row is a body row: its label, its cells and the row total.
type Row struct {
	Label string `json:"label"`
	Cells []Cell `json:"cells"`
	Total Cell   `json:"total"`
}

// Grid is the rendered table. Header holds one label per column; the corner
// and the totals column have no header.
type Grid struct {
	Header     []string `json:"header"`
	Rows       []Row    `json:"rows"`
	Totals     []Cell   `json:"column_totals"`
	GrandTotal Cell     `json:"grand_total"`
}

// Renderer formats percentages with a fixed number of decimals.
type Renderer struct {
	decimals int
}

func NewRenderer(decimals int) *Renderer {
	if decimals < 0 {
		decimals = format.TableDecimals
	}
	return &Renderer{decimals: decimals}
}

// Render lays out the table of attrs with column labels from FeatureA and row
// labels from FeatureB. A category without a qualifier gets an empty label.
func (r *Renderer) Render(attrs contingency.EdgeAttributes) (*Grid, error) {
	m := attrs.FeatureMatrix
	margins, err := m.Margins()
	if err != nil {
		return nil, fmt.Errorf("render contingency table: %w", err)
	}
	rows, cols := m.Dims()

	grid := &Grid{
		Header: make([]string, cols),
		Rows:   make([]Row, rows),
		Totals: make([]Cell, cols),
	}
	for j := 0; j < cols; j++ {
		grid.Header[j], _ = attrs.FeatureA.Label(j)
		grid.Totals[j] = r.cell(margins.Columns[j])
	}
	for i := 0; i < rows; i++ {
		label, _ := attrs.FeatureB.Label(i)
		row := Row{Label: label, Cells: make([]Cell, cols), Total: r.cell(margins.Rows[i])}
		for j := 0; j < cols; j++ {
			row.Cells[j] = r.cell(m[i][j])
		}
		grid.Rows[i] = row
	}
	grid.GrandTotal = r.cell(margins.Total)
	return grid, nil
}

func (r *Renderer) cell(c contingency.Cell) Cell {
	out := Cell{Frequency: frequency(c)}
	out.RowPercentage = r.percentage(c.RowPercentage)
	out.ColumnPercentage = r.percentage(c.ColumnPercentage)
	out.TotalPercentage = r.percentage(c.TotalPercentage)
	return out
}

func (r *Renderer) percentage(p *float64) string {
	if p == nil {
		return ""
	}
	return format.Float(*p*100, r.decimals) + "%"
}

func frequency(c contingency.Cell) string {
	if !c.HasFrequency() {
		return "0"
	}
	return strconv.FormatFloat(*c.Frequency, 'f', -1, 64)
}

// ErrNoTable is returned when an edge carries no table at all.
var ErrNoTable = fmt.Errorf("%w: no table attached", core.ErrInvalidMatrix)

// RenderEdge is Render with a distinct error for a missing table.
func (r *Renderer) RenderEdge(attrs contingency.EdgeAttributes) (*Grid, error) {
	if !attrs.HasTable() {
		return nil, ErrNoTable
	}
	return r.Render(attrs)
}
