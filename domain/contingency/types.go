package contingency

import (
	"fmt"
	"math"
	"strings"

	"github.com/tidwall/gjson"
)

// withheldPercentage is the upstream marker for a percentage that should not be shown.
const withheldPercentage = -1

// Cell is one entry of a contingency table.
// A nil percentage means the value is withheld (margins, totals).
type Cell struct {
	Frequency        *float64 `json:"frequency"`
	RowPercentage    *float64 `json:"row_percentage,omitempty"`
	ColumnPercentage *float64 `json:"column_percentage,omitempty"`
	TotalPercentage  *float64 `json:"total_percentage,omitempty"`
}

// NewCell builds a cell with a frequency and no percentages.
func NewCell(frequency float64) Cell {
	return Cell{Frequency: Float(frequency)}
}

// Float returns a pointer to v, for optional fields.
func Float(v float64) *float64 {
	return &v
}

// HasFrequency reports whether the cell carries a usable frequency.
func (c Cell) HasFrequency() bool {
	return c.Frequency != nil && !math.IsNaN(*c.Frequency) && !math.IsInf(*c.Frequency, 0)
}

// UnmarshalJSON accepts the upstream wire shape where -1 marks a withheld
// percentage. A field that is not a JSON number is left unset, so a bad
// frequency invalidates the matrix instead of failing the whole document.
func (c *Cell) UnmarshalJSON(data []byte) error {
	cell := gjson.ParseBytes(data)
	c.Frequency = number(cell.Get("frequency"))
	c.RowPercentage = withheld(number(cell.Get("row_percentage")))
	c.ColumnPercentage = withheld(number(cell.Get("column_percentage")))
	c.TotalPercentage = withheld(number(cell.Get("total_percentage")))
	return nil
}

func number(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Float()
	return &v
}

func withheld(p *float64) *float64 {
	if p == nil || *p == withheldPercentage {
		return nil
	}
	return p
}

// Matrix is a row-major contingency table. It is treated as immutable once built.
type Matrix [][]Cell

// FromFrequencies builds a matrix of bare frequency cells.
func FromFrequencies(rows [][]float64) Matrix {
	m := make(Matrix, len(rows))
	for i, row := range rows {
		m[i] = make([]Cell, len(row))
		for j, f := range row {
			m[i][j] = NewCell(f)
		}
	}
	return m
}

// UnmarshalJSON decodes a table of any shape without failing. A table that is
// not an array decodes as a single empty row and a row that is not an array
// as an empty row, both of which IsValid rejects.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	table := gjson.ParseBytes(data)
	if table.Type == gjson.Null {
		*m = nil
		return nil
	}
	if !table.IsArray() {
		*m = Matrix{{}}
		return nil
	}

	rows := table.Array()
	out := make(Matrix, len(rows))
	for i, row := range rows {
		if !row.IsArray() {
			out[i] = []Cell{}
			continue
		}
		cells := row.Array()
		out[i] = make([]Cell, len(cells))
		for j, cell := range cells {
			if err := out[i][j].UnmarshalJSON([]byte(cell.Raw)); err != nil {
				return err
			}
		}
	}
	*m = out
	return nil
}

// Qualifier is a threshold on one discretized category of a feature, e.g. "age >= 40".
type Qualifier struct {
	Operator string `json:"operator"`
	Value    any    `json:"value"`
}

// Feature describes one axis of the table: the feature name and one qualifier per category.
type Feature struct {
	Name       string      `json:"feature_name"`
	Qualifiers []Qualifier `json:"feature_qualifiers"`
}

var operatorSymbols = strings.NewReplacer(">=", "≥", "<=", "≤")

// Label renders the header for category i, e.g. "age ≥ 40".
func (f Feature) Label(i int) (string, bool) {
	if i < 0 || i >= len(f.Qualifiers) {
		return "", false
	}
	q := f.Qualifiers[i]
	return fmt.Sprintf("%s %s %v", f.Name, operatorSymbols.Replace(q.Operator), q.Value), true
}

// EdgeAttributes is the association payload attached to one knowledge-graph edge.
// FeatureA labels the columns and FeatureB the rows. ChiSquared and PValue are
// computed upstream and passed through untouched.
type EdgeAttributes struct {
	FeatureMatrix Matrix   `json:"feature_matrix,omitempty"`
	FeatureA      Feature  `json:"feature_a"`
	FeatureB      Feature  `json:"feature_b"`
	ChiSquared    *float64 `json:"chi_squared,omitempty"`
	PValue        *float64 `json:"p_value,omitempty"`
}

// HasTable reports whether a table was attached at all, valid or not.
func (a EdgeAttributes) HasTable() bool {
	return len(a.FeatureMatrix) > 0
}
