package contingency

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgestats/domain/core"
)

func TestMatrixIsValid(t *testing.T) {
	tests := []struct {
		name   string
		matrix Matrix
		want   bool
	}{
		{"nil", nil, false},
		{"no rows", Matrix{}, false},
		{"empty row", Matrix{{}}, false},
		{"single cell", FromFrequencies([][]float64{{3}}), true},
		{"2x2", FromFrequencies([][]float64{{10, 5}, {5, 10}}), true},
		{"3x2", FromFrequencies([][]float64{{1, 2}, {3, 4}, {5, 6}}), true},
		{"ragged", FromFrequencies([][]float64{{1, 2}, {3}}), false},
		{"ragged longer", FromFrequencies([][]float64{{1}, {2, 3}}), false},
		{"missing frequency", Matrix{{NewCell(1), Cell{}}, {NewCell(2), NewCell(3)}}, false},
		{"nan frequency", FromFrequencies([][]float64{{1, math.NaN()}, {2, 3}}), false},
		{"inf frequency", FromFrequencies([][]float64{{1, math.Inf(1)}}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.matrix.IsValid())
		})
	}
}

func TestMatrixFrequencies(t *testing.T) {
	m := FromFrequencies([][]float64{{1, 2, 3}, {4, 5, 6}})
	d, err := m.Frequencies()
	require.NoError(t, err)

	r, c := d.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 6.0, d.At(1, 2))

	_, err = FromFrequencies([][]float64{{1}, {2, 3}}).Frequencies()
	assert.ErrorIs(t, err, core.ErrInvalidMatrix)
}

func TestMatrixMargins(t *testing.T) {
	m := Matrix{
		{
			{Frequency: Float(8), RowPercentage: Float(0.8), ColumnPercentage: Float(0.8), TotalPercentage: Float(0.4)},
			{Frequency: Float(2), RowPercentage: Float(0.2), ColumnPercentage: Float(0.2), TotalPercentage: Float(0.1)},
		},
		{
			{Frequency: Float(2), RowPercentage: Float(0.2), ColumnPercentage: Float(0.2), TotalPercentage: Float(0.1)},
			{Frequency: Float(8), RowPercentage: Float(0.8), ColumnPercentage: Float(0.8), TotalPercentage: Float(0.4)},
		},
	}

	margins, err := m.Margins()
	require.NoError(t, err)
	require.Len(t, margins.Rows, 2)
	require.Len(t, margins.Columns, 2)

	row := margins.Rows[0]
	assert.Equal(t, 10.0, *row.Frequency)
	assert.Nil(t, row.RowPercentage)
	assert.Nil(t, row.ColumnPercentage)
	assert.InDelta(t, 0.5, *row.TotalPercentage, 1e-12)

	col := margins.Columns[1]
	assert.Equal(t, 10.0, *col.Frequency)
	assert.Nil(t, col.RowPercentage)
	assert.Nil(t, col.TotalPercentage)
	assert.InDelta(t, 1.0, *col.ColumnPercentage, 1e-12)

	assert.Equal(t, 20.0, *margins.Total.Frequency)
	assert.Nil(t, margins.Total.RowPercentage)
	assert.Nil(t, margins.Total.ColumnPercentage)
	assert.Nil(t, margins.Total.TotalPercentage)
}

func TestMarginsWithoutPercentages(t *testing.T) {
	margins, err := FromFrequencies([][]float64{{1, 2}, {3, 4}}).Margins()
	require.NoError(t, err)
	assert.Nil(t, margins.Rows[0].TotalPercentage)
	assert.Nil(t, margins.Columns[0].ColumnPercentage)
	assert.Equal(t, 4.0, *margins.Columns[0].Frequency)
}

func TestCellUnmarshalWithheldPercentages(t *testing.T) {
	var c Cell
	err := json.Unmarshal([]byte(`{"frequency": 4, "row_percentage": -1, "column_percentage": 0.25}`), &c)
	require.NoError(t, err)

	require.True(t, c.HasFrequency())
	assert.Equal(t, 4.0, *c.Frequency)
	assert.Nil(t, c.RowPercentage)
	assert.Nil(t, c.TotalPercentage)
	require.NotNil(t, c.ColumnPercentage)
	assert.Equal(t, 0.25, *c.ColumnPercentage)
}

func TestCellUnmarshalMissingFrequency(t *testing.T) {
	var m Matrix
	err := json.Unmarshal([]byte(`[[{"frequency": 1}, {"frequency": null}], [{"frequency": 2}, {}]]`), &m)
	require.NoError(t, err)
	assert.False(t, m.IsValid())
}

func TestCellUnmarshalNonNumericFields(t *testing.T) {
	var c Cell
	err := json.Unmarshal([]byte(`{"frequency": "n/a", "row_percentage": "80%", "total_percentage": 0.4}`), &c)
	require.NoError(t, err)
	assert.Nil(t, c.Frequency)
	assert.False(t, c.HasFrequency())
	assert.Nil(t, c.RowPercentage)
	require.NotNil(t, c.TotalPercentage)
	assert.Equal(t, 0.4, *c.TotalPercentage)

	var m Matrix
	require.NoError(t, json.Unmarshal([]byte(`[[{"frequency": 1}, {"frequency": "n/a"}], [{"frequency": 2}, {"frequency": 3}]]`), &m))
	assert.False(t, m.IsValid())
	_, err = m.Frequencies()
	assert.ErrorIs(t, err, core.ErrInvalidMatrix)
}

func TestMatrixUnmarshalMalformedShape(t *testing.T) {
	cases := map[string]string{
		"not an array":    `"n/a"`,
		"row not array":   `[[{"frequency": 1}], 7]`,
		"cell not object": `[[{"frequency": 1}, 2]]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var m Matrix
			require.NoError(t, json.Unmarshal([]byte(raw), &m))
			assert.NotEmpty(t, m)
			assert.False(t, m.IsValid())
		})
	}

	var m Matrix
	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.Nil(t, m)
}

func TestFeatureLabel(t *testing.T) {
	f := Feature{
		Name: "age",
		Qualifiers: []Qualifier{
			{Operator: ">=", Value: 40.0},
			{Operator: "<=", Value: 39.5},
			{Operator: "=", Value: "female"},
		},
	}

	label, ok := f.Label(0)
	require.True(t, ok)
	assert.Equal(t, "age ≥ 40", label)

	label, _ = f.Label(1)
	assert.Equal(t, "age ≤ 39.5", label)

	label, _ = f.Label(2)
	assert.Equal(t, "age = female", label)

	_, ok = f.Label(3)
	assert.False(t, ok)
}

func TestEdgeAttributesDecode(t *testing.T) {
	raw := `{
		"feature_matrix": [[{"frequency": 8}, {"frequency": 2}], [{"frequency": 2}, {"frequency": 8}]],
		"feature_a": {"feature_name": "smoker", "feature_qualifiers": [{"operator": "=", "value": 1}, {"operator": "=", "value": 0}]},
		"feature_b": {"feature_name": "asthma", "feature_qualifiers": [{"operator": ">=", "value": 1}, {"operator": "<", "value": 1}]},
		"chi_squared": 11.52,
		"p_value": 0.0007
	}`

	var attrs EdgeAttributes
	require.NoError(t, json.Unmarshal([]byte(raw), &attrs))
	assert.True(t, attrs.HasTable())
	assert.True(t, attrs.FeatureMatrix.IsValid())
	require.NotNil(t, attrs.ChiSquared)
	assert.Equal(t, 11.52, *attrs.ChiSquared)
	require.NotNil(t, attrs.PValue)
	assert.Equal(t, 0.0007, *attrs.PValue)
	assert.Equal(t, "smoker", attrs.FeatureA.Name)

	var bare EdgeAttributes
	require.NoError(t, json.Unmarshal([]byte(`{"p_value": 0.2}`), &bare))
	assert.False(t, bare.HasTable())
	assert.Nil(t, bare.ChiSquared)
}
