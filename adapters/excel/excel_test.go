package excel

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"edgestats/domain/contingency"
	"edgestats/domain/core"
	"edgestats/internal/association"
	"edgestats/internal/table"
)

func sampleAttrs() contingency.EdgeAttributes {
	return contingency.EdgeAttributes{
		FeatureMatrix: contingency.FromFrequencies([][]float64{{8, 2}, {2, 8}}),
		FeatureA: contingency.Feature{Name: "Age", Qualifiers: []contingency.Qualifier{
			{Operator: ">=", Value: 40}, {Operator: "<", Value: 40},
		}},
		FeatureB: contingency.Feature{Name: "Sex", Qualifiers: []contingency.Qualifier{
			{Operator: "=", Value: "F"}, {Operator: "=", Value: "M"},
		}},
		ChiSquared: contingency.Float(7.2),
		PValue:     contingency.Float(0.0073),
	}
}

func TestExporterWrite(t *testing.T) {
	attrs := sampleAttrs()
	grid, err := table.NewRenderer(2).Render(attrs)
	require.NoError(t, err)
	panel := association.NewPresenter(3).Panel(association.Compute(attrs))

	var buf bytes.Buffer
	require.NoError(t, NewExporter().Write(&buf, panel, grid))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{StatisticsSheet, ContingencySheet}, f.GetSheetList())

	rows, err := f.GetRows(ContingencySheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"", "Age ≥ 40", "Age < 40", "Total"}, rows[0])
	assert.Equal(t, "Sex = F", rows[1][0])
	assert.Equal(t, "8", rows[1][1])
	assert.Equal(t, "Total", rows[3][0])
	assert.Equal(t, "20", rows[3][3])

	stats, err := f.GetRows(StatisticsSheet)
	require.NoError(t, err)
	require.Len(t, stats, len(panel.Lines())+1)
	assert.Equal(t, association.KeyPValue, stats[1][0])
	assert.Equal(t, "P-Value: 0.007", stats[1][1])
}

func TestExporterWithoutTable(t *testing.T) {
	panel := association.NewPresenter(3).Panel(association.Compute(contingency.EdgeAttributes{PValue: contingency.Float(0.2)}))

	var buf bytes.Buffer
	require.NoError(t, NewExporter().Write(&buf, panel, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{StatisticsSheet}, f.GetSheetList())
}

func TestExporterSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edge.xlsx")
	attrs := sampleAttrs()
	grid, err := table.NewRenderer(2).Render(attrs)
	require.NoError(t, err)

	require.NoError(t, NewExporter().Save(path, association.Panel{}, grid))

	m, err := NewMatrixReader(path, ContingencySheet).ReadMatrix()
	assert.Error(t, err, "rendered sheet carries labels, not a bare table")
	assert.Nil(t, m)
}

func TestMatrixReaderCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, os.WriteFile(path, []byte("8,2\n\n2,8\n"), 0o644))

	m, err := NewMatrixReader(path, "").ReadMatrix()
	require.NoError(t, err)
	rows, cols := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 8.0, *m[1][1].Frequency)
}

func TestMatrixReaderExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{3, 1, 0}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{1, 3, 2}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	m, err := NewMatrixReader(path, "").ReadMatrix()
	require.NoError(t, err)
	rows, cols := m.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
}

func TestMatrixReaderRejects(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"ragged":     "1,2\n3\n",
		"non-number": "1,x\n3,4\n",
		"empty":      "\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".csv")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := NewMatrixReader(path, "").ReadMatrix()
			assert.ErrorIs(t, err, core.ErrInvalidMatrix)
		})
	}
}
