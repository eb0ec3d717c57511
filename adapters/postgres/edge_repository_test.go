package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgestats/domain/answer"
	"edgestats/domain/contingency"
	"edgestats/domain/core"
	"edgestats/internal/errors"
)

func TestEdgeRowRoundTrip(t *testing.T) {
	edge := answer.Edge{
		ID:       "e1",
		SourceID: "MONDO:0004979",
		TargetID: "CHEBI:15365",
		Type:     "association",
		Attributes: contingency.EdgeAttributes{
			FeatureMatrix: contingency.FromFrequencies([][]float64{{8, 2}, {2, 8}}),
			PValue:        contingency.Float(0.01),
		},
	}

	row, err := fromEdge(core.AnswerID("a1"), 3, edge)
	require.NoError(t, err)
	assert.Equal(t, "a1", row.AnswerID)
	assert.Equal(t, 3, row.Position)
	assert.Contains(t, string(row.Attributes), `"p_value":0.01`)

	back, err := row.toEdge()
	require.NoError(t, err)
	assert.Equal(t, edge.ID, back.ID)
	assert.Equal(t, edge.Type, back.Type)
	assert.True(t, back.Attributes.FeatureMatrix.IsValid())
	assert.Equal(t, 0.01, *back.Attributes.PValue)
}

func TestEdgeRowCorruptAttributes(t *testing.T) {
	_, err := edgeRow{EdgeID: "bad", Attributes: []byte("{not json")}.toEdge()
	require.Error(t, err)
	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))
}

func TestEdgeRowEmptyAttributes(t *testing.T) {
	edge, err := edgeRow{EdgeID: "bare"}.toEdge()
	require.NoError(t, err)
	assert.False(t, edge.Attributes.HasTable())
}
