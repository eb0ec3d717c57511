package answerset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edgestats/domain/core"
)

const answerDoc = `{
  "id": "answer-1",
  "knowledge_graph": {
    "nodes": [],
    "edges": [
      {
        "id": "e1",
        "source_id": "MONDO:0005148",
        "target_id": "CHEBI:6801",
        "type": "association",
        "edge_attributes": {
          "feature_matrix": [
            [{"frequency": 8, "row_percentage": 0.8, "column_percentage": 0.8, "total_percentage": 0.4},
             {"frequency": 2, "row_percentage": 0.2, "column_percentage": 0.2, "total_percentage": 0.1}],
            [{"frequency": 2, "row_percentage": 0.2, "column_percentage": 0.2, "total_percentage": 0.1},
             {"frequency": 8, "row_percentage": 0.8, "column_percentage": 0.8, "total_percentage": 0.4}]
          ],
          "feature_a": {"feature_name": "AgeStudyStart", "feature_qualifiers": [{"operator": ">=", "value": 18}, {"operator": "<", "value": 18}]},
          "feature_b": {"feature_name": "Sex", "feature_qualifiers": [{"operator": "=", "value": "F"}, {"operator": "=", "value": "M"}]},
          "chi_squared": 7.2,
          "p_value": 0.0073
        }
      },
      {"source_id": "a", "target_id": "b", "type": "related_to"}
    ]
  }
}`

func TestParseKnowledgeGraph(t *testing.T) {
	set, err := Parse([]byte(answerDoc))
	require.NoError(t, err)

	assert.Equal(t, core.AnswerID("answer-1"), set.ID)
	require.Len(t, set.Edges, 2)

	first := set.Edges[0]
	assert.Equal(t, core.EdgeID("e1"), first.ID)
	assert.True(t, first.Attributes.HasTable())
	assert.Equal(t, 7.2, *first.Attributes.ChiSquared)
	label, ok := first.Attributes.FeatureA.Label(0)
	require.True(t, ok)
	assert.Equal(t, "AgeStudyStart ≥ 18", label)

	second := set.Edges[1]
	assert.NotEmpty(t, second.ID, "missing ids are generated")
	assert.False(t, second.Attributes.HasTable())
}

func TestParseTopLevelEdges(t *testing.T) {
	set, err := Read(strings.NewReader(`{"edges": [{"id": "x", "edge_attributes": {"p_value": 0.2}}]}`))
	require.NoError(t, err)
	require.Len(t, set.Edges, 1)
	assert.Equal(t, 0.2, *set.Edges[0].Attributes.PValue)
	assert.Nil(t, set.Edges[0].Attributes.ChiSquared)
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"invalid json":       `{"edges": [`,
		"no edges":           `{"id": "a"}`,
		"edges not an array": `{"edges": {"id": "x"}}`,
		"edge not object":    `{"edges": [42]}`,
		"attrs not object":   `{"edges": [{"id": "x", "edge_attributes": [1, 2]}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrMalformedAnswer)
		})
	}
}

func TestParseAttributesWithheldPercentages(t *testing.T) {
	attrs, err := ParseAttributes([]byte(`{"feature_matrix": [[{"frequency": 3, "row_percentage": -1}]]}`))
	require.NoError(t, err)
	assert.Nil(t, attrs.FeatureMatrix[0][0].RowPercentage)
}

func TestParseKeepsGoodEdgeNextToBadTable(t *testing.T) {
	doc := `{"id": "a2", "edges": [
		{"id": "a", "edge_attributes": {"feature_matrix": [[{"frequency": 8}, {"frequency": 2}], [{"frequency": 2}, {"frequency": 8}]], "chi_squared": 7.2}},
		{"id": "b", "edge_attributes": {"feature_matrix": [[{"frequency": "n/a"}, {"frequency": 2}], [{"frequency": 2}, {"frequency": 8}]], "chi_squared": 7.2}}
	]}`

	set, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, set.Edges, 2)

	assert.True(t, set.Edges[0].Attributes.FeatureMatrix.IsValid())
	assert.True(t, set.Edges[1].Attributes.HasTable())
	assert.False(t, set.Edges[1].Attributes.FeatureMatrix.IsValid())
	assert.Equal(t, 7.2, *set.Edges[1].Attributes.ChiSquared)
}
