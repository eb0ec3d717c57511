package answerset

import (
	"encoding/json"
	"fmt"
	"io"

	"edgestats/domain/answer"
	"edgestats/domain/contingency"
	"edgestats/domain/core"

	"github.com/tidwall/gjson"
)

// edgePaths are tried in order to locate the edge list of an answer document
var edgePaths = []string{"knowledge_graph.edges", "edges"}

// Parse decodes an answer document into an edge set.
// Edges without an id are given a generated one so they can still be stored.
func Parse(body []byte) (*answer.Set, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", core.ErrMalformedAnswer)
	}

	var edges gjson.Result
	for _, path := range edgePaths {
		if r := gjson.GetBytes(body, path); r.Exists() {
			edges = r
			break
		}
	}
	if !edges.Exists() {
		return nil, fmt.Errorf("%w: no edge list", core.ErrMalformedAnswer)
	}
	if !edges.IsArray() {
		return nil, fmt.Errorf("%w: edges must be an array", core.ErrMalformedAnswer)
	}

	set := &answer.Set{
		ID:    core.AnswerID(gjson.GetBytes(body, "id").String()),
		Edges: make([]answer.Edge, 0, len(edges.Array())),
	}

	var parseErr error
	edges.ForEach(func(idx, value gjson.Result) bool {
		edge, err := parseEdge(value)
		if err != nil {
			parseErr = fmt.Errorf("edge %d: %w", idx.Int(), err)
			return false
		}
		set.Edges = append(set.Edges, edge)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return set, nil
}

// Read parses an answer document from r
func Read(r io.Reader) (*answer.Set, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read answer: %w", err)
	}
	return Parse(body)
}

// ParseAttributes decodes a bare edge_attributes object
func ParseAttributes(body []byte) (contingency.EdgeAttributes, error) {
	var attrs contingency.EdgeAttributes
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return attrs, fmt.Errorf("%w: edge attributes must be a JSON object", core.ErrMalformedAnswer)
	}
	if err := json.Unmarshal(body, &attrs); err != nil {
		return attrs, fmt.Errorf("%w: %v", core.ErrMalformedAnswer, err)
	}
	return attrs, nil
}

func parseEdge(value gjson.Result) (answer.Edge, error) {
	if !value.IsObject() {
		return answer.Edge{}, fmt.Errorf("%w: edge must be an object", core.ErrMalformedAnswer)
	}

	edge := answer.Edge{
		ID:       core.EdgeID(value.Get("id").String()),
		SourceID: value.Get("source_id").String(),
		TargetID: value.Get("target_id").String(),
		Type:     value.Get("type").String(),
	}
	if edge.ID == "" {
		edge.ID = core.EdgeID(core.NewID())
	}

	if attrs := value.Get("edge_attributes"); attrs.Exists() && attrs.Type != gjson.Null {
		parsed, err := ParseAttributes([]byte(attrs.Raw))
		if err != nil {
			return answer.Edge{}, err
		}
		edge.Attributes = parsed
	}
	return edge, nil
}
