package answer

import (
	"edgestats/domain/contingency"
	"edgestats/domain/core"
)

// Edge is one knowledge-graph edge of an answer, with its association payload.
type Edge struct {
	ID         core.EdgeID                `json:"id"`
	SourceID   string                     `json:"source_id"`
	TargetID   string                     `json:"target_id"`
	Type       string                     `json:"type"`
	Attributes contingency.EdgeAttributes `json:"edge_attributes"`
}

// Set is the collection of edges returned for one answer.
type Set struct {
	ID    core.AnswerID `json:"id"`
	Edges []Edge        `json:"edges"`
}
