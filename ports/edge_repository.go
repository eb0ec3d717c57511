package ports

import (
	"context"

	"edgestats/domain/answer"
	"edgestats/domain/core"
)

// EdgeRepository stores knowledge-graph edges with their association payload
type EdgeRepository interface {
	// GetEdge returns one edge of an answer, core.ErrEdgeNotFound if absent
	GetEdge(ctx context.Context, answerID core.AnswerID, edgeID core.EdgeID) (*answer.Edge, error)

	// GetEdges returns the requested edges in storage order; unknown ids are skipped
	GetEdges(ctx context.Context, answerID core.AnswerID, edgeIDs []core.EdgeID) ([]answer.Edge, error)

	// ListEdges returns every edge of an answer, core.ErrAnswerNotFound if there are none
	ListEdges(ctx context.Context, answerID core.AnswerID) ([]answer.Edge, error)

	// SaveEdges upserts the edges of an answer
	SaveEdges(ctx context.Context, answerID core.AnswerID, edges []answer.Edge) error
}
