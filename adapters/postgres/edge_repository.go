package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"edgestats/domain/answer"
	"edgestats/domain/core"
	"edgestats/internal/errors"
	"edgestats/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// edgeRow is the kg_edges row shape
type edgeRow struct {
	AnswerID   string `db:"answer_id"`
	EdgeID     string `db:"edge_id"`
	Position   int    `db:"position"`
	SourceID   string `db:"source_id"`
	TargetID   string `db:"target_id"`
	EdgeType   string `db:"edge_type"`
	Attributes []byte `db:"attributes"`
}

const selectEdgeColumns = `SELECT answer_id, edge_id, position, source_id, target_id, edge_type, attributes FROM kg_edges`

// EdgeRepositoryImpl implements EdgeRepository for PostgreSQL
type EdgeRepositoryImpl struct {
	db *sqlx.DB
}

// NewEdgeRepository creates a new PostgreSQL edge repository
func NewEdgeRepository(db *sqlx.DB) ports.EdgeRepository {
	return &EdgeRepositoryImpl{db: db}
}

// GetEdge retrieves a single edge of an answer
func (r *EdgeRepositoryImpl) GetEdge(ctx context.Context, answerID core.AnswerID, edgeID core.EdgeID) (*answer.Edge, error) {
	var row edgeRow
	err := r.db.GetContext(ctx, &row, selectEdgeColumns+`
		WHERE answer_id = $1 AND edge_id = $2
	`, answerID.String(), edgeID.String())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", core.ErrEdgeNotFound, answerID, edgeID)
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load edge", err)
	}

	edge, err := row.toEdge()
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// GetEdges retrieves a subset of an answer's edges in one round trip
func (r *EdgeRepositoryImpl) GetEdges(ctx context.Context, answerID core.AnswerID, edgeIDs []core.EdgeID) ([]answer.Edge, error) {
	if len(edgeIDs) == 0 {
		return []answer.Edge{}, nil
	}
	ids := make([]string, len(edgeIDs))
	for i, id := range edgeIDs {
		ids[i] = id.String()
	}

	var rows []edgeRow
	err := r.db.SelectContext(ctx, &rows, selectEdgeColumns+`
		WHERE answer_id = $1 AND edge_id = ANY($2)
		ORDER BY position, edge_id
	`, answerID.String(), pq.Array(ids))
	if err != nil {
		return nil, errors.DatabaseError("failed to load edges", err)
	}
	return toEdges(rows)
}

// ListEdges retrieves every edge of an answer
func (r *EdgeRepositoryImpl) ListEdges(ctx context.Context, answerID core.AnswerID) ([]answer.Edge, error) {
	var rows []edgeRow
	err := r.db.SelectContext(ctx, &rows, selectEdgeColumns+`
		WHERE answer_id = $1
		ORDER BY position, edge_id
	`, answerID.String())
	if err != nil {
		return nil, errors.DatabaseError("failed to list edges", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrAnswerNotFound, answerID)
	}
	return toEdges(rows)
}

// SaveEdges upserts the edges of an answer in a single transaction
func (r *EdgeRepositoryImpl) SaveEdges(ctx context.Context, answerID core.AnswerID, edges []answer.Edge) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	for i, edge := range edges {
		row, err := fromEdge(answerID, i, edge)
		if err != nil {
			return err
		}
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO kg_edges (answer_id, edge_id, position, source_id, target_id, edge_type, attributes)
			VALUES (:answer_id, :edge_id, :position, :source_id, :target_id, :edge_type, :attributes)
			ON CONFLICT (answer_id, edge_id) DO UPDATE SET
				position = EXCLUDED.position,
				source_id = EXCLUDED.source_id,
				target_id = EXCLUDED.target_id,
				edge_type = EXCLUDED.edge_type,
				attributes = EXCLUDED.attributes,
				updated_at = NOW()
		`, row)
		if err != nil {
			return errors.DatabaseError(fmt.Sprintf("failed to save edge %s", edge.ID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("failed to commit edges", err)
	}
	return nil
}

func fromEdge(answerID core.AnswerID, position int, edge answer.Edge) (edgeRow, error) {
	attrs, err := json.Marshal(edge.Attributes)
	if err != nil {
		return edgeRow{}, errors.Wrapf(err, "failed to encode attributes of edge %s", edge.ID)
	}
	return edgeRow{
		AnswerID:   answerID.String(),
		EdgeID:     edge.ID.String(),
		Position:   position,
		SourceID:   edge.SourceID,
		TargetID:   edge.TargetID,
		EdgeType:   edge.Type,
		Attributes: attrs,
	}, nil
}

func (row edgeRow) toEdge() (answer.Edge, error) {
	edge := answer.Edge{
		ID:       core.EdgeID(row.EdgeID),
		SourceID: row.SourceID,
		TargetID: row.TargetID,
		Type:     row.EdgeType,
	}
	if len(row.Attributes) > 0 {
		if err := json.Unmarshal(row.Attributes, &edge.Attributes); err != nil {
			return answer.Edge{}, errors.DatabaseError(fmt.Sprintf("corrupt attributes for edge %s", row.EdgeID), err)
		}
	}
	return edge, nil
}

func toEdges(rows []edgeRow) ([]answer.Edge, error) {
	edges := make([]answer.Edge, 0, len(rows))
	for _, row := range rows {
		edge, err := row.toEdge()
		if err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, nil
}
