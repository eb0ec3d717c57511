package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	AnswerID ID
	EdgeID   ID
	ReportID ID
)

func (id AnswerID) String() string { return ID(id).String() }
func (id EdgeID) String() string   { return ID(id).String() }
func (id ReportID) String() string { return ID(id).String() }

// NewReportID creates a time-ordered identifier for a generated report or export
func NewReportID() ReportID {
	return ReportID(NewID())
}

// ParseAnswerID parses a string into AnswerID
func ParseAnswerID(s string) (AnswerID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("answer ID cannot be empty")
	}
	return AnswerID(s), nil
}

// ParseEdgeID parses a string into EdgeID
func ParseEdgeID(s string) (EdgeID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("edge ID cannot be empty")
	}
	return EdgeID(s), nil
}
