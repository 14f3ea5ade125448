package student

import (
	"context"
	"errors"

	"sumo-go/internal/student/ranking"
)

var (
	ErrStudentNotFound = errors.New("student not found")
	ErrInvalidID       = errors.New("invalid student id")
	ErrInvalidRecord   = errors.New("invalid student record")
)

// Student is the read-only record returned by a Source
type Student struct {
	ID         string   `json:"id" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Points     int      `json:"points" validate:"min=0"`
	Level      string   `json:"level"`
	ClassName  string   `json:"class_name,omitempty"`
	Rank       *int     `json:"rank,omitempty"`
	Violations []string `json:"violations,omitempty"`
}

// Source looks up student records by identifier.
// Find returns ErrStudentNotFound when the identifier is unknown.
type Source interface {
	Find(ctx context.Context, id string) (*Student, error)
}

// Result is a student record together with everything derived from its points
type Result struct {
	Student     *Student
	CurrentTier ranking.Tier
	NextLevel   *ranking.NextLevel
	Celebration ranking.Celebration
}
