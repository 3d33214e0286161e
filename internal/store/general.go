package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/traverse-learning/traverse/internal/courseware"
	"github.com/traverse-learning/traverse/internal/progress"
)

// progressRow is the stored shape of the shared envelope. It backs the
// untyped progress tables directly and is embedded in every typed row.
type progressRow struct {
	ID                    string   `db:"id"`
	DeploymentID          string   `db:"deployment_id"`
	ChangeID              string   `db:"change_id"`
	CoursewareElementID   string   `db:"courseware_element_id"`
	CoursewareElementType string   `db:"courseware_element_type"`
	StudentID             string   `db:"student_id"`
	AttemptID             string   `db:"attempt_id"`
	EvaluationID          string   `db:"evaluation_id"`
	CompletionValue       *float64 `db:"completion_value"`
	CompletionConfidence  *float64 `db:"completion_confidence"`
}

var generalTable = newTable[progressRow]("progress")

func toProgressRow(p progress.Progress) progressRow {
	row := progressRow{
		ID:                    p.ID.String(),
		DeploymentID:          p.DeploymentID.String(),
		ChangeID:              p.ChangeID.String(),
		CoursewareElementID:   p.CoursewareElementID.String(),
		CoursewareElementType: string(p.CoursewareElementType),
		StudentID:             p.StudentID.String(),
		AttemptID:             p.AttemptID.String(),
		EvaluationID:          p.EvaluationID.String(),
	}
	// Both completion columns are always bound, NULL when absent. A record
	// is a whole new row, so there is no overwrite-with-null ambiguity.
	if p.Completion != nil {
		if p.Completion.Value != nil {
			v := float64(*p.Completion.Value)
			row.CompletionValue = &v
		}
		if p.Completion.Confidence != nil {
			c := float64(*p.Completion.Confidence)
			row.CompletionConfidence = &c
		}
	}
	return row
}

func fromProgressRow(r progressRow) (progress.Progress, error) {
	var p progress.Progress
	var err error

	if p.ID, err = uuid.Parse(r.ID); err != nil {
		return p, fmt.Errorf("parse progress id %q: %w", r.ID, err)
	}
	if p.DeploymentID, err = uuid.Parse(r.DeploymentID); err != nil {
		return p, fmt.Errorf("parse deployment id %q: %w", r.DeploymentID, err)
	}
	if p.ChangeID, err = uuid.Parse(r.ChangeID); err != nil {
		return p, fmt.Errorf("parse change id %q: %w", r.ChangeID, err)
	}
	if p.CoursewareElementID, err = uuid.Parse(r.CoursewareElementID); err != nil {
		return p, fmt.Errorf("parse courseware element id %q: %w", r.CoursewareElementID, err)
	}
	if p.CoursewareElementType, err = courseware.ParseElementType(r.CoursewareElementType); err != nil {
		return p, err
	}
	if p.StudentID, err = uuid.Parse(r.StudentID); err != nil {
		return p, fmt.Errorf("parse student id %q: %w", r.StudentID, err)
	}
	if p.AttemptID, err = uuid.Parse(r.AttemptID); err != nil {
		return p, fmt.Errorf("parse attempt id %q: %w", r.AttemptID, err)
	}
	if p.EvaluationID, err = uuid.Parse(r.EvaluationID); err != nil {
		return p, fmt.Errorf("parse evaluation id %q: %w", r.EvaluationID, err)
	}

	// Reattach a Completion only when at least one field was stored;
	// "no completion data" must survive the round trip.
	var value, confidence *float32
	if r.CompletionValue != nil {
		v := float32(*r.CompletionValue)
		value = &v
	}
	if r.CompletionConfidence != nil {
		c := float32(*r.CompletionConfidence)
		confidence = &c
	}
	p.Completion = progress.NewCompletion(value, confidence)

	return p, nil
}

// GeneralProgressRepo reads and writes the untyped envelope directly. Its
// canonical tables are the same progress tables typed variants shadow into,
// so a type-unaware caller can resolve any element's latest progress here.
type GeneralProgressRepo = progressRepo[progressRow, progress.Progress]

// GeneralProgress returns the repository for untyped envelope records.
func (s *Store) GeneralProgress() *GeneralProgressRepo {
	return &progressRepo[progressRow, progress.Progress]{
		store: s,
		tbl:   generalTable,
		toRow: func(p *progress.Progress) progressRow { return toProgressRow(*p) },
		fromRow: func(r progressRow) (*progress.Progress, error) {
			p, err := fromProgressRow(r)
			if err != nil {
				return nil, err
			}
			return &p, nil
		},
	}
}
