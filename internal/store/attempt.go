package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/traverse-learning/traverse/internal/attempt"
	"github.com/traverse-learning/traverse/internal/courseware"
)

// attemptRow is the stored shape of one attempt ledger entry.
type attemptRow struct {
	ID                    string  `db:"id"`
	ParentID              *string `db:"parent_id"`
	DeploymentID          string  `db:"deployment_id"`
	CoursewareElementID   string  `db:"courseware_element_id"`
	CoursewareElementType string  `db:"courseware_element_type"`
	StudentID             string  `db:"student_id"`
	Value                 int     `db:"value"`
}

var attemptTable = newTable[attemptRow]("attempts")

func toAttemptRow(a *attempt.Attempt) attemptRow {
	row := attemptRow{
		ID:                    a.ID.String(),
		DeploymentID:          a.DeploymentID.String(),
		CoursewareElementID:   a.CoursewareElementID.String(),
		CoursewareElementType: string(a.CoursewareElementType),
		StudentID:             a.StudentID.String(),
		Value:                 a.Value,
	}
	if a.ParentID != nil {
		p := a.ParentID.String()
		row.ParentID = &p
	}
	return row
}

func fromAttemptRow(r attemptRow) (*attempt.Attempt, error) {
	var a attempt.Attempt
	var err error

	if a.ID, err = uuid.Parse(r.ID); err != nil {
		return nil, fmt.Errorf("parse attempt id %q: %w", r.ID, err)
	}
	if r.ParentID != nil {
		parent, err := uuid.Parse(*r.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parse parent attempt id %q: %w", *r.ParentID, err)
		}
		a.ParentID = &parent
	}
	if a.DeploymentID, err = uuid.Parse(r.DeploymentID); err != nil {
		return nil, fmt.Errorf("parse deployment id %q: %w", r.DeploymentID, err)
	}
	if a.CoursewareElementID, err = uuid.Parse(r.CoursewareElementID); err != nil {
		return nil, fmt.Errorf("parse courseware element id %q: %w", r.CoursewareElementID, err)
	}
	if a.CoursewareElementType, err = courseware.ParseElementType(r.CoursewareElementType); err != nil {
		return nil, err
	}
	if a.StudentID, err = uuid.Parse(r.StudentID); err != nil {
		return nil, fmt.Errorf("parse student id %q: %w", r.StudentID, err)
	}
	a.Value = r.Value
	return &a, nil
}

// AttemptRepo is the append-only attempt ledger. Attempts are never
// mutated: a retry is a new record with the next ordinal value, and
// "latest" is purely a function of write order.
type AttemptRepo struct {
	store *Store
}

// Attempts returns the attempt ledger.
func (s *Store) Attempts() *AttemptRepo {
	return &AttemptRepo{store: s}
}

// Persist appends one attempt to both the canonical and the by-courseware
// representation as a single batch.
func (r *AttemptRepo) Persist(ctx context.Context, a *attempt.Attempt) error {
	if err := r.store.multiWrite(ctx, attemptTable.writes(toAttemptRow(a))); err != nil {
		return fmt.Errorf("persist attempt: %w", err)
	}
	return nil
}

// FindByID returns the attempt with the given id, or nil when none exists.
func (r *AttemptRepo) FindByID(ctx context.Context, id uuid.UUID) (*attempt.Attempt, error) {
	row, err := attemptTable.findByID(ctx, r.store.db, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return fromAttemptRow(*row)
}

// FindLatest returns the most recent attempt for one (deployment, element,
// student), or nil when the student has never attempted the element.
func (r *AttemptRepo) FindLatest(ctx context.Context, deploymentID, elementID, studentID uuid.UUID) (*attempt.Attempt, error) {
	row, err := attemptTable.latest(ctx, r.store.db, deploymentID, elementID, studentID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return fromAttemptRow(*row)
}

// History returns every attempt for one (deployment, element, student),
// newest first.
func (r *AttemptRepo) History(ctx context.Context, deploymentID, elementID, studentID uuid.UUID) ([]*attempt.Attempt, error) {
	rows, err := attemptTable.history(ctx, r.store.db, deploymentID, elementID, studentID, 0)
	if err != nil {
		return nil, err
	}
	out := make([]*attempt.Attempt, 0, len(rows))
	for _, row := range rows {
		a, err := fromAttemptRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
