package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/traverse-learning/traverse/internal/progress"
)

// progressRepo is the single gateway/accessor implementation shared by all
// progress variants, parameterized over the physical row type R and the
// domain record type D. Each variant contributes its table binding and the
// two conversions; everything else — the denormalized write fan-out, the
// three read patterns, the not-found mapping — is written once here.
type progressRepo[R any, D any] struct {
	store   *Store
	tbl     table[R]
	toRow   func(*D) R
	fromRow func(R) (*D, error)
	// envelope is set on typed variants, which shadow-write their
	// envelope into the untyped progress tables for type-unaware readers.
	envelope func(*D) progress.Progress
}

// Persist issues the complete denormalized write set for one record as a
// single batch: the canonical by-id row, the by-courseware row, and for
// typed variants the untyped shadow rows. Records are immutable; persisting
// an updated state means persisting a new record with a newer id.
func (r *progressRepo[R, D]) Persist(ctx context.Context, p *D) error {
	ops := r.tbl.writes(r.toRow(p))
	if r.envelope != nil {
		ops = append(ops, generalTable.writes(toProgressRow(r.envelope(p)))...)
	}
	if err := r.store.multiWrite(ctx, ops); err != nil {
		return fmt.Errorf("persist %s: %w", r.tbl.canonical, err)
	}
	return nil
}

// FindByID returns exactly one historical record, or nil when no record
// has that id.
func (r *progressRepo[R, D]) FindByID(ctx context.Context, id uuid.UUID) (*D, error) {
	row, err := r.tbl.findByID(ctx, r.store.db, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return r.fromRow(*row)
}

// History returns the full ordered history for one (deployment, element,
// student), newest first.
func (r *progressRepo[R, D]) History(ctx context.Context, deploymentID, elementID, studentID uuid.UUID) ([]*D, error) {
	return r.historyN(ctx, deploymentID, elementID, studentID, 0)
}

// LatestN returns a bounded window of the history, newest first. The BKT
// pathway uses it to inspect the last few observations without loading the
// full lineage.
func (r *progressRepo[R, D]) LatestN(ctx context.Context, deploymentID, elementID, studentID uuid.UUID, n int) ([]*D, error) {
	return r.historyN(ctx, deploymentID, elementID, studentID, n)
}

// Latest returns the most recently written record for one (deployment,
// element, student), or nil when the student has never progressed there.
// "Most recent" is descending id order, not wall-clock time.
func (r *progressRepo[R, D]) Latest(ctx context.Context, deploymentID, elementID, studentID uuid.UUID) (*D, error) {
	row, err := r.tbl.latest(ctx, r.store.db, deploymentID, elementID, studentID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return r.fromRow(*row)
}

func (r *progressRepo[R, D]) historyN(ctx context.Context, deploymentID, elementID, studentID uuid.UUID, n int) ([]*D, error) {
	rows, err := r.tbl.history(ctx, r.store.db, deploymentID, elementID, studentID, n)
	if err != nil {
		return nil, err
	}
	out := make([]*D, 0, len(rows))
	for _, row := range rows {
		d, err := r.fromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
