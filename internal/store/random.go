package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/traverse-learning/traverse/internal/courseware"
	"github.com/traverse-learning/traverse/internal/progress"
)

// randomRow adds the optional in-progress element. Both columns are NULL
// between picks; a NULL id and a real id are distinct states, never a
// sentinel.
type randomRow struct {
	pathwayRow
	InProgressElementID   *string `db:"in_progress_element_id"`
	InProgressElementType *string `db:"in_progress_element_type"`
}

var randomTable = newTable[randomRow]("random_pathway_progress")

func toInProgressColumns(e *courseware.Element) (id, typ *string) {
	if e == nil {
		return nil, nil
	}
	i := e.ID.String()
	t := string(e.Type)
	return &i, &t
}

func fromInProgressColumns(id, typ *string) (*courseware.Element, error) {
	if id == nil && typ == nil {
		return nil, nil
	}
	if id == nil || typ == nil {
		return nil, fmt.Errorf("in-progress element half stored: id=%v type=%v", id, typ)
	}
	elementID, err := uuid.Parse(*id)
	if err != nil {
		return nil, fmt.Errorf("parse in-progress element id %q: %w", *id, err)
	}
	elementType, err := courseware.ParseElementType(*typ)
	if err != nil {
		return nil, err
	}
	e := courseware.NewElement(elementID, elementType)
	return &e, nil
}

func toRandomRow(p *progress.RandomPathway) randomRow {
	row := randomRow{
		pathwayRow: pathwayRow{
			progressRow:                toProgressRow(p.Progress),
			ChildCompletionValues:      toFloatMap(p.ChildCompletionValues),
			ChildCompletionConfidences: toFloatMap(p.ChildCompletionConfidences),
			CompletedWalkables:         toIDList(p.CompletedWalkables),
		},
	}
	row.InProgressElementID, row.InProgressElementType = toInProgressColumns(p.InProgress)
	return row
}

func fromRandomRow(r randomRow) (*progress.RandomPathway, error) {
	env, err := fromProgressRow(r.progressRow)
	if err != nil {
		return nil, err
	}
	values, err := fromFloatMap(r.ChildCompletionValues)
	if err != nil {
		return nil, err
	}
	confidences, err := fromFloatMap(r.ChildCompletionConfidences)
	if err != nil {
		return nil, err
	}
	walkables, err := fromIDList(r.CompletedWalkables)
	if err != nil {
		return nil, err
	}
	inProgress, err := fromInProgressColumns(r.InProgressElementID, r.InProgressElementType)
	if err != nil {
		return nil, err
	}
	return &progress.RandomPathway{
		Progress:                   env,
		ChildCompletionValues:      values,
		ChildCompletionConfidences: confidences,
		CompletedWalkables:         walkables,
		InProgress:                 inProgress,
	}, nil
}

// RandomProgressRepo persists progress through random-pick pathways.
type RandomProgressRepo = progressRepo[randomRow, progress.RandomPathway]

// RandomProgress returns the repository for random pathway progress.
func (s *Store) RandomProgress() *RandomProgressRepo {
	return &progressRepo[randomRow, progress.RandomPathway]{
		store:    s,
		tbl:      randomTable,
		toRow:    toRandomRow,
		fromRow:  fromRandomRow,
		envelope: func(p *progress.RandomPathway) progress.Progress { return p.Progress },
	}
}
