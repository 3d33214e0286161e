package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/traverse-learning/traverse/internal/courseware"
	"github.com/traverse-learning/traverse/internal/progress"
)

// graphRow adds the current-walkable cursor. Graph pathways always have
// exactly one active node, so the cursor columns are non-null.
type graphRow struct {
	pathwayRow
	CurrentWalkableID   string `db:"current_walkable_id"`
	CurrentWalkableType string `db:"current_walkable_type"`
}

var graphTable = newTable[graphRow]("graph_pathway_progress")

func toGraphRow(p *progress.GraphPathway) graphRow {
	return graphRow{
		pathwayRow: pathwayRow{
			progressRow:                toProgressRow(p.Progress),
			ChildCompletionValues:      toFloatMap(p.ChildCompletionValues),
			ChildCompletionConfidences: toFloatMap(p.ChildCompletionConfidences),
			CompletedWalkables:         toIDList(p.CompletedWalkables),
		},
		CurrentWalkableID:   p.CurrentWalkable.ID.String(),
		CurrentWalkableType: string(p.CurrentWalkable.Type),
	}
}

func fromGraphRow(r graphRow) (*progress.GraphPathway, error) {
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
	currentID, err := uuid.Parse(r.CurrentWalkableID)
	if err != nil {
		return nil, fmt.Errorf("parse current walkable id %q: %w", r.CurrentWalkableID, err)
	}
	currentType, err := courseware.ParseElementType(r.CurrentWalkableType)
	if err != nil {
		return nil, err
	}
	return &progress.GraphPathway{
		Progress:                   env,
		ChildCompletionValues:      values,
		ChildCompletionConfidences: confidences,
		CompletedWalkables:         walkables,
		CurrentWalkable:            courseware.NewElement(currentID, currentType),
	}, nil
}

// GraphProgressRepo persists progress through graph pathways.
type GraphProgressRepo = progressRepo[graphRow, progress.GraphPathway]

// GraphProgress returns the repository for graph pathway progress.
func (s *Store) GraphProgress() *GraphProgressRepo {
	return &progressRepo[graphRow, progress.GraphPathway]{
		store:    s,
		tbl:      graphTable,
		toRow:    toGraphRow,
		fromRow:  fromGraphRow,
		envelope: func(p *progress.GraphPathway) progress.Progress { return p.Progress },
	}
}
