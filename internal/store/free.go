package store

import "github.com/traverse-learning/traverse/internal/progress"

var freeTable = newTable[pathwayRow]("free_pathway_progress")

func toFreeRow(p *progress.FreePathway) pathwayRow {
	return pathwayRow{
		progressRow:                toProgressRow(p.Progress),
		ChildCompletionValues:      toFloatMap(p.ChildCompletionValues),
		ChildCompletionConfidences: toFloatMap(p.ChildCompletionConfidences),
		CompletedWalkables:         toIDList(p.CompletedWalkables),
	}
}

func fromFreeRow(r pathwayRow) (*progress.FreePathway, error) {
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
	return &progress.FreePathway{
		Progress:                   env,
		ChildCompletionValues:      values,
		ChildCompletionConfidences: confidences,
		CompletedWalkables:         walkables,
	}, nil
}

// FreeProgressRepo persists progress through pathways traversable in any
// order.
type FreeProgressRepo = progressRepo[pathwayRow, progress.FreePathway]

// FreeProgress returns the repository for free pathway progress.
func (s *Store) FreeProgress() *FreeProgressRepo {
	return &progressRepo[pathwayRow, progress.FreePathway]{
		store:    s,
		tbl:      freeTable,
		toRow:    toFreeRow,
		fromRow:  fromFreeRow,
		envelope: func(p *progress.FreePathway) progress.Progress { return p.Progress },
	}
}
