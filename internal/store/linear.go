package store

import "github.com/traverse-learning/traverse/internal/progress"

// pathwayRow is the stored shape shared by linear and free pathways: the
// envelope, the child rollup maps, and the ordered list of completed
// walkables.
type pathwayRow struct {
	progressRow
	ChildCompletionValues      floatMap `db:"child_completion_values"`
	ChildCompletionConfidences floatMap `db:"child_completion_confidences"`
	CompletedWalkables         idList   `db:"completed_walkables"`
}

var linearTable = newTable[pathwayRow]("linear_pathway_progress")

func toLinearRow(p *progress.LinearPathway) pathwayRow {
	return pathwayRow{
		progressRow:                toProgressRow(p.Progress),
		ChildCompletionValues:      toFloatMap(p.ChildCompletionValues),
		ChildCompletionConfidences: toFloatMap(p.ChildCompletionConfidences),
		CompletedWalkables:         toIDList(p.CompletedWalkables),
	}
}

func fromLinearRow(r pathwayRow) (*progress.LinearPathway, error) {
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
	return &progress.LinearPathway{
		Progress:                   env,
		ChildCompletionValues:      values,
		ChildCompletionConfidences: confidences,
		CompletedWalkables:         walkables,
	}, nil
}

// LinearProgressRepo persists progress through strictly ordered pathways.
type LinearProgressRepo = progressRepo[pathwayRow, progress.LinearPathway]

// LinearProgress returns the repository for linear pathway progress.
func (s *Store) LinearProgress() *LinearProgressRepo {
	return &progressRepo[pathwayRow, progress.LinearPathway]{
		store:    s,
		tbl:      linearTable,
		toRow:    toLinearRow,
		fromRow:  fromLinearRow,
		envelope: func(p *progress.LinearPathway) progress.Progress { return p.Progress },
	}
}
