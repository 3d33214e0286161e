package store

import "github.com/traverse-learning/traverse/internal/progress"

// bktRow adds the three knowledge-tracing probabilities. They are the
// sufficient statistics of one update step and always travel in the same
// row; they are never updated independently.
type bktRow struct {
	pathwayRow
	InProgressElementID   *string `db:"in_progress_element_id"`
	InProgressElementType *string `db:"in_progress_element_type"`
	PLn                   float64 `db:"p_ln"`
	PLnMinusGivenActual   float64 `db:"p_ln_minus_given_actual"`
	PCorrect              float64 `db:"p_correct"`
}

var bktTable = newTable[bktRow]("bkt_pathway_progress")

func toBKTRow(p *progress.BKTPathway) bktRow {
	row := bktRow{
		pathwayRow: pathwayRow{
			progressRow:                toProgressRow(p.Progress),
			ChildCompletionValues:      toFloatMap(p.ChildCompletionValues),
			ChildCompletionConfidences: toFloatMap(p.ChildCompletionConfidences),
			CompletedWalkables:         toIDList(p.CompletedWalkables),
		},
		PLn:                 p.PLn,
		PLnMinusGivenActual: p.PLnMinusGivenActual,
		PCorrect:            p.PCorrect,
	}
	row.InProgressElementID, row.InProgressElementType = toInProgressColumns(p.InProgress)
	return row
}

func fromBKTRow(r bktRow) (*progress.BKTPathway, error) {
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
	return &progress.BKTPathway{
		Progress:                   env,
		ChildCompletionValues:      values,
		ChildCompletionConfidences: confidences,
		CompletedWalkables:         walkables,
		InProgress:                 inProgress,
		PLn:                        r.PLn,
		PLnMinusGivenActual:        r.PLnMinusGivenActual,
		PCorrect:                   r.PCorrect,
	}, nil
}

// BKTProgressRepo persists progress through Bayesian Knowledge Tracing
// pathways. Its LatestN read serves the knowledge-tracing algorithm, which
// inspects a bounded window of recent observations.
type BKTProgressRepo = progressRepo[bktRow, progress.BKTPathway]

// BKTProgress returns the repository for BKT pathway progress.
func (s *Store) BKTProgress() *BKTProgressRepo {
	return &progressRepo[bktRow, progress.BKTPathway]{
		store:    s,
		tbl:      bktTable,
		toRow:    toBKTRow,
		fromRow:  fromBKTRow,
		envelope: func(p *progress.BKTPathway) progress.Progress { return p.Progress },
	}
}
