package store

import "github.com/traverse-learning/traverse/internal/progress"

// activityRow adds the per-child completion rollup maps to the envelope.
type activityRow struct {
	progressRow
	ChildCompletionValues      floatMap `db:"child_completion_values"`
	ChildCompletionConfidences floatMap `db:"child_completion_confidences"`
}

var activityTable = newTable[activityRow]("activity_progress")

func toActivityRow(p *progress.Activity) activityRow {
	return activityRow{
		progressRow:                toProgressRow(p.Progress),
		ChildCompletionValues:      toFloatMap(p.ChildCompletionValues),
		ChildCompletionConfidences: toFloatMap(p.ChildCompletionConfidences),
	}
}

func fromActivityRow(r activityRow) (*progress.Activity, error) {
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
	return &progress.Activity{
		Progress:                   env,
		ChildCompletionValues:      values,
		ChildCompletionConfidences: confidences,
	}, nil
}

// ActivityProgressRepo persists activity progress. Alongside its own typed
// tables it shadow-writes the envelope into the untyped progress tables.
type ActivityProgressRepo = progressRepo[activityRow, progress.Activity]

// ActivityProgress returns the repository for activity progress records.
func (s *Store) ActivityProgress() *ActivityProgressRepo {
	return &progressRepo[activityRow, progress.Activity]{
		store:    s,
		tbl:      activityTable,
		toRow:    toActivityRow,
		fromRow:  fromActivityRow,
		envelope: func(p *progress.Activity) progress.Progress { return p.Progress },
	}
}
