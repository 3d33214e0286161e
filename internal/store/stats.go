package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// TypeCount is the number of progress records stored for one element type.
type TypeCount struct {
	ElementType string `db:"courseware_element_type"`
	Count       int    `db:"n"`
}

// DeploymentStats summarizes what one deployment has accumulated. Counts
// come from the untyped progress table, which shadows every typed write,
// so they cover all variants.
type DeploymentStats struct {
	DeploymentID       uuid.UUID
	Records            int
	Students           int
	Attempts           int
	AvgCompletionValue *float64
	ByElementType      []TypeCount
}

// DeploymentStats aggregates progress and attempt counts for a deployment.
func (s *Store) DeploymentStats(ctx context.Context, deploymentID uuid.UUID) (*DeploymentStats, error) {
	stats := &DeploymentStats{DeploymentID: deploymentID}
	id := deploymentID.String()

	row := s.db.QueryRowxContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT student_id), AVG(completion_value)
		FROM progress WHERE deployment_id = ?`, id)
	if err := row.Scan(&stats.Records, &stats.Students, &stats.AvgCompletionValue); err != nil {
		return nil, fmt.Errorf("aggregate progress for deployment %s: %w", deploymentID, err)
	}

	if err := s.db.GetContext(ctx, &stats.Attempts,
		`SELECT COUNT(*) FROM attempts WHERE deployment_id = ?`, id); err != nil {
		return nil, fmt.Errorf("count attempts for deployment %s: %w", deploymentID, err)
	}

	if err := s.db.SelectContext(ctx, &stats.ByElementType, `
		SELECT courseware_element_type, COUNT(*) AS n
		FROM progress WHERE deployment_id = ?
		GROUP BY courseware_element_type
		ORDER BY n DESC`, id); err != nil {
		return nil, fmt.Errorf("count by element type for deployment %s: %w", deploymentID, err)
	}
	return stats, nil
}
