package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Every progress variant is stored denormalized: a canonical table keyed by
// record id for point lookups and full history, and a by-courseware table
// whose primary key (deployment_id, courseware_element_id, student_id, id)
// serves latest/history queries by descending id without a secondary index.
// Typed variants additionally shadow their envelope into the untyped
// progress tables so type-unaware callers can resolve any element's latest
// progress.

// envelopeColumns are shared by every progress table.
const envelopeColumns = `
	id TEXT NOT NULL,
	deployment_id TEXT NOT NULL,
	change_id TEXT NOT NULL,
	courseware_element_id TEXT NOT NULL,
	courseware_element_type TEXT NOT NULL,
	student_id TEXT NOT NULL,
	attempt_id TEXT NOT NULL,
	evaluation_id TEXT NOT NULL,
	completion_value REAL,
	completion_confidence REAL`

const childCompletionColumns = `,
	child_completion_values TEXT,
	child_completion_confidences TEXT`

const walkableColumns = childCompletionColumns + `,
	completed_walkables TEXT`

const graphColumns = walkableColumns + `,
	current_walkable_id TEXT NOT NULL,
	current_walkable_type TEXT NOT NULL`

const inProgressColumns = walkableColumns + `,
	in_progress_element_id TEXT,
	in_progress_element_type TEXT`

const bktColumns = inProgressColumns + `,
	p_ln REAL NOT NULL,
	p_ln_minus_given_actual REAL NOT NULL,
	p_correct REAL NOT NULL`

// progressDDL renders the canonical and by-courseware tables for one
// progress variant.
func progressDDL(base, extraColumns string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%s%s,
	PRIMARY KEY (id))`, base, envelopeColumns, extraColumns),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s_by_courseware (%s%s,
	PRIMARY KEY (deployment_id, courseware_element_id, student_id, id))`,
			base, envelopeColumns, extraColumns),
	}
}

func schemaStatements() []string {
	var stmts []string
	stmts = append(stmts, progressDDL("progress", "")...)
	stmts = append(stmts, progressDDL("activity_progress", childCompletionColumns)...)
	stmts = append(stmts, progressDDL("linear_pathway_progress", walkableColumns)...)
	stmts = append(stmts, progressDDL("free_pathway_progress", walkableColumns)...)
	stmts = append(stmts, progressDDL("graph_pathway_progress", graphColumns)...)
	stmts = append(stmts, progressDDL("random_pathway_progress", inProgressColumns)...)
	stmts = append(stmts, progressDDL("bkt_pathway_progress", bktColumns)...)

	const attemptColumns = `
	id TEXT NOT NULL,
	parent_id TEXT,
	deployment_id TEXT NOT NULL,
	courseware_element_id TEXT NOT NULL,
	courseware_element_type TEXT NOT NULL,
	student_id TEXT NOT NULL,
	value INTEGER NOT NULL`

	stmts = append(stmts,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS attempts (%s,
	PRIMARY KEY (id))`, attemptColumns),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS attempts_by_courseware (%s,
	PRIMARY KEY (deployment_id, courseware_element_id, student_id, id))`, attemptColumns),
	)
	return stmts
}

// migrate creates every table that does not exist yet. All DDL is
// idempotent, so migrate is safe to run on every open.
func migrate(db *sqlx.DB) error {
	for _, stmt := range schemaStatements() {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
