// Package progress models the append-only learner progress records produced
// while a student traverses a published courseware tree. One shared envelope
// is embedded in a closed family of pathway-specific variants; records are
// immutable once constructed, and "updating" progress always means a new
// record with a newer id.
package progress

import (
	"github.com/google/uuid"

	"github.com/traverse-learning/traverse/internal/courseware"
)

// Progress is the envelope shared by every variant. The deployment, change,
// element, student and attempt fields never change across the lineage of
// records describing one conceptual state; only the id, the evaluation
// reference, the completion and the variant-specific fields evolve.
type Progress struct {
	ID                    uuid.UUID               `json:"id"`
	DeploymentID          uuid.UUID               `json:"deploymentId"`
	ChangeID              uuid.UUID               `json:"changeId"`
	CoursewareElementID   uuid.UUID               `json:"coursewareElementId"`
	CoursewareElementType courseware.ElementType  `json:"coursewareElementType"`
	StudentID             uuid.UUID               `json:"studentId"`
	AttemptID             uuid.UUID               `json:"attemptId"`
	EvaluationID          uuid.UUID               `json:"evaluationId"`
	Completion            *Completion             `json:"completion,omitempty"`
}

// NewID returns a time-ordered globally unique record id. Later ids are
// newer; the id doubles as the record's version token, so descending id
// order is descending write order.
func NewID() (uuid.UUID, error) {
	return uuid.NewV7()
}

// Activity carries the per-child completion rollup for an activity node.
// The maps are keyed by child element id; key set and value precision must
// round-trip exactly because the rollup algorithm reads back what it wrote.
type Activity struct {
	Progress
	ChildCompletionValues      map[uuid.UUID]float32 `json:"childCompletionValues"`
	ChildCompletionConfidences map[uuid.UUID]float32 `json:"childCompletionConfidences"`
}

// LinearPathway is progress through a strictly ordered pathway.
// CompletedWalkables preserves completion order, which the sequencer uses
// to resume.
type LinearPathway struct {
	Progress
	ChildCompletionValues      map[uuid.UUID]float32 `json:"childCompletionValues"`
	ChildCompletionConfidences map[uuid.UUID]float32 `json:"childCompletionConfidences"`
	CompletedWalkables         []uuid.UUID           `json:"completedWalkables"`
}

// FreePathway is progress through a pathway the student may traverse in
// any order.
type FreePathway struct {
	Progress
	ChildCompletionValues      map[uuid.UUID]float32 `json:"childCompletionValues"`
	ChildCompletionConfidences map[uuid.UUID]float32 `json:"childCompletionConfidences"`
	CompletedWalkables         []uuid.UUID           `json:"completedWalkables"`
}

// GraphPathway is progress through a graph pathway. Graph pathways are not
// strictly ordered; the student occupies exactly one node at a time, carried
// as the current walkable cursor.
type GraphPathway struct {
	Progress
	ChildCompletionValues      map[uuid.UUID]float32 `json:"childCompletionValues"`
	ChildCompletionConfidences map[uuid.UUID]float32 `json:"childCompletionConfidences"`
	CompletedWalkables         []uuid.UUID           `json:"completedWalkables"`
	CurrentWalkable            courseware.Element    `json:"currentWalkable"`
}

// RandomPathway is progress through a pathway that picks the next walkable
// at random. InProgress is nil between picks; a nil element and a real
// element id are distinguishable states.
type RandomPathway struct {
	Progress
	ChildCompletionValues      map[uuid.UUID]float32 `json:"childCompletionValues"`
	ChildCompletionConfidences map[uuid.UUID]float32 `json:"childCompletionConfidences"`
	CompletedWalkables         []uuid.UUID           `json:"completedWalkables"`
	InProgress                 *courseware.Element   `json:"inProgress,omitempty"`
}

// BKTPathway is progress through a Bayesian Knowledge Tracing pathway. The
// three probabilities are the sufficient statistics of one knowledge-tracing
// update step and are always written together as one record:
//
//	PLn                  — P(skill known) before this observation
//	PLnMinusGivenActual  — posterior after the actual observed outcome
//	PCorrect             — P(correct response) given the knowledge state
//
// All three lie in [0, 1].
type BKTPathway struct {
	Progress
	ChildCompletionValues      map[uuid.UUID]float32 `json:"childCompletionValues"`
	ChildCompletionConfidences map[uuid.UUID]float32 `json:"childCompletionConfidences"`
	CompletedWalkables         []uuid.UUID           `json:"completedWalkables"`
	InProgress                 *courseware.Element   `json:"inProgress,omitempty"`
	PLn                        float64               `json:"pLn"`
	PLnMinusGivenActual        float64               `json:"pLnMinusGivenActual"`
	PCorrect                   float64               `json:"pCorrect"`
}
