// Package attempt models one bounded trial of a student working through a
// courseware element. Attempts are immutable once written; retrying an
// element produces a new attempt record with the next ordinal value.
package attempt

import (
	"github.com/google/uuid"

	"github.com/traverse-learning/traverse/internal/courseware"
)

// Attempt links a courseware element instance, a student, the ancestor
// element's concurrently active attempt, and a 1-based ordinal within the
// element's attempt lineage for that student. ParentID is nil for attempts
// on a root element. Keeping the parent linkage consistent is the
// evaluation engine's job; the ledger stores whatever it is given.
type Attempt struct {
	ID                    uuid.UUID              `json:"id"`
	ParentID              *uuid.UUID             `json:"parentId,omitempty"`
	DeploymentID          uuid.UUID              `json:"deploymentId"`
	CoursewareElementID   uuid.UUID              `json:"coursewareElementId"`
	CoursewareElementType courseware.ElementType `json:"coursewareElementType"`
	StudentID             uuid.UUID              `json:"studentId"`
	Value                 int                    `json:"value"`
}
