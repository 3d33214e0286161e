// Package courseware defines the element taxonomy of the published
// courseware tree: activities, pathways, interactives and components,
// plus the navigational strategies a pathway can follow.
package courseware

import (
	"fmt"

	"github.com/google/uuid"
)

// ElementType identifies the kind of node in the courseware tree.
type ElementType string

const (
	ElementActivity    ElementType = "ACTIVITY"
	ElementPathway     ElementType = "PATHWAY"
	ElementInteractive ElementType = "INTERACTIVE"
	ElementComponent   ElementType = "COMPONENT"
)

// ParseElementType converts a stored string into an ElementType.
// Unknown values are a deserialization error, never silently coerced.
func ParseElementType(s string) (ElementType, error) {
	switch ElementType(s) {
	case ElementActivity, ElementPathway, ElementInteractive, ElementComponent:
		return ElementType(s), nil
	}
	return "", fmt.Errorf("unknown courseware element type: %q", s)
}

// PathwayType identifies the navigational strategy of a pathway.
type PathwayType string

const (
	PathwayLinear PathwayType = "LINEAR"
	PathwayFree   PathwayType = "FREE"
	PathwayGraph  PathwayType = "GRAPH"
	PathwayRandom PathwayType = "RANDOM"
	PathwayBKT    PathwayType = "ALGO_BKT"
)

// ParsePathwayType converts a stored string into a PathwayType.
func ParsePathwayType(s string) (PathwayType, error) {
	switch PathwayType(s) {
	case PathwayLinear, PathwayFree, PathwayGraph, PathwayRandom, PathwayBKT:
		return PathwayType(s), nil
	}
	return "", fmt.Errorf("unknown pathway type: %q", s)
}

// Element is a typed reference to a single node in the courseware tree.
type Element struct {
	ID   uuid.UUID   `json:"elementId"`
	Type ElementType `json:"elementType"`
}

// NewElement builds a typed element reference.
func NewElement(id uuid.UUID, t ElementType) Element {
	return Element{ID: id, Type: t}
}
