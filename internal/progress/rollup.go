package progress

import "github.com/google/uuid"

// RollUpValues aggregates a child completion-value map into a parent value:
// the mean over all tracked children. Returns nil when no children are
// tracked, preserving the distinction between "no data" and "zero".
func RollUpValues(children map[uuid.UUID]float32) *float32 {
	if len(children) == 0 {
		return nil
	}
	var sum float64
	for _, v := range children {
		sum += float64(v)
	}
	mean := float32(sum / float64(len(children)))
	return &mean
}

// RollUpConfidences aggregates a child confidence map into a parent
// confidence: the minimum over all tracked children, since the parent can
// be no more certain than its least certain child.
func RollUpConfidences(children map[uuid.UUID]float32) *float32 {
	if len(children) == 0 {
		return nil
	}
	first := true
	var min float32
	for _, c := range children {
		if first || c < min {
			min = c
			first = false
		}
	}
	return &min
}

// RollUp combines both child maps into a parent Completion, or nil when
// neither map has data.
func RollUp(values, confidences map[uuid.UUID]float32) *Completion {
	return NewCompletion(RollUpValues(values), RollUpConfidences(confidences))
}
