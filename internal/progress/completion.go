package progress

// Completion summarizes how "done" a courseware element is for a student.
// Both fields are independently optional; a Completion exists at all only
// when at least one of them is known. "No completion data" and
// "completion known to be zero" are distinct states.
type Completion struct {
	Value      *float32 `json:"value,omitempty"`
	Confidence *float32 `json:"confidence,omitempty"`
}

// NewCompletion builds a Completion from two optional fields. It returns
// nil when both are absent so that reconstruction from storage preserves
// whether completion data was present at all.
func NewCompletion(value, confidence *float32) *Completion {
	if value == nil && confidence == nil {
		return nil
	}
	return &Completion{Value: value, Confidence: confidence}
}

// CompletionOf is a convenience constructor for a fully known completion.
func CompletionOf(value, confidence float32) *Completion {
	return &Completion{Value: &value, Confidence: &confidence}
}
