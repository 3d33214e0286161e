// Package ingest loads progress and attempt records from JSON documents
// into the store. Documents are validated against a schema before any
// record is written, so a bad document is rejected whole.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/traverse-learning/traverse/internal/attempt"
	"github.com/traverse-learning/traverse/internal/progress"
	"github.com/traverse-learning/traverse/internal/store"
)

// Progress record kinds accepted in an import document.
const (
	KindGeneral  = "GENERAL"
	KindActivity = "ACTIVITY"
	KindLinear   = "LINEAR"
	KindFree     = "FREE"
	KindGraph    = "GRAPH"
	KindRandom   = "RANDOM"
	KindBKT      = "BKT"
)

// Document is one import payload: a batch of attempts and a batch of
// tagged progress records.
type Document struct {
	Attempts []*attempt.Attempt `json:"attempts"`
	Progress []ProgressEntry    `json:"progress"`
}

// ProgressEntry is one tagged progress record. Kind selects the variant
// the record decodes into.
type ProgressEntry struct {
	Kind   string          `json:"kind"`
	Record json.RawMessage `json:"record"`
}

// Summary reports how many records an Apply wrote.
type Summary struct {
	Attempts int
	Progress int
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// compiled returns the compiled document schema, compiling it on first use.
func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a parsed JSON value, not Go maps with typed
		// values. Round-trip through encoding/json to normalize.
		raw, err := json.Marshal(documentSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal document schema: %w", err)
			return
		}
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			compileErr = fmt.Errorf("parse document schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://traverse-import.json"
		if err := c.AddResource(schemaURL, parsed); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// Load validates data against the document schema and decodes it.
func Load(data []byte) (*Document, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	schema, err := compiled()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("document failed validation: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// Apply writes every record in the document to the store. Attempts go
// first so progress records referencing them land after their attempt.
// Replaying the same document is harmless; every write is idempotent.
func (d *Document) Apply(ctx context.Context, s *store.Store) (Summary, error) {
	var sum Summary

	attempts := s.Attempts()
	for _, a := range d.Attempts {
		if err := attempts.Persist(ctx, a); err != nil {
			return sum, fmt.Errorf("import attempt %s: %w", a.ID, err)
		}
		sum.Attempts++
	}

	for i, entry := range d.Progress {
		if err := entry.apply(ctx, s); err != nil {
			return sum, fmt.Errorf("import progress record %d: %w", i, err)
		}
		sum.Progress++
	}
	return sum, nil
}

func (e ProgressEntry) apply(ctx context.Context, s *store.Store) error {
	switch e.Kind {
	case KindGeneral:
		var p progress.Progress
		if err := json.Unmarshal(e.Record, &p); err != nil {
			return fmt.Errorf("decode general record: %w", err)
		}
		return s.GeneralProgress().Persist(ctx, &p)
	case KindActivity:
		var p progress.Activity
		if err := json.Unmarshal(e.Record, &p); err != nil {
			return fmt.Errorf("decode activity record: %w", err)
		}
		return s.ActivityProgress().Persist(ctx, &p)
	case KindLinear:
		var p progress.LinearPathway
		if err := json.Unmarshal(e.Record, &p); err != nil {
			return fmt.Errorf("decode linear pathway record: %w", err)
		}
		return s.LinearProgress().Persist(ctx, &p)
	case KindFree:
		var p progress.FreePathway
		if err := json.Unmarshal(e.Record, &p); err != nil {
			return fmt.Errorf("decode free pathway record: %w", err)
		}
		return s.FreeProgress().Persist(ctx, &p)
	case KindGraph:
		var p progress.GraphPathway
		if err := json.Unmarshal(e.Record, &p); err != nil {
			return fmt.Errorf("decode graph pathway record: %w", err)
		}
		return s.GraphProgress().Persist(ctx, &p)
	case KindRandom:
		var p progress.RandomPathway
		if err := json.Unmarshal(e.Record, &p); err != nil {
			return fmt.Errorf("decode random pathway record: %w", err)
		}
		return s.RandomProgress().Persist(ctx, &p)
	case KindBKT:
		var p progress.BKTPathway
		if err := json.Unmarshal(e.Record, &p); err != nil {
			return fmt.Errorf("decode bkt pathway record: %w", err)
		}
		return s.BKTProgress().Persist(ctx, &p)
	default:
		// The schema rejects unknown kinds, so this only fires for
		// documents that bypassed Load.
		return fmt.Errorf("unknown progress record kind %q", e.Kind)
	}
}
