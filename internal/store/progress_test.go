package store

import (
	"context"
	"math/rand"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/traverse-learning/traverse/internal/courseware"
	"github.com/traverse-learning/traverse/internal/progress"
)

func TestActivityRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.ActivityProgress()
	ctx := context.Background()

	childX, childY := uuid.New(), uuid.New()
	original := &progress.Activity{
		Progress: testEnvelope(t, courseware.ElementActivity),
		ChildCompletionValues: map[uuid.UUID]float32{
			childX: 1.0, childY: 0.25,
		},
		ChildCompletionConfidences: map[uuid.UUID]float32{
			childX: 0.9, childY: 0.5,
		},
	}

	if err := repo.Persist(ctx, original); err != nil {
		t.Fatalf("persist: %v", err)
	}

	got, err := repo.FindByID(ctx, original.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if !reflect.DeepEqual(got, original) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, original)
	}
}

func TestActivityShadowsUntypedProgress(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := &progress.Activity{
		Progress: testEnvelope(t, courseware.ElementActivity),
		ChildCompletionValues: map[uuid.UUID]float32{
			uuid.New(): 1.0,
		},
	}
	if err := s.ActivityProgress().Persist(ctx, p); err != nil {
		t.Fatalf("persist: %v", err)
	}

	// A type-unaware caller resolves the same update through the untyped
	// progress tables.
	env, err := s.GeneralProgress().Latest(ctx, p.DeploymentID, p.CoursewareElementID, p.StudentID)
	if err != nil {
		t.Fatalf("latest via general: %v", err)
	}
	if env == nil {
		t.Fatal("expected shadow envelope, got nil")
	}
	if env.ID != p.ID {
		t.Errorf("shadow id = %s, want %s", env.ID, p.ID)
	}
	if env.EvaluationID != p.EvaluationID {
		t.Errorf("shadow evaluation id = %s, want %s", env.EvaluationID, p.EvaluationID)
	}

	byID, err := s.GeneralProgress().FindByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("find shadow by id: %v", err)
	}
	if byID == nil {
		t.Fatal("expected shadow row in canonical progress table")
	}
}

func TestCompletionPresenceInvariant(t *testing.T) {
	s := openTestStore(t)
	repo := s.ActivityProgress()
	ctx := context.Background()

	// Record built with no completion data at all.
	absent := &progress.Activity{Progress: testEnvelope(t, courseware.ElementActivity)}
	absent.Completion = nil
	if err := repo.Persist(ctx, absent); err != nil {
		t.Fatalf("persist absent: %v", err)
	}
	got, err := repo.FindByID(ctx, absent.ID)
	if err != nil {
		t.Fatalf("find absent: %v", err)
	}
	if got.Completion != nil {
		t.Errorf("expected nil completion after round trip, got %+v", got.Completion)
	}

	// One known field is enough to carry a Completion.
	half := &progress.Activity{Progress: testEnvelope(t, courseware.ElementActivity)}
	value := float32(0)
	half.Completion = progress.NewCompletion(&value, nil)
	if err := repo.Persist(ctx, half); err != nil {
		t.Fatalf("persist half: %v", err)
	}
	got, err = repo.FindByID(ctx, half.ID)
	if err != nil {
		t.Fatalf("find half: %v", err)
	}
	if got.Completion == nil {
		t.Fatal("expected completion to survive round trip")
	}
	if got.Completion.Value == nil || *got.Completion.Value != 0 {
		t.Errorf("value = %v, want known zero", got.Completion.Value)
	}
	if got.Completion.Confidence != nil {
		t.Errorf("confidence = %v, want absent", *got.Completion.Confidence)
	}
}

// TestLatestAndHistoryOrdering walks the write-then-supersede scenario:
// A1 then A2 for the same element and student, with id(A2) > id(A1).
func TestLatestAndHistoryOrdering(t *testing.T) {
	s := openTestStore(t)
	repo := s.ActivityProgress()
	ctx := context.Background()

	childX, childY := uuid.New(), uuid.New()

	a1 := &progress.Activity{
		Progress:              testEnvelope(t, courseware.ElementActivity),
		ChildCompletionValues: map[uuid.UUID]float32{childX: 1.0},
	}
	a1.Completion = progress.CompletionOf(0.5, 0.9)

	a2 := &progress.Activity{
		Progress:              a1.Progress,
		ChildCompletionValues: map[uuid.UUID]float32{childX: 1.0, childY: 1.0},
	}
	a2.ID = newTestID(t)
	a2.EvaluationID = uuid.New()
	a2.Completion = progress.CompletionOf(1.0, 1.0)

	if err := repo.Persist(ctx, a1); err != nil {
		t.Fatalf("persist a1: %v", err)
	}
	if err := repo.Persist(ctx, a2); err != nil {
		t.Fatalf("persist a2: %v", err)
	}

	latest, err := repo.Latest(ctx, a1.DeploymentID, a1.CoursewareElementID, a1.StudentID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.ID != a2.ID {
		t.Fatalf("latest = %+v, want record %s", latest, a2.ID)
	}
	if *latest.Completion.Value != 1.0 {
		t.Errorf("latest completion value = %v, want 1.0", *latest.Completion.Value)
	}

	history, err := repo.History(ctx, a1.DeploymentID, a1.CoursewareElementID, a1.StudentID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].ID != a2.ID || history[1].ID != a1.ID {
		t.Errorf("history order = [%s, %s], want [%s, %s]",
			history[0].ID, history[1].ID, a2.ID, a1.ID)
	}
	if len(history[1].ChildCompletionValues) != 1 {
		t.Errorf("historical record children = %d, want 1", len(history[1].ChildCompletionValues))
	}
}

func TestIdempotentReplay(t *testing.T) {
	s := openTestStore(t)
	repo := s.ActivityProgress()
	ctx := context.Background()

	p := &progress.Activity{
		Progress:              testEnvelope(t, courseware.ElementActivity),
		ChildCompletionValues: map[uuid.UUID]float32{uuid.New(): 0.5},
	}

	// The transport retries on transient failure; replaying the same
	// batch must not error and must not duplicate rows.
	if err := repo.Persist(ctx, p); err != nil {
		t.Fatalf("first persist: %v", err)
	}
	if err := repo.Persist(ctx, p); err != nil {
		t.Fatalf("replay persist: %v", err)
	}

	history, err := repo.History(ctx, p.DeploymentID, p.CoursewareElementID, p.StudentID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history length = %d after replay, want 1", len(history))
	}

	var count int
	if err := s.DB().Get(&count, "SELECT COUNT(*) FROM activity_progress WHERE id = ?", p.ID.String()); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("canonical rows = %d after replay, want 1", count)
	}
}

func TestLinearRoundTripPreservesWalkableOrder(t *testing.T) {
	s := openTestStore(t)
	repo := s.LinearProgress()
	ctx := context.Background()

	walkables := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	original := &progress.LinearPathway{
		Progress:                   testEnvelope(t, courseware.ElementPathway),
		ChildCompletionValues:      map[uuid.UUID]float32{walkables[0]: 1.0},
		ChildCompletionConfidences: map[uuid.UUID]float32{walkables[0]: 0.8},
		CompletedWalkables:         walkables,
	}

	if err := repo.Persist(ctx, original); err != nil {
		t.Fatalf("persist: %v", err)
	}
	got, err := repo.FindByID(ctx, original.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !reflect.DeepEqual(got.CompletedWalkables, walkables) {
		t.Errorf("walkable order = %v, want %v", got.CompletedWalkables, walkables)
	}
	if !reflect.DeepEqual(got, original) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, original)
	}
}

func TestFreeRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.FreeProgress()
	ctx := context.Background()

	original := &progress.FreePathway{
		Progress:              testEnvelope(t, courseware.ElementPathway),
		ChildCompletionValues: map[uuid.UUID]float32{uuid.New(): 0.75},
		CompletedWalkables:    []uuid.UUID{uuid.New()},
	}

	if err := repo.Persist(ctx, original); err != nil {
		t.Fatalf("persist: %v", err)
	}
	got, err := repo.FindByID(ctx, original.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !reflect.DeepEqual(got, original) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, original)
	}
}

func TestGraphRoundTripKeepsCursor(t *testing.T) {
	s := openTestStore(t)
	repo := s.GraphProgress()
	ctx := context.Background()

	cursor := courseware.NewElement(uuid.New(), courseware.ElementInteractive)
	original := &progress.GraphPathway{
		Progress:           testEnvelope(t, courseware.ElementPathway),
		CompletedWalkables: []uuid.UUID{uuid.New(), uuid.New()},
		CurrentWalkable:    cursor,
	}

	if err := repo.Persist(ctx, original); err != nil {
		t.Fatalf("persist: %v", err)
	}
	got, err := repo.FindByID(ctx, original.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.CurrentWalkable != cursor {
		t.Errorf("cursor = %+v, want %+v", got.CurrentWalkable, cursor)
	}
}

func TestRandomInProgressOptional(t *testing.T) {
	s := openTestStore(t)
	repo := s.RandomProgress()
	ctx := context.Background()

	// Between picks: no in-progress element.
	between := &progress.RandomPathway{
		Progress:           testEnvelope(t, courseware.ElementPathway),
		CompletedWalkables: []uuid.UUID{uuid.New()},
	}
	if err := repo.Persist(ctx, between); err != nil {
		t.Fatalf("persist between: %v", err)
	}
	got, err := repo.FindByID(ctx, between.ID)
	if err != nil {
		t.Fatalf("find between: %v", err)
	}
	if got.InProgress != nil {
		t.Errorf("expected nil in-progress element, got %+v", got.InProgress)
	}

	// Mid-walkable: the pick is carried explicitly.
	pick := courseware.NewElement(uuid.New(), courseware.ElementActivity)
	mid := &progress.RandomPathway{
		Progress:   testEnvelope(t, courseware.ElementPathway),
		InProgress: &pick,
	}
	if err := repo.Persist(ctx, mid); err != nil {
		t.Fatalf("persist mid: %v", err)
	}
	got, err = repo.FindByID(ctx, mid.ID)
	if err != nil {
		t.Fatalf("find mid: %v", err)
	}
	if got.InProgress == nil || *got.InProgress != pick {
		t.Errorf("in-progress = %+v, want %+v", got.InProgress, pick)
	}
}

func TestBKTRoundTripPreservesPrecision(t *testing.T) {
	s := openTestStore(t)
	repo := s.BKTProgress()
	ctx := context.Background()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		original := &progress.BKTPathway{
			Progress:            testEnvelope(t, courseware.ElementPathway),
			PLn:                 rng.Float64(),
			PLnMinusGivenActual: rng.Float64(),
			PCorrect:            rng.Float64(),
		}
		if err := repo.Persist(ctx, original); err != nil {
			t.Fatalf("persist %d: %v", i, err)
		}
		got, err := repo.FindByID(ctx, original.ID)
		if err != nil {
			t.Fatalf("find %d: %v", i, err)
		}
		// The triple is stored as REAL columns; full double precision
		// must survive.
		if got.PLn != original.PLn ||
			got.PLnMinusGivenActual != original.PLnMinusGivenActual ||
			got.PCorrect != original.PCorrect {
			t.Errorf("probability triple mismatch:\n got (%v, %v, %v)\nwant (%v, %v, %v)",
				got.PLn, got.PLnMinusGivenActual, got.PCorrect,
				original.PLn, original.PLnMinusGivenActual, original.PCorrect)
		}
	}
}

func TestBKTLatestN(t *testing.T) {
	s := openTestStore(t)
	repo := s.BKTProgress()
	ctx := context.Background()

	base := testEnvelope(t, courseware.ElementPathway)
	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		p := &progress.BKTPathway{
			Progress: base,
			PLn:      float64(i) / 10,
			PCorrect: 0.5,
		}
		p.ID = newTestID(t)
		ids = append(ids, p.ID)
		if err := repo.Persist(ctx, p); err != nil {
			t.Fatalf("persist %d: %v", i, err)
		}
	}

	window, err := repo.LatestN(ctx, base.DeploymentID, base.CoursewareElementID, base.StudentID, 3)
	if err != nil {
		t.Fatalf("latest n: %v", err)
	}
	if len(window) != 3 {
		t.Fatalf("window length = %d, want 3", len(window))
	}
	// Newest first: the last three writes in reverse order.
	for i := 0; i < 3; i++ {
		want := ids[len(ids)-1-i]
		if window[i].ID != want {
			t.Errorf("window[%d] = %s, want %s", i, window[i].ID, want)
		}
	}
}

func TestNotFoundIsNilNotError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	got, err := s.ActivityProgress().FindByID(ctx, uuid.New())
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing id, got %+v", got)
	}

	latest, err := s.BKTProgress().Latest(ctx, uuid.New(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != nil {
		t.Errorf("expected nil for untouched element, got %+v", latest)
	}

	history, err := s.LinearProgress().History(ctx, uuid.New(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history, got %d records", len(history))
	}
}

func TestMalformedStoredTypeFailsFast(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := &progress.Activity{Progress: testEnvelope(t, courseware.ElementActivity)}
	if err := s.ActivityProgress().Persist(ctx, p); err != nil {
		t.Fatalf("persist: %v", err)
	}

	// Corrupt the stored enum out-of-band.
	_, err := s.DB().Exec(
		"UPDATE activity_progress SET courseware_element_type = 'WIDGET' WHERE id = ?",
		p.ID.String(),
	)
	if err != nil {
		t.Fatalf("corrupt row: %v", err)
	}

	if _, err := s.ActivityProgress().FindByID(ctx, p.ID); err == nil {
		t.Fatal("expected deserialization error for unknown element type")
	}
}

func TestGeneralProgressRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.GeneralProgress()
	ctx := context.Background()

	env := testEnvelope(t, courseware.ElementInteractive)
	if err := repo.Persist(ctx, &env); err != nil {
		t.Fatalf("persist: %v", err)
	}
	got, err := repo.FindByID(ctx, env.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !reflect.DeepEqual(*got, env) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, env)
	}
}
