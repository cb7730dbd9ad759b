package history

import (
	"testing"
	"time"

	"github.com/weightfit/engine/backend"
	"github.com/weightfit/engine/model"
	"github.com/weightfit/engine/session"
)

func strp(s string) *string     { return &s }
func f64p(f float64) *float64   { return &f }

// fixtureSnapshot is what the summary screen would have written for a
// three-exercise session with two sets each.
func fixtureSnapshot() session.Snapshot {
	return session.Snapshot{
		PlanName:     "Hypertrophy block",
		DayName:      "Upper 1",
		UserID:       "7",
		Date:         time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
		MuscleGroups: []string{"chest", "back"},
		Exercises: []session.SnapshotExercise{
			{ID: "11", Name: "Bench press", BodyPart: "chest", Target: "pecs", Equipment: "barbell",
				Sets: []session.SnapshotSet{{Number: 1, Weight: 50, Reps: 10}, {Number: 2, Weight: 55, Reps: 8}}},
			{ID: "12", Name: "Row", BodyPart: "back", Target: "lats", Equipment: "cable",
				Sets: []session.SnapshotSet{{Number: 1, Weight: 60, Reps: 10}, {Number: 2, Weight: 60, Reps: 10}}},
			{ID: "13", Name: "Curl", BodyPart: "arms", Target: "biceps", Equipment: "dumbbell",
				Sets: []session.SnapshotSet{{Number: 1, Weight: 14, Reps: 12}, {Number: 2, Weight: 14, Reps: 10}}},
		},
	}
}

func fixtureRow() backend.SessionRow {
	return backend.SessionRow{
		ID:          42,
		Duration:    2400,
		Description: fixtureSnapshot().Encode(),
		DayID:       3,
		DayName:     strp("Upper 1"),
	}
}

// shapeA is the grouped detail response for the fixture session.
func shapeA() []backend.DetailRow {
	return []backend.DetailRow{
		{ExerciseID: 11, ExerciseName: strp("Bench press"), Equipment: strp("barbell"), Series: []backend.SetRow{
			{ID: 101, Number: 1, Reps: f64p(10), Weight: f64p(50)},
			{ID: 102, Number: 2, Reps: f64p(8), Weight: f64p(55)},
		}},
		{ExerciseID: 12, ExerciseName: strp("Row"), Equipment: strp("cable"), Series: []backend.SetRow{
			{ID: 103, Number: 1, Reps: f64p(10), Weight: f64p(60)},
			{ID: 104, Number: 2, Reps: f64p(10), Weight: f64p(60)},
		}},
		{ExerciseID: 13, ExerciseName: strp("Curl"), Equipment: strp("dumbbell"), Series: []backend.SetRow{
			{ID: 105, Number: 1, Reps: f64p(12), Weight: f64p(14)},
			{ID: 106, Number: 2, Reps: f64p(10), Weight: f64p(14)},
		}},
	}
}

// shapeB is the flat detail response for the same logical session.
func shapeB() []backend.DetailRow {
	return []backend.DetailRow{
		{ExerciseID: 11, SetID: 101, SetNumber: 1, Reps: f64p(10), Weight: f64p(50)},
		{ExerciseID: 11, SetID: 102, SetNumber: 2, Reps: f64p(8), Weight: f64p(55)},
		{ExerciseID: 12, SetID: 103, SetNumber: 1, Reps: f64p(10), Weight: f64p(60)},
		{ExerciseID: 12, SetID: 104, SetNumber: 2, Reps: f64p(10), Weight: f64p(60)},
		{ExerciseID: 13, SetID: 105, SetNumber: 1, Reps: f64p(12), Weight: f64p(14)},
		{ExerciseID: 13, SetID: 106, SetNumber: 2, Reps: f64p(10), Weight: f64p(14)},
	}
}

const fixtureVolume = 50*10 + 55*8 + 60*10 + 60*10 + 14*12 + 14*10

func TestReconcile_ShapeAgnostic(t *testing.T) {
	t.Parallel()
	recA := Reconcile(fixtureRow(), shapeA())
	recB := Reconcile(fixtureRow(), shapeB())

	for name, rec := range map[string]model.SessionRecord{"shape A": recA, "shape B": recB} {
		if len(rec.Exercises) != 3 {
			t.Fatalf("%s: exercises=%d, want 3", name, len(rec.Exercises))
		}
		if rec.TotalVolume != fixtureVolume {
			t.Fatalf("%s: totalVolume=%v, want %v", name, rec.TotalVolume, fixtureVolume)
		}
		if rec.CompletedSets != 6 || rec.TotalSets != 6 {
			t.Fatalf("%s: set counts wrong: %d/%d", name, rec.CompletedSets, rec.TotalSets)
		}
	}

	if recA.TotalVolume != recB.TotalVolume || recA.CompletedSets != recB.CompletedSets {
		t.Fatalf("aggregates differ across shapes: %+v vs %+v", recA, recB)
	}
	for i := range recA.Exercises {
		if recA.Exercises[i].ID != recB.Exercises[i].ID || recA.Exercises[i].Volume != recB.Exercises[i].Volume {
			t.Fatalf("exercise %d differs across shapes", i)
		}
	}
}

func TestReconcile_SnapshotPrefersDisplayFields(t *testing.T) {
	t.Parallel()
	// backend labels are sparse on purpose; the snapshot has the rich ones
	detail := shapeB()
	rec := Reconcile(fixtureRow(), detail)

	ex := rec.Exercises[0]
	if ex.Name != "Bench press" || ex.BodyPart != "chest" || ex.Target != "pecs" || ex.Equipment != "barbell" {
		t.Fatalf("snapshot display fields not preferred: %+v", ex)
	}
	if rec.Name != "Hypertrophy block" || rec.DayName != "Upper 1" || rec.UserID != "7" {
		t.Fatalf("record header wrong: %+v", rec)
	}
	if !rec.Date.Equal(time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)) {
		t.Fatalf("snapshot date not used: %v", rec.Date)
	}
}

func TestReconcile_NoSnapshotFallsBackToBackendLabels(t *testing.T) {
	t.Parallel()
	row := fixtureRow()
	row.Description = "" // old session, no snapshot
	rec := Reconcile(row, shapeA())

	ex := rec.Exercises[0]
	if ex.Name != "Bench press" || ex.Equipment != "barbell" {
		t.Fatalf("backend labels not used: %+v", ex)
	}
	if ex.BodyPart != "General" {
		t.Fatalf("missing muscle group must get placeholder, got %q", ex.BodyPart)
	}
	if rec.Name != "Upper 1" {
		t.Fatalf("day name fallback wrong: %q", rec.Name)
	}
	want := []string{"General"}
	if len(rec.MuscleGroups) != 1 || rec.MuscleGroups[0] != want[0] {
		t.Fatalf("derived muscle groups wrong: %v", rec.MuscleGroups)
	}
}

func TestReconcile_EmptyDetailFallsBackToSnapshotSets(t *testing.T) {
	t.Parallel()
	rec := Reconcile(fixtureRow(), nil)

	if len(rec.Exercises) != 3 {
		t.Fatalf("exercises=%d, want 3 from snapshot", len(rec.Exercises))
	}
	if rec.TotalVolume != fixtureVolume {
		t.Fatalf("totalVolume=%v, want %v", rec.TotalVolume, fixtureVolume)
	}
	if rec.Exercises[0].Sets[0].SetID != "set_11_1" {
		t.Fatalf("synthesized set id wrong: %q", rec.Exercises[0].Sets[0].SetID)
	}
}

func TestReconcile_SnapshotMuscleGroupsPreferred(t *testing.T) {
	t.Parallel()
	rec := Reconcile(fixtureRow(), shapeA())
	if len(rec.MuscleGroups) != 2 || rec.MuscleGroups[0] != "chest" || rec.MuscleGroups[1] != "back" {
		t.Fatalf("snapshot muscle groups not preferred: %v", rec.MuscleGroups)
	}
}
