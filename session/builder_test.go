package session

import (
	"errors"
	"testing"
	"time"

	"github.com/weightfit/engine/errs"
	"github.com/weightfit/engine/model"
)

func benchPress() model.Exercise {
	return model.Exercise{ID: "11", Name: "Bench press", BodyPart: "chest", Target: "pecs", Equipment: "barbell"}
}

func squat() model.Exercise {
	return model.Exercise{ID: "12", Name: "Squat", BodyPart: "legs", Target: "quads", Equipment: "barbell"}
}

func TestBuildSubmission_FiltersInvalidAndIncompleteSets(t *testing.T) {
	t.Parallel()
	s := LiveSession{
		UserID:    "7",
		PlanDayID: "3",
		Exercises: []model.Exercise{benchPress()},
		Sets: map[string][]LiveSet{
			"11": {
				{Reps: "abc", Completed: true},
				{Weight: "50", Reps: "10", Completed: true},
				{Weight: "40", Reps: "5", Completed: false},
			},
		},
		ElapsedSeconds: 1800,
	}

	sub, err := BuildSubmission(s)
	if err != nil {
		t.Fatalf("BuildSubmission: %v", err)
	}
	if len(sub.Exercises) != 1 || len(sub.Exercises[0].Sets) != 1 {
		t.Fatalf("want exactly one surviving set, got %+v", sub.Exercises)
	}
	set := sub.Exercises[0].Sets[0]
	if set.Weight != 50 || set.Reps != 10 {
		t.Fatalf("surviving set wrong: %+v", set)
	}
	if sub.TotalVolume != 500 {
		t.Fatalf("totalVolume=%v, want 500", sub.TotalVolume)
	}
	if sub.CompletedSets != 1 || sub.TotalSets != 3 {
		t.Fatalf("set counts wrong: completed=%d total=%d", sub.CompletedSets, sub.TotalSets)
	}
	if sub.DurationSeconds != 1800 {
		t.Fatalf("duration not carried")
	}
}

func TestBuildSubmission_DropsExerciseWithNoSurvivingSets(t *testing.T) {
	t.Parallel()
	s := LiveSession{
		Exercises: []model.Exercise{benchPress(), squat()},
		Sets: map[string][]LiveSet{
			"11": {{Reps: "not a number", Completed: true}},
			"12": {{Weight: "100", Reps: "8", Completed: true}},
		},
	}
	sub, err := BuildSubmission(s)
	if err != nil {
		t.Fatalf("BuildSubmission: %v", err)
	}
	if len(sub.Exercises) != 1 || sub.Exercises[0].ExerciseID != "12" {
		t.Fatalf("bench press should be dropped, got %+v", sub.Exercises)
	}
	if len(sub.MuscleGroups) != 1 || sub.MuscleGroups[0] != "legs" {
		t.Fatalf("muscle groups must only cover included exercises: %v", sub.MuscleGroups)
	}
}

func TestBuildSubmission_WeightDefaultsToZeroNeverNegative(t *testing.T) {
	t.Parallel()
	s := LiveSession{
		Exercises: []model.Exercise{benchPress()},
		Sets: map[string][]LiveSet{
			"11": {
				{Weight: "", Reps: "12", Completed: true},
				{Weight: "-20", Reps: "12", Completed: true},
				{Weight: "22,5", Reps: "10", Completed: true},
			},
		},
	}
	sub, err := BuildSubmission(s)
	if err != nil {
		t.Fatalf("BuildSubmission: %v", err)
	}
	sets := sub.Exercises[0].Sets
	if sets[0].Weight != 0 || sets[1].Weight != 0 {
		t.Fatalf("absent/negative weight must be 0: %+v", sets)
	}
	if sets[2].Weight != 22.5 {
		t.Fatalf("comma decimal not parsed: %+v", sets[2])
	}
}

func TestBuildSubmission_EmptyRejected(t *testing.T) {
	t.Parallel()
	s := LiveSession{
		Exercises: []model.Exercise{benchPress()},
		Sets: map[string][]LiveSet{
			"11": {{Weight: "50", Reps: "10", Completed: false}},
		},
	}
	_, err := BuildSubmission(s)
	if !errors.Is(err, errs.ErrEmptySubmission) {
		t.Fatalf("want ErrEmptySubmission, got %v", err)
	}
}

func TestBuildSubmission_MuscleGroupsDedupFirstAppearance(t *testing.T) {
	t.Parallel()
	inclineBench := model.Exercise{ID: "13", Name: "Incline bench", BodyPart: "chest"}
	s := LiveSession{
		Exercises: []model.Exercise{benchPress(), squat(), inclineBench},
		Sets: map[string][]LiveSet{
			"11": {{Weight: "50", Reps: "10", Completed: true}},
			"12": {{Weight: "80", Reps: "8", Completed: true}},
			"13": {{Weight: "30", Reps: "12", Completed: true}},
		},
	}
	sub, err := BuildSubmission(s)
	if err != nil {
		t.Fatalf("BuildSubmission: %v", err)
	}
	want := []string{"chest", "legs"}
	if len(sub.MuscleGroups) != len(want) {
		t.Fatalf("muscle groups=%v, want %v", sub.MuscleGroups, want)
	}
	for i := range want {
		if sub.MuscleGroups[i] != want[i] {
			t.Fatalf("muscle groups=%v, want %v", sub.MuscleGroups, want)
		}
	}
}

func TestSnapshot_EncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()
	s := LiveSession{
		UserID:     "7",
		PlanName:   "Hypertrophy block",
		DayName:    "Upper 1",
		Exercises:  []model.Exercise{benchPress()},
		FinishedAt: time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
		Sets: map[string][]LiveSet{
			"11": {{Weight: "50", Reps: "10", Completed: true}},
		},
	}
	sub, err := BuildSubmission(s)
	if err != nil {
		t.Fatalf("BuildSubmission: %v", err)
	}

	snap := NewSnapshot(s, sub)
	decoded := DecodeSnapshot(snap.Encode())

	if decoded.PlanName != "Hypertrophy block" || decoded.DayName != "Upper 1" || decoded.UserID != "7" {
		t.Fatalf("header fields lost: %+v", decoded)
	}
	if len(decoded.Exercises) != 1 {
		t.Fatalf("exercises=%d", len(decoded.Exercises))
	}
	ex := decoded.Exercises[0]
	if ex.Name != "Bench press" || ex.BodyPart != "chest" || ex.Equipment != "barbell" {
		t.Fatalf("display fields lost: %+v", ex)
	}
	if len(ex.Sets) != 1 || ex.Sets[0].Weight != 50 || ex.Sets[0].Reps != 10 || ex.Sets[0].Number != 1 {
		t.Fatalf("set rows lost: %+v", ex.Sets)
	}
}

func TestDecodeSnapshot_Total(t *testing.T) {
	t.Parallel()
	for _, blob := range []string{"", "free text left by an old app version", "{broken json"} {
		snap := DecodeSnapshot(blob)
		if len(snap.Exercises) != 0 || snap.PlanName != "" {
			t.Fatalf("blob %q must decode to zero snapshot, got %+v", blob, snap)
		}
	}
}

func TestWirePayload(t *testing.T) {
	t.Parallel()
	sub := model.SessionSubmission{
		PlanDayID:       "3",
		DurationSeconds: 1200,
		Exercises: []model.SubmittedExercise{
			{ExerciseID: "11", Sets: []model.SubmittedSet{
				{Weight: 50, Reps: 10, Completed: true},
				{Weight: 55, Reps: 8, Completed: true},
			}},
		},
	}
	in, err := WirePayload(sub, `{"name":"x"}`)
	if err != nil {
		t.Fatalf("WirePayload: %v", err)
	}
	if in.DayID != 3 || in.Duration != 1200 || in.Description != `{"name":"x"}` {
		t.Fatalf("header wrong: %+v", in)
	}
	row := in.Exercises[0]
	if row.ExerciseID != 11 {
		t.Fatalf("exercise id wrong: %+v", row)
	}
	if len(row.Reps) != 2 || row.Reps[0] != 10 || row.Weights[1] != 55 {
		t.Fatalf("parallel arrays wrong: %+v", row)
	}

	sub.PlanDayID = "not-a-backend-id"
	if _, err := WirePayload(sub, ""); err == nil {
		t.Fatalf("non-numeric day id must fail")
	}
}
