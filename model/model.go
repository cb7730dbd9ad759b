// Package model defines the canonical plan and session entities shared by all
// engine packages. Structs here carry no behavior; mapping in and out of wire
// shapes lives in planmap and the service clients.
package model

import (
	"encoding/json"
	"time"
)

// RoutineCategory is a display hint for grouping plan days. It is derived from
// free text and is lossy by design; fullbody is the default for unmatched text.
type RoutineCategory string

const (
	RoutineUpper    RoutineCategory = "upper"
	RoutineLower    RoutineCategory = "lower"
	RoutinePush     RoutineCategory = "push"
	RoutinePull     RoutineCategory = "pull"
	RoutineLegs     RoutineCategory = "legs"
	RoutineFullBody RoutineCategory = "fullbody"
)

// PlanKind discriminates the two plan domains served by the generation service.
type PlanKind string

const (
	PlanWorkout PlanKind = "workout"
	PlanDiet    PlanKind = "diet"
)

// Exercise is one prescribed exercise within a plan day. Sets is nil when the
// source did not provide a usable count; display strings (Reps, Rest) are empty
// rather than zero-filled when unknown.
type Exercise struct {
	ID        string
	Name      string
	BodyPart  string
	Target    string
	Equipment string
	Sets      *int
	Reps      string // display string, e.g. "12"
	Rest      string // display string, e.g. "90s"
}

// PlanDay is a single workout day inside a Plan. DayNumber is 1-based and
// mirrors list order.
type PlanDay struct {
	ID              string
	DayNumber       int
	Category        RoutineCategory
	Name            string
	Description     string
	Difficulty      string
	DurationMinutes *int
	Exercises       []Exercise
}

// Food is one parsed item of a meal's food list. Quantity and Calories are
// optional; absence means the source text carried no usable value.
type Food struct {
	Name     string
	Quantity string
	Calories *int
}

// Meal groups foods under a time-of-day label derived from the meal's name.
type Meal struct {
	ID            string
	Name          string
	Time          string // display string, e.g. "08:00"
	Foods         []Food
	TotalCalories int
}

// Plan is the canonical display model for either plan domain. Days is populated
// for workout plans, Meals for diet plans. ID is a client placeholder until the
// persistence backend confirms the plan and assigns the durable one.
type Plan struct {
	ID            string
	Kind          PlanKind
	Name          string
	Description   string
	CreatedAt     time.Time
	Days          []PlanDay
	Meals         []Meal
	TotalCalories int // diet only; backend-supplied or sum of meal totals
}

// ProgramRef identifies the persisted program assigned by the backend on
// confirmation.
type ProgramRef struct {
	ID          int64
	Name        string
	Description string
}

// ConfirmationResult is the outcome of a confirm call. Program is nil when the
// backend response omitted it (diet confirms). RawPlan echoes the payload the
// backend actually persisted.
type ConfirmationResult struct {
	Message    string
	Program    *ProgramRef
	CreatedIDs []int64
	RawPlan    json.RawMessage
}

// SubmittedSet is one completed set inside a session submission.
type SubmittedSet struct {
	Weight    float64
	Reps      int
	Completed bool
}

// SubmittedExercise references a backend exercise and its surviving sets.
type SubmittedExercise struct {
	ExerciseID string
	Sets       []SubmittedSet
}

// SessionSubmission is the write-only payload built once per finished workout.
// Exercises hold completed sets only; aggregate fields are computed client side.
type SessionSubmission struct {
	UserID          string
	PlanDayID       string
	DurationSeconds int
	TotalVolume     float64
	CompletedSets   int
	TotalSets       int
	MuscleGroups    []string
	Notes           string
	StartedAt       time.Time
	FinishedAt      time.Time
	Exercises       []SubmittedExercise
}

// SetRecord is one reconciled set on the read path.
type SetRecord struct {
	SetID     string
	SetNumber int
	Weight    float64
	Reps      int
	Completed bool
}

// ExerciseRecord is one reconciled exercise with its sets and derived volume.
type ExerciseRecord struct {
	ID            string
	Name          string
	BodyPart      string
	Target        string
	Equipment     string
	CompletedSets int
	TotalSets     int
	Volume        float64
	Sets          []SetRecord
}

// SessionRecord is the reconciled view of one persisted workout session. It is
// recomputed from backend rows plus the metadata snapshot on every history
// fetch and never persisted client side.
type SessionRecord struct {
	ID            string
	SessionID     string
	PlanDayID     string
	UserID        string
	Date          time.Time
	Name          string
	DayName       string
	Duration      int // seconds
	TotalVolume   float64
	CompletedSets int
	TotalSets     int
	MuscleGroups  []string
	Notes         string
	Exercises     []ExerciseRecord
}
