// Package session builds the write-side payload for a finished workout: the
// submission rows the backend persists plus the metadata snapshot that the
// read side later uses to recover display fields the backend schema drops.
package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/weightfit/engine/errs"
	"github.com/weightfit/engine/model"
)

// LiveSet is one in-progress set as entered in the UI. Weight and Reps are the
// raw input strings; validation happens when the submission is built.
type LiveSet struct {
	Weight    string
	Reps      string
	Completed bool
}

// LiveSession is the state of a workout in progress: the day's exercise list,
// the per-exercise set inputs, and the elapsed time measured by the caller.
type LiveSession struct {
	UserID         string
	PlanDayID      string
	PlanName       string
	DayName        string
	Exercises      []model.Exercise
	Sets           map[string][]LiveSet // keyed by exercise id
	ElapsedSeconds int
	Notes          string
	StartedAt      time.Time
	FinishedAt     time.Time
}

// BuildSubmission converts a live session into a submission payload.
//
// Filtering rules: only completed sets survive; a completed set whose reps do
// not parse to a positive integer is dropped, not zero-filled; weight defaults
// to 0 when absent or invalid and is clamped at 0. An exercise with no
// surviving sets is dropped. If nothing survives at all the build fails with
// ErrEmptySubmission.
func BuildSubmission(s LiveSession) (model.SessionSubmission, error) {
	sub := model.SessionSubmission{
		UserID:          s.UserID,
		PlanDayID:       s.PlanDayID,
		DurationSeconds: s.ElapsedSeconds,
		Notes:           strings.TrimSpace(s.Notes),
		StartedAt:       s.StartedAt,
		FinishedAt:      s.FinishedAt,
	}

	for _, ex := range s.Exercises {
		recorded := s.Sets[ex.ID]
		sub.TotalSets += len(recorded)

		var kept []model.SubmittedSet
		for _, set := range recorded {
			if !set.Completed {
				continue
			}
			reps, ok := parseReps(set.Reps)
			if !ok {
				continue
			}
			kept = append(kept, model.SubmittedSet{
				Weight:    parseWeight(set.Weight),
				Reps:      reps,
				Completed: true,
			})
		}
		if len(kept) == 0 {
			continue
		}

		sub.Exercises = append(sub.Exercises, model.SubmittedExercise{ExerciseID: ex.ID, Sets: kept})
		sub.CompletedSets += len(kept)
		for _, set := range kept {
			sub.TotalVolume += set.Weight * float64(set.Reps)
		}
		if bp := strings.TrimSpace(ex.BodyPart); bp != "" && !contains(sub.MuscleGroups, bp) {
			sub.MuscleGroups = append(sub.MuscleGroups, bp)
		}
	}

	if len(sub.Exercises) == 0 {
		return model.SessionSubmission{}, fmt.Errorf("%w: no completed sets to save", errs.ErrEmptySubmission)
	}
	return sub, nil
}

// Volume computes the sum of weight*reps over a reconciled set list.
func Volume(sets []model.SetRecord) float64 {
	var total float64
	for _, s := range sets {
		total += s.Weight * float64(s.Reps)
	}
	return total
}

func parseReps(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func parseWeight(s string) float64 {
	w, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), 64)
	if err != nil || w < 0 {
		return 0
	}
	return w
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
