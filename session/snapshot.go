package session

import (
	"encoding/json"
	"time"

	"github.com/weightfit/engine/model"
)

// Snapshot is the metadata blob stored in the session's description column at
// submission time. The backend schema keeps only ids, reps and weights; the
// snapshot preserves the display fields needed to rebuild a readable record.
type Snapshot struct {
	PlanName     string             `json:"name,omitempty"`
	DayName      string             `json:"dayName,omitempty"`
	UserID       string             `json:"userId,omitempty"`
	Date         time.Time          `json:"date"`
	Notes        string             `json:"notes,omitempty"`
	MuscleGroups []string           `json:"muscleGroups,omitempty"`
	Exercises    []SnapshotExercise `json:"exercises,omitempty"`
}

// SnapshotExercise captures one submitted exercise with its display labels and
// surviving sets.
type SnapshotExercise struct {
	ID        string        `json:"id"`
	Name      string        `json:"name,omitempty"`
	BodyPart  string        `json:"bodyPart,omitempty"`
	Target    string        `json:"target,omitempty"`
	Equipment string        `json:"equipment,omitempty"`
	Sets      []SnapshotSet `json:"sets,omitempty"`
}

// SnapshotSet is one completed set inside the snapshot.
type SnapshotSet struct {
	Number int     `json:"setNumber"`
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// NewSnapshot captures the display-side view of a built submission. Exercises
// absent from the submission (all sets filtered out) are not captured.
func NewSnapshot(s LiveSession, sub model.SessionSubmission) Snapshot {
	byID := make(map[string]int, len(s.Exercises))
	for i, ex := range s.Exercises {
		byID[ex.ID] = i
	}

	snap := Snapshot{
		PlanName:     s.PlanName,
		DayName:      s.DayName,
		UserID:       s.UserID,
		Date:         s.FinishedAt,
		Notes:        sub.Notes,
		MuscleGroups: sub.MuscleGroups,
	}
	if snap.Date.IsZero() {
		snap.Date = time.Now()
	}

	for _, se := range sub.Exercises {
		sx := SnapshotExercise{ID: se.ExerciseID}
		if i, ok := byID[se.ExerciseID]; ok {
			ex := s.Exercises[i]
			sx.Name = ex.Name
			sx.BodyPart = ex.BodyPart
			sx.Target = ex.Target
			sx.Equipment = ex.Equipment
		}
		for n, set := range se.Sets {
			sx.Sets = append(sx.Sets, SnapshotSet{Number: n + 1, Weight: set.Weight, Reps: set.Reps})
		}
		snap.Exercises = append(snap.Exercises, sx)
	}
	return snap
}

// Encode serializes the snapshot for the description column.
func (s Snapshot) Encode() string {
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(b)
}

// DecodeSnapshot parses a description blob back into a snapshot. Decoding is
// total: an empty or unparseable blob yields the zero snapshot, never an
// error, because old sessions may carry free text in the same column.
func DecodeSnapshot(blob string) Snapshot {
	var snap Snapshot
	if blob == "" {
		return snap
	}
	if err := json.Unmarshal([]byte(blob), &snap); err != nil {
		return Snapshot{}
	}
	return snap
}
