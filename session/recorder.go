package session

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/weightfit/engine/backend"
	"github.com/weightfit/engine/model"
)

// Recorder persists finished sessions. It owns the translation from the
// submission model to the backend's parallel reps/weights arrays.
type Recorder struct {
	backend *backend.Client
	log     *zap.Logger
}

// NewRecorder returns a recorder writing through the given backend client.
func NewRecorder(b *backend.Client, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{backend: b, log: log}
}

// Submit builds the submission from the live session, attaches the metadata
// snapshot, and persists it. Returns the backend-assigned session id.
func (r *Recorder) Submit(ctx context.Context, s LiveSession) (int64, error) {
	sub, err := BuildSubmission(s)
	if err != nil {
		return 0, err
	}

	snap := NewSnapshot(s, sub)
	payload, err := WirePayload(sub, snap.Encode())
	if err != nil {
		return 0, err
	}

	res, err := r.backend.SubmitSession(ctx, payload)
	if err != nil {
		return 0, err
	}
	r.log.Info("session saved",
		zap.Int64("session_id", res.SessionID),
		zap.String("plan_day_id", sub.PlanDayID),
		zap.Int("completed_sets", sub.CompletedSets),
		zap.Float64("total_volume", sub.TotalVolume))
	return res.SessionID, nil
}

// WirePayload converts a built submission into the backend insert body. The
// snapshot blob rides in the description column.
func WirePayload(sub model.SessionSubmission, snapshot string) (backend.SessionInsert, error) {
	dayID, err := strconv.ParseInt(sub.PlanDayID, 10, 64)
	if err != nil {
		return backend.SessionInsert{}, fmt.Errorf("plan day id %q is not a backend id: %w", sub.PlanDayID, err)
	}

	in := backend.SessionInsert{
		Duration:    sub.DurationSeconds,
		DayID:       dayID,
		Description: snapshot,
	}
	for _, ex := range sub.Exercises {
		exID, err := strconv.ParseInt(ex.ExerciseID, 10, 64)
		if err != nil {
			return backend.SessionInsert{}, fmt.Errorf("exercise id %q is not a backend id: %w", ex.ExerciseID, err)
		}
		row := backend.ExerciseInsert{ExerciseID: exID}
		for _, set := range ex.Sets {
			row.Reps = append(row.Reps, set.Reps)
			row.Weights = append(row.Weights, set.Weight)
		}
		in.Exercises = append(in.Exercises, row)
	}
	return in, nil
}
