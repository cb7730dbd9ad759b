package planmap

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/weightfit/engine/errs"
	"github.com/weightfit/engine/model"
)

type rawWorkoutExercise struct {
	ExerciseID  flexString `json:"idExercicio"`
	Name        flexString `json:"nomeExercicio"`
	MuscleGroup flexString `json:"grupoMuscular"`
	Equipment   flexString `json:"equipamento"`
	Sets        flexFloat  `json:"series"`
	Reps        flexFloat  `json:"repeticoes"`
	RestSeconds flexFloat  `json:"descansoSegundos"`
}

type rawWorkoutDay struct {
	Name            flexString           `json:"nome"`
	Description     flexString           `json:"descricao"`
	Difficulty      flexString           `json:"dificuldade"`
	DurationMinutes flexFloat            `json:"duracaoMinutos"`
	Exercises       []rawWorkoutExercise `json:"exercicios"`
}

type rawWorkoutHeader struct {
	Name        flexString `json:"nomePrograma"`
	Description flexString `json:"descricaoPrograma"`
}

type rawWorkoutPlan struct {
	Header *rawWorkoutHeader `json:"programaTreino"`
	Days   []rawWorkoutDay   `json:"treinos"`
}

// MapWorkoutPlan converts a raw generation-service workout payload into the
// display model. The raw payload stays authoritative for resubmission; the
// returned Plan is a lossy view and carries a client placeholder id until the
// plan is confirmed.
func MapWorkoutPlan(raw json.RawMessage) (model.Plan, error) {
	var rp rawWorkoutPlan
	if err := decodeTopLevel(raw, &rp); err != nil {
		return model.Plan{}, err
	}

	p := model.Plan{
		ID:        placeholderID(),
		Kind:      model.PlanWorkout,
		Name:      "Personalized workout",
		CreatedAt: time.Now(),
		Days:      mapRawDays(rp.Days),
	}
	if rp.Header != nil {
		p.Name = rp.Header.Name.or(p.Name)
		p.Description = rp.Header.Description.val
	}
	return p, nil
}

func mapRawDays(days []rawWorkoutDay) []model.PlanDay {
	out := make([]model.PlanDay, 0, len(days))
	for i, d := range days {
		n := i + 1
		day := model.PlanDay{
			ID:              d.Name.or(d.Description.or(fmt.Sprintf("day-%d", n))),
			DayNumber:       n,
			Category:        ClassifyRoutine(d.Description.or(d.Difficulty.or(d.Name.val))),
			Name:            d.Name.or(fmt.Sprintf("Workout %d", n)),
			Description:     d.Description.val,
			Difficulty:      d.Difficulty.val,
			DurationMinutes: d.DurationMinutes.positiveInt(),
			Exercises:       mapRawExercises(d.Exercises),
		}
		out = append(out, day)
	}
	return out
}

func mapRawExercises(exercises []rawWorkoutExercise) []model.Exercise {
	out := make([]model.Exercise, 0, len(exercises))
	for i, ex := range exercises {
		n := i + 1
		e := model.Exercise{
			ID:        ex.ExerciseID.or(fmt.Sprintf("%d", n)),
			Name:      ex.Name.or(fmt.Sprintf("Exercise %d", n)),
			BodyPart:  ex.MuscleGroup.or("Unknown"),
			Target:    ex.MuscleGroup.or("Personalized"),
			Equipment: ex.Equipment.or("To be defined"),
			Sets:      ex.Sets.positiveInt(),
		}
		if reps := ex.Reps.positiveInt(); reps != nil {
			e.Reps = fmt.Sprintf("%d", *reps)
		}
		if rest := ex.RestSeconds.positiveInt(); rest != nil {
			e.Rest = fmt.Sprintf("%ds", *rest)
		}
		out = append(out, e)
	}
	return out
}

// ClassifyRoutine derives the routine category from free text. The match is a
// case-insensitive substring lookup against a fixed vocabulary; unmatched text
// is fullbody. The result is a display hint, not ground truth.
func ClassifyRoutine(text string) model.RoutineCategory {
	s := strings.ToLower(strings.TrimSpace(text))
	switch model.RoutineCategory(s) {
	case model.RoutineUpper, model.RoutineLower, model.RoutinePush, model.RoutinePull, model.RoutineLegs, model.RoutineFullBody:
		return model.RoutineCategory(s)
	}
	switch {
	case strings.Contains(s, "upper"):
		return model.RoutineUpper
	case strings.Contains(s, "lower"):
		return model.RoutineLower
	case strings.Contains(s, "push"):
		return model.RoutinePush
	case strings.Contains(s, "pull"):
		return model.RoutinePull
	case strings.Contains(s, "perna"), strings.Contains(s, "legs"):
		return model.RoutineLegs
	}
	return model.RoutineFullBody
}

// decodeTopLevel rejects an absent or structurally unusable payload with
// ErrInvalidPlanPayload. Field-level defects inside a present object are
// absorbed by the flex decoders and never reach here.
func decodeTopLevel(raw json.RawMessage, dst any) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return fmt.Errorf("%w: payload is empty", errs.ErrInvalidPlanPayload)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s", errs.ErrInvalidPlanPayload, err)
	}
	return nil
}

func placeholderID() string {
	return "local-" + uuid.Must(uuid.NewV4()).String()
}
