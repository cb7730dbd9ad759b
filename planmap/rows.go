package planmap

import (
	"fmt"
	"strconv"
	"time"

	"github.com/weightfit/engine/backend"
	"github.com/weightfit/engine/model"
)

// Mapping of persisted rows into the display model. Confirmed plans read from
// the backend come through here; rows are sparse, so the same placeholder
// rules as the raw-payload mappers apply.

var rowTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseRowTime(s *string) time.Time {
	if s != nil {
		for _, layout := range rowTimeLayouts {
			if t, err := time.Parse(layout, *s); err == nil {
				return t
			}
		}
	}
	return time.Now()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orStr(s *string, fallback string) string {
	if v := deref(s); v != "" {
		return v
	}
	return fallback
}

func positiveIntPtr(f *float64) *int {
	if f == nil || *f <= 0 {
		return nil
	}
	n := int(*f)
	if n <= 0 {
		return nil
	}
	return &n
}

// MapProgram converts a persisted program row and its already-mapped days into
// a Plan carrying the backend's durable id.
func MapProgram(row backend.ProgramRow, days []model.PlanDay) model.Plan {
	return model.Plan{
		ID:          strconv.FormatInt(row.ID, 10),
		Kind:        model.PlanWorkout,
		Name:        orStr(row.Name, "Untitled program"),
		Description: deref(row.Description),
		CreatedAt:   parseRowTime(row.CreatedAt),
		Days:        days,
	}
}

// MapDayRows converts persisted day rows; exercises are fetched separately and
// start empty.
func MapDayRows(rows []backend.DayRow) []model.PlanDay {
	out := make([]model.PlanDay, 0, len(rows))
	for i, row := range rows {
		n := i + 1
		out = append(out, model.PlanDay{
			ID:              strconv.FormatInt(row.ID, 10),
			DayNumber:       n,
			Category:        ClassifyRoutine(orStr(row.Name, orStr(row.Description, deref(row.Difficulty)))),
			Name:            orStr(row.Name, fmt.Sprintf("Workout %d", n)),
			Description:     deref(row.Description),
			Difficulty:      deref(row.Difficulty),
			DurationMinutes: positiveIntPtr(row.Duration),
		})
	}
	return out
}

// MapExerciseRows converts persisted exercise rows into display exercises.
func MapExerciseRows(rows []backend.ExerciseRow) []model.Exercise {
	out := make([]model.Exercise, 0, len(rows))
	for i, row := range rows {
		n := i + 1
		e := model.Exercise{
			ID:        strconv.FormatInt(row.ID, 10),
			Name:      orStr(row.Name, fmt.Sprintf("Exercise %d", n)),
			BodyPart:  orStr(row.MuscleGroup, "General"),
			Target:    orStr(row.MuscleGroup, "Personalized"),
			Equipment: orStr(row.Equipment, "Bodyweight"),
			Sets:      positiveIntPtr(row.Sets),
		}
		if rest := positiveIntPtr(row.RestSeconds); rest != nil {
			e.Rest = fmt.Sprintf("%ds", *rest)
		}
		out = append(out, e)
	}
	return out
}

// MapDiet converts a persisted diet row and its meals into a Plan. A row-level
// calorie figure wins over the meal sum, matching MapDietPlan.
func MapDiet(row backend.DietRow, meals []model.Meal) model.Plan {
	p := model.Plan{
		ID:            strconv.FormatInt(row.ID, 10),
		Kind:          model.PlanDiet,
		Name:          orStr(row.Name, "Diet plan"),
		Description:   deref(row.Description),
		CreatedAt:     time.Now(),
		Meals:         meals,
		TotalCalories: sumMealCalories(meals),
	}
	if total := positiveIntPtr(row.Calories); total != nil {
		p.TotalCalories = *total
	}
	return p
}

// MapMealRows converts persisted meal rows into display meals.
func MapMealRows(rows []backend.MealRow) []model.Meal {
	out := make([]model.Meal, 0, len(rows))
	for i, row := range rows {
		name := orStr(row.MealType, fmt.Sprintf("Meal %d", i+1))
		m := model.Meal{
			ID:    strconv.FormatInt(row.ID, 10),
			Name:  name,
			Time:  MealTime(name),
			Foods: ParseFoods(deref(row.Foods)),
		}
		if cal := positiveIntPtr(row.Calories); cal != nil {
			m.TotalCalories = *cal
		}
		out = append(out, m)
	}
	return out
}
