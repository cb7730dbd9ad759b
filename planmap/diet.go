package planmap

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/weightfit/engine/model"
)

type rawDietMeal struct {
	Calories flexFloat  `json:"calorias"`
	Foods    flexString `json:"alimentos"`
	MealType flexString `json:"tipoRefeicao"`
}

type rawDietPlan struct {
	Name        flexString    `json:"nome"`
	Description flexString    `json:"descricao"`
	Calories    flexFloat     `json:"calorias"`
	Meals       []rawDietMeal `json:"refeicoes"`
}

// mealTimes maps a lowercased meal name to its display time. Unmapped names
// get the "Time not informed" placeholder.
var mealTimes = map[string]string{
	"café da manhã":   "08:00",
	"cafe da manha":   "08:00",
	"breakfast":       "08:00",
	"lanche":          "10:30",
	"lanche da manhã": "10:30",
	"morning snack":   "10:30",
	"snack":           "10:30",
	"lanche da tarde": "16:00",
	"afternoon snack": "16:00",
	"almoço":          "12:30",
	"almoco":          "12:30",
	"lunch":           "12:30",
	"jantar":          "19:30",
	"dinner":          "19:30",
	"ceia":            "22:00",
	"supper":          "22:00",
}

// MealTime returns the display time for a meal name.
func MealTime(name string) string {
	if t, ok := mealTimes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return "Time not informed"
}

// MapDietPlan converts a raw generation-service diet payload into the display
// model. If the payload carries a top-level calorie total it wins; otherwise
// the total is the sum of meal totals.
func MapDietPlan(raw json.RawMessage) (model.Plan, error) {
	var rp rawDietPlan
	if err := decodeTopLevel(raw, &rp); err != nil {
		return model.Plan{}, err
	}

	meals := mapRawMeals(rp.Meals)
	p := model.Plan{
		ID:            placeholderID(),
		Kind:          model.PlanDiet,
		Name:          rp.Name.or("Diet plan"),
		Description:   rp.Description.val,
		CreatedAt:     time.Now(),
		Meals:         meals,
		TotalCalories: sumMealCalories(meals),
	}
	if total := rp.Calories.positiveInt(); total != nil {
		p.TotalCalories = *total
	}
	return p, nil
}

func mapRawMeals(meals []rawDietMeal) []model.Meal {
	out := make([]model.Meal, 0, len(meals))
	for i, m := range meals {
		name := m.MealType.or(fmt.Sprintf("Meal %d", i+1))
		meal := model.Meal{
			ID:    fmt.Sprintf("meal-%d", i+1),
			Name:  name,
			Time:  MealTime(name),
			Foods: ParseFoods(m.Foods.val),
		}
		if cal := m.Calories.positiveInt(); cal != nil {
			meal.TotalCalories = *cal
		}
		out = append(out, meal)
	}
	return out
}

func sumMealCalories(meals []model.Meal) int {
	total := 0
	for _, m := range meals {
		total += m.TotalCalories
	}
	return total
}

// ParseFoods splits a semi-structured food text blob into items. Entries are
// separated by semicolons or newlines; when that yields at most one entry the
// text is retried with ", " as the delimiter. Each entry may split once more
// on " - " into name and quantity.
func ParseFoods(text string) []model.Food {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	normalized := strings.NewReplacer("\r\n", ";", "\n", ";").Replace(text)
	entries := splitClean(normalized, ";")
	if len(entries) <= 1 {
		if comma := splitClean(text, ", "); len(comma) > 1 {
			entries = comma
		}
	}

	out := make([]model.Food, 0, len(entries))
	for _, entry := range entries {
		f := model.Food{Name: entry}
		if parts := strings.SplitN(entry, " - ", 2); len(parts) == 2 {
			f.Name = strings.TrimSpace(parts[0])
			f.Quantity = strings.TrimSpace(parts[1])
		}
		if f.Name == "" {
			f.Name = "Food"
		}
		out = append(out, f)
	}
	return out
}

func splitClean(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
