package stats

import (
	"fmt"
	"testing"

	"github.com/weightfit/engine/model"
)

func TestCompute_EmptyInput(t *testing.T) {
	t.Parallel()
	s := Compute(nil)
	if s.TotalWorkouts != 0 || s.TotalVolume != 0 || s.TotalDuration != 0 || s.AverageDuration != 0 {
		t.Fatalf("empty input must yield zeroed stats: %+v", s)
	}
	if s.FavoriteMuscleGroups == nil || len(s.FavoriteMuscleGroups) != 0 {
		t.Fatalf("favorites must be an empty map, got %v", s.FavoriteMuscleGroups)
	}
	if len(s.RecentWorkouts) != 0 {
		t.Fatalf("recent must be empty")
	}
}

func TestCompute_Aggregates(t *testing.T) {
	t.Parallel()
	records := []model.SessionRecord{
		{Duration: 600, TotalVolume: 1000, MuscleGroups: []string{"chest", "back"}},
		{Duration: 1200, TotalVolume: 2000, MuscleGroups: []string{"chest"}},
		{Duration: 900, TotalVolume: 500, MuscleGroups: []string{"legs"}},
	}
	s := Compute(records)
	if s.TotalWorkouts != 3 || s.TotalVolume != 3500 || s.TotalDuration != 2700 {
		t.Fatalf("totals wrong: %+v", s)
	}
	if s.AverageDuration != 900 {
		t.Fatalf("averageDuration=%v, want 900", s.AverageDuration)
	}
	if s.FavoriteMuscleGroups["chest"] != 2 || s.FavoriteMuscleGroups["back"] != 1 || s.FavoriteMuscleGroups["legs"] != 1 {
		t.Fatalf("favorites wrong: %v", s.FavoriteMuscleGroups)
	}
}

func TestCompute_RecentKeepsFirstSevenAsGiven(t *testing.T) {
	t.Parallel()
	records := make([]model.SessionRecord, 10)
	for i := range records {
		records[i].ID = fmt.Sprintf("%d", i)
	}
	s := Compute(records)
	if len(s.RecentWorkouts) != 7 {
		t.Fatalf("recent=%d, want 7", len(s.RecentWorkouts))
	}
	for i, rec := range s.RecentWorkouts {
		if rec.ID != fmt.Sprintf("%d", i) {
			t.Fatalf("recent must preserve input order, got %q at %d", rec.ID, i)
		}
	}
}
