// Package stats computes cross-session aggregates over reconciled records.
package stats

import "github.com/weightfit/engine/model"

// recentCount is how many records Stats.RecentWorkouts keeps.
const recentCount = 7

// Stats summarizes a user's workout history.
type Stats struct {
	TotalWorkouts        int
	TotalVolume          float64
	TotalDuration        int // seconds
	AverageDuration      float64
	FavoriteMuscleGroups map[string]int
	RecentWorkouts       []model.SessionRecord
}

// Compute aggregates a record collection. It is total over a possibly empty
// input: no records yields zeroed stats and an empty frequency map.
//
// FavoriteMuscleGroups counts sessions touching a group, not exercises.
// RecentWorkouts is the first recentCount records of the input as given;
// callers sort newest-first before calling, Compute does not sort.
func Compute(records []model.SessionRecord) Stats {
	s := Stats{
		TotalWorkouts:        len(records),
		FavoriteMuscleGroups: make(map[string]int),
	}
	for _, rec := range records {
		s.TotalVolume += rec.TotalVolume
		s.TotalDuration += rec.Duration
		for _, mg := range rec.MuscleGroups {
			s.FavoriteMuscleGroups[mg]++
		}
	}
	if s.TotalWorkouts > 0 {
		s.AverageDuration = float64(s.TotalDuration) / float64(s.TotalWorkouts)
	}

	n := recentCount
	if len(records) < n {
		n = len(records)
	}
	s.RecentWorkouts = records[:n]
	return s
}
