// Package history rebuilds canonical session records from persisted rows. The
// backend returns session detail in one of two shapes and keeps only a minimal
// schema; the metadata snapshot saved at submission time fills the gaps.
package history

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/weightfit/engine/backend"
	"github.com/weightfit/engine/model"
	"github.com/weightfit/engine/session"
)

// groupedExercise is the shape-normalized intermediate: one exercise with its
// backend labels and set rows, regardless of which shape delivered it.
type groupedExercise struct {
	id        int64
	name      string
	muscle    string
	equipment string
	sets      []model.SetRecord
}

// Reconcile merges one session summary row, its detail rows, and the metadata
// snapshot decoded from the summary's description into a canonical record.
// Ordering inside the result follows first appearance in the detail rows.
func Reconcile(row backend.SessionRow, detail []backend.DetailRow) model.SessionRecord {
	snap := session.DecodeSnapshot(row.Description)

	grouped := normalize(detail)
	if len(grouped) == 0 {
		grouped = fromSnapshot(snap)
	}

	rec := model.SessionRecord{
		ID:        strconv.FormatInt(row.ID, 10),
		SessionID: strconv.FormatInt(row.ID, 10),
		PlanDayID: strconv.FormatInt(row.DayID, 10),
		UserID:    snap.UserID,
		Date:      snap.Date,
		Name:      firstNonEmpty(snap.PlanName, deref(row.DayName), "Workout"),
		DayName:   firstNonEmpty(snap.DayName, deref(row.DayName)),
		Duration:  row.Duration,
		Notes:     snap.Notes,
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now()
	}

	snapByID := make(map[string]session.SnapshotExercise, len(snap.Exercises))
	for _, se := range snap.Exercises {
		snapByID[se.ID] = se
	}

	for i, g := range grouped {
		id := strconv.FormatInt(g.id, 10)
		se, hasSnap := snapByID[id]

		sets := g.sets
		if len(sets) == 0 && hasSnap {
			sets = synthesizeSets(id, se.Sets)
		}

		er := model.ExerciseRecord{
			ID:        id,
			Name:      firstNonEmpty(se.Name, g.name, fmt.Sprintf("Exercise %d", i+1)),
			BodyPart:  firstNonEmpty(se.BodyPart, g.muscle, "General"),
			Target:    firstNonEmpty(se.Target, g.muscle, "Personalized"),
			Equipment: firstNonEmpty(se.Equipment, g.equipment, "To be defined"),
			TotalSets: len(sets),
			Volume:    session.Volume(sets),
			Sets:      sets,
		}
		for _, s := range sets {
			if s.Completed {
				er.CompletedSets++
			}
		}

		rec.Exercises = append(rec.Exercises, er)
		rec.TotalVolume += er.Volume
		rec.CompletedSets += er.CompletedSets
		rec.TotalSets += er.TotalSets
	}

	rec.MuscleGroups = snap.MuscleGroups
	if len(rec.MuscleGroups) == 0 {
		rec.MuscleGroups = deriveMuscleGroups(rec.Exercises)
	}
	return rec
}

// normalize discriminates the detail shape and flattens both into the same
// grouped form. Shape A is recognized by the first element exposing a
// non-empty nested set list; everything else is treated as flat set rows
// grouped by their owning exercise id, in order of first appearance.
func normalize(detail []backend.DetailRow) []groupedExercise {
	if len(detail) == 0 {
		return nil
	}
	if len(detail[0].Series) > 0 {
		return normalizeGrouped(detail)
	}
	return normalizeFlat(detail)
}

func normalizeGrouped(detail []backend.DetailRow) []groupedExercise {
	out := make([]groupedExercise, 0, len(detail))
	for _, row := range detail {
		g := groupedExercise{
			id:        row.ExerciseID,
			name:      deref(row.ExerciseName),
			muscle:    deref(row.MuscleGroup),
			equipment: deref(row.Equipment),
		}
		for i, s := range row.Series {
			g.sets = append(g.sets, model.SetRecord{
				SetID:     strconv.FormatInt(s.ID, 10),
				SetNumber: numberOr(s.Number, i+1),
				Weight:    nonNegative(s.Weight),
				Reps:      positiveCount(s.Reps),
				Completed: true,
			})
		}
		out = append(out, g)
	}
	return out
}

func normalizeFlat(detail []backend.DetailRow) []groupedExercise {
	index := make(map[int64]int)
	var out []groupedExercise
	for _, row := range detail {
		i, ok := index[row.ExerciseID]
		if !ok {
			i = len(out)
			index[row.ExerciseID] = i
			out = append(out, groupedExercise{
				id:        row.ExerciseID,
				name:      deref(row.ExerciseName),
				muscle:    deref(row.MuscleGroup),
				equipment: deref(row.Equipment),
			})
		}
		setID := strconv.FormatInt(row.SetID, 10)
		if row.SetID == 0 {
			setID = fmt.Sprintf("set_%d_%d", row.ExerciseID, len(out[i].sets)+1)
		}
		out[i].sets = append(out[i].sets, model.SetRecord{
			SetID:     setID,
			SetNumber: numberOr(row.SetNumber, len(out[i].sets)+1),
			Weight:    nonNegative(row.Weight),
			Reps:      positiveCount(row.Reps),
			Completed: true,
		})
	}
	return out
}

// fromSnapshot rebuilds exercises purely from the snapshot when the backend
// returned no detail rows at all. Set ids are synthesized.
func fromSnapshot(snap session.Snapshot) []groupedExercise {
	out := make([]groupedExercise, 0, len(snap.Exercises))
	for _, se := range snap.Exercises {
		id, _ := strconv.ParseInt(se.ID, 10, 64)
		out = append(out, groupedExercise{
			id:        id,
			name:      se.Name,
			muscle:    se.BodyPart,
			equipment: se.Equipment,
			sets:      synthesizeSets(se.ID, se.Sets),
		})
	}
	return out
}

func synthesizeSets(exerciseID string, sets []session.SnapshotSet) []model.SetRecord {
	out := make([]model.SetRecord, 0, len(sets))
	for i, s := range sets {
		out = append(out, model.SetRecord{
			SetID:     fmt.Sprintf("set_%s_%d", exerciseID, i+1),
			SetNumber: numberOr(s.Number, i+1),
			Weight:    s.Weight,
			Reps:      s.Reps,
			Completed: true,
		})
	}
	return out
}

func deriveMuscleGroups(exercises []model.ExerciseRecord) []string {
	var out []string
	seen := make(map[string]bool)
	for _, ex := range exercises {
		bp := strings.TrimSpace(ex.BodyPart)
		if bp == "" || seen[bp] {
			continue
		}
		seen[bp] = true
		out = append(out, bp)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func numberOr(n, fallback int) int {
	if n > 0 {
		return n
	}
	return fallback
}

func nonNegative(f *float64) float64 {
	if f == nil || *f < 0 {
		return 0
	}
	return *f
}

func positiveCount(f *float64) int {
	if f == nil || *f <= 0 {
		return 0
	}
	return int(*f)
}
