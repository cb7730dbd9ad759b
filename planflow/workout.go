package planflow

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/weightfit/engine/backend"
	"github.com/weightfit/engine/genservice"
	"github.com/weightfit/engine/model"
	"github.com/weightfit/engine/planmap"
)

// WorkoutFlow is the lifecycle controller for workout plans.
type WorkoutFlow struct {
	rawHolder
	gen     *genservice.Client
	backend *backend.Client
	log     *zap.Logger
}

// NewWorkoutFlow returns an idle workout flow.
func NewWorkoutFlow(gen *genservice.Client, b *backend.Client, log *zap.Logger) *WorkoutFlow {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorkoutFlow{rawHolder: newRawHolder(), gen: gen, backend: b, log: log}
}

// Preview requests a workout plan and returns the display model together with
// the raw payload the service issued. The flow stores the raw payload; the
// returned copy is informational and must not be edited and resubmitted.
func (f *WorkoutFlow) Preview(ctx context.Context, an genservice.WorkoutAnamnesis) (model.Plan, json.RawMessage, error) {
	f.state = StatePreviewing
	pv, err := f.gen.PreviewWorkout(ctx, an)
	if err != nil {
		f.settle()
		return model.Plan{}, nil, err
	}
	plan, err := planmap.MapWorkoutPlan(pv.Raw)
	if err != nil {
		f.settle()
		return model.Plan{}, nil, err
	}
	f.store(pv.Raw)
	f.log.Info("workout plan previewed", zap.Int("days", len(plan.Days)))
	return plan, f.Raw(), nil
}

// Adjust sends the stored raw payload back to the service with the user's
// change instructions and replaces it with the newly issued one.
func (f *WorkoutFlow) Adjust(ctx context.Context, an genservice.WorkoutAnamnesis, instructions string) (model.Plan, json.RawMessage, error) {
	raw, err := f.take()
	if err != nil {
		return model.Plan{}, nil, err
	}
	f.state = StateAdjusting
	pv, err := f.gen.AdjustWorkout(ctx, an, raw, instructions)
	if err != nil {
		f.settle()
		return model.Plan{}, nil, err
	}
	plan, err := planmap.MapWorkoutPlan(pv.Raw)
	if err != nil {
		f.settle()
		return model.Plan{}, nil, err
	}
	f.store(pv.Raw)
	f.log.Info("workout plan adjusted", zap.Int("days", len(plan.Days)))
	return plan, f.Raw(), nil
}

// Confirm persists the stored raw payload. On success the backend's program id
// becomes the plan's identity and the authoritative day list is re-fetched;
// when that re-fetch fails the confirmation still succeeds and the plan is
// rebuilt from the confirmed raw payload, stamped with the durable id.
func (f *WorkoutFlow) Confirm(ctx context.Context, userID string) (model.Plan, model.ConfirmationResult, error) {
	raw, err := f.take()
	if err != nil {
		return model.Plan{}, model.ConfirmationResult{}, err
	}
	f.state = StateConfirming
	res, err := f.backend.ConfirmWorkout(ctx, raw)
	if err != nil {
		f.settle()
		return model.Plan{}, model.ConfirmationResult{}, err
	}
	f.confirmed()

	plan := f.confirmedPlan(ctx, userID, raw, res)
	f.log.Info("workout plan confirmed",
		zap.String("plan_id", plan.ID),
		zap.Int("created_days", len(res.CreatedIDs)))
	return plan, res, nil
}

// confirmedPlan resolves the post-confirm display plan: authoritative backend
// rows when reachable, otherwise the confirmed raw payload with the durable id
// stamped on.
func (f *WorkoutFlow) confirmedPlan(ctx context.Context, userID string, raw json.RawMessage, res model.ConfirmationResult) model.Plan {
	if res.Program != nil {
		days, err := f.backend.ProgramDays(ctx, userID, res.Program.ID)
		if err == nil {
			return planmap.MapProgram(backend.ProgramRow{
				ID:          res.Program.ID,
				Name:        &res.Program.Name,
				Description: &res.Program.Description,
			}, planmap.MapDayRows(days))
		}
		f.log.Warn("confirmed plan re-fetch failed, serving plan derived from raw payload",
			zap.Int64("program_id", res.Program.ID),
			zap.Error(err))
	}

	source := res.RawPlan
	if len(source) == 0 {
		source = raw
	}
	plan, err := planmap.MapWorkoutPlan(source)
	if err != nil {
		plan = model.Plan{Kind: model.PlanWorkout, Name: "Personalized workout"}
	}
	if res.Program != nil {
		plan.ID = strconv.FormatInt(res.Program.ID, 10)
		if res.Program.Name != "" {
			plan.Name = res.Program.Name
		}
	}
	return plan
}

// Plans lists the user's persisted workout programs with their day lists,
// newest first. Day fetches fan out per program; a failure on one program
// degrades it to an empty day list instead of failing the listing.
func (f *WorkoutFlow) Plans(ctx context.Context, userID string) ([]model.Plan, error) {
	programs, err := f.backend.Programs(ctx, userID)
	if err != nil {
		return nil, err
	}

	daysByProgram := make([][]model.PlanDay, len(programs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, program := range programs {
		i, program := i, program
		g.Go(func() error {
			rows, err := f.backend.ProgramDays(gctx, userID, program.ID)
			if err != nil {
				f.log.Warn("program days unavailable",
					zap.Int64("program_id", program.ID),
					zap.Error(err))
				return nil
			}
			daysByProgram[i] = planmap.MapDayRows(rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plans := make([]model.Plan, 0, len(programs))
	for i, program := range programs {
		plans = append(plans, planmap.MapProgram(program, daysByProgram[i]))
	}
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].CreatedAt.After(plans[j].CreatedAt) })
	return plans, nil
}

// DayExercises lists the persisted exercises of one workout day.
func (f *WorkoutFlow) DayExercises(ctx context.Context, userID string, dayID int64) ([]model.Exercise, error) {
	rows, err := f.backend.DayExercises(ctx, userID, dayID)
	if err != nil {
		return nil, err
	}
	return planmap.MapExerciseRows(rows), nil
}
