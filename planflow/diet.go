package planflow

import (
	"context"
	"encoding/json"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/weightfit/engine/backend"
	"github.com/weightfit/engine/genservice"
	"github.com/weightfit/engine/model"
	"github.com/weightfit/engine/planmap"
)

// DietFlow is the lifecycle controller for diet plans. It mirrors WorkoutFlow;
// the difference is the wire endpoints and that diet confirms carry no program
// reference, so the post-confirm plan always derives from the raw payload.
type DietFlow struct {
	rawHolder
	gen     *genservice.Client
	backend *backend.Client
	log     *zap.Logger
}

// NewDietFlow returns an idle diet flow.
func NewDietFlow(gen *genservice.Client, b *backend.Client, log *zap.Logger) *DietFlow {
	if log == nil {
		log = zap.NewNop()
	}
	return &DietFlow{rawHolder: newRawHolder(), gen: gen, backend: b, log: log}
}

// Preview requests a diet plan and stores the issued raw payload.
func (f *DietFlow) Preview(ctx context.Context, an genservice.DietAnamnesis) (model.Plan, json.RawMessage, error) {
	f.state = StatePreviewing
	pv, err := f.gen.PreviewDiet(ctx, an)
	if err != nil {
		f.settle()
		return model.Plan{}, nil, err
	}
	plan, err := planmap.MapDietPlan(pv.Raw)
	if err != nil {
		f.settle()
		return model.Plan{}, nil, err
	}
	f.store(pv.Raw)
	f.log.Info("diet plan previewed", zap.Int("meals", len(plan.Meals)))
	return plan, f.Raw(), nil
}

// Adjust sends the stored raw payload back with the user's change
// instructions and replaces it with the newly issued one.
func (f *DietFlow) Adjust(ctx context.Context, an genservice.DietAnamnesis, instructions string) (model.Plan, json.RawMessage, error) {
	raw, err := f.take()
	if err != nil {
		return model.Plan{}, nil, err
	}
	f.state = StateAdjusting
	pv, err := f.gen.AdjustDiet(ctx, an, raw, instructions)
	if err != nil {
		f.settle()
		return model.Plan{}, nil, err
	}
	plan, err := planmap.MapDietPlan(pv.Raw)
	if err != nil {
		f.settle()
		return model.Plan{}, nil, err
	}
	f.store(pv.Raw)
	f.log.Info("diet plan adjusted", zap.Int("meals", len(plan.Meals)))
	return plan, f.Raw(), nil
}

// Confirm persists the stored raw payload.
func (f *DietFlow) Confirm(ctx context.Context) (model.Plan, model.ConfirmationResult, error) {
	raw, err := f.take()
	if err != nil {
		return model.Plan{}, model.ConfirmationResult{}, err
	}
	f.state = StateConfirming
	res, err := f.backend.ConfirmDiet(ctx, raw)
	if err != nil {
		f.settle()
		return model.Plan{}, model.ConfirmationResult{}, err
	}
	f.confirmed()

	source := res.RawPlan
	if len(source) == 0 {
		source = raw
	}
	plan, mapErr := planmap.MapDietPlan(source)
	if mapErr != nil {
		plan = model.Plan{Kind: model.PlanDiet, Name: "Diet plan"}
	}
	f.log.Info("diet plan confirmed", zap.Int("meals", len(plan.Meals)))
	return plan, res, nil
}

// Plans lists the user's persisted diet plans with meals, newest first. Meal
// fetches fan out per diet; a failure on one diet degrades it to an empty
// meal list.
func (f *DietFlow) Plans(ctx context.Context, userID string) ([]model.Plan, error) {
	diets, err := f.backend.DietPlans(ctx, userID)
	if err != nil {
		return nil, err
	}

	mealsByDiet := make([][]model.Meal, len(diets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, diet := range diets {
		i, diet := i, diet
		g.Go(func() error {
			rows, err := f.backend.DietMeals(gctx, diet.ID)
			if err != nil {
				f.log.Warn("diet meals unavailable",
					zap.Int64("diet_id", diet.ID),
					zap.Error(err))
				return nil
			}
			mealsByDiet[i] = planmap.MapMealRows(rows)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plans := make([]model.Plan, 0, len(diets))
	for i, diet := range diets {
		plans = append(plans, planmap.MapDiet(diet, mealsByDiet[i]))
	}
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].CreatedAt.After(plans[j].CreatedAt) })
	return plans, nil
}

// Summaries lists the user's diet plans without loading meals.
func (f *DietFlow) Summaries(ctx context.Context, userID string) ([]model.Plan, error) {
	diets, err := f.backend.DietPlans(ctx, userID)
	if err != nil {
		return nil, err
	}
	plans := make([]model.Plan, 0, len(diets))
	for _, diet := range diets {
		plans = append(plans, planmap.MapDiet(diet, nil))
	}
	return plans, nil
}

// Meals lists the persisted meals of one diet plan.
func (f *DietFlow) Meals(ctx context.Context, dietID int64) ([]model.Meal, error) {
	rows, err := f.backend.DietMeals(ctx, dietID)
	if err != nil {
		return nil, err
	}
	return planmap.MapMealRows(rows), nil
}
