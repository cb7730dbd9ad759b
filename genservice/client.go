// Package genservice is the HTTP client for the plan generation service. It
// returns raw plan payloads untouched; mapping to the display model happens in
// planmap, and only the raw payload is valid for adjust/confirm round trips.
package genservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/weightfit/engine/errs"
)

// DefaultTimeout bounds a single generation call on the client side,
// independently of any server-side timeout.
const DefaultTimeout = 45 * time.Second

// WorkoutAnamnesis is the user-answers structure sent for workout generation.
// Field names follow the generation service's schema.
type WorkoutAnamnesis struct {
	UserID            int64    `json:"usuario_id"`
	Age               int      `json:"idade"`
	Sex               string   `json:"sexo"`
	WeightKg          float64  `json:"peso"`
	Experience        string   `json:"experiencia"`
	TrainingTime      string   `json:"tempo_treino"`
	DaysPerWeek       string   `json:"dias_semana"`
	TimePerDay        string   `json:"tempo_treino_por_dia"`
	Goals             []string `json:"objetivos"`
	SpecificGoal      string   `json:"objetivo_especifico"`
	Injury            string   `json:"lesao"`
	MedicalCondition  string   `json:"condicao_medica"`
	DislikedExercises string   `json:"exercicio_nao_gosta"`
	Equipment         string   `json:"equipamentos,omitempty"`
}

// DietAnamnesis is the user-answers structure sent for diet generation.
type DietAnamnesis struct {
	UserID           int64   `json:"usuario_id"`
	Sex              string  `json:"sexo"`
	Age              int     `json:"idade"`
	HeightCm         float64 `json:"altura"`
	CurrentWeightKg  float64 `json:"pesoatual"`
	TargetWeightKg   float64 `json:"pesodesejado"`
	Goal             string  `json:"objetivo"`
	TargetDate       string  `json:"data_meta"`
	RoutineRating    string  `json:"avalicao_rotina"`
	Budget           string  `json:"orcamento"`
	AccessibleFoods  bool    `json:"alimentos_acessiveis"`
	EatsOut          bool    `json:"come_fora"`
	DietType         string  `json:"tipo_alimentacao"`
	LikedFoods       string  `json:"alimentos_gosta"`
	DislikedFoods    string  `json:"alimentos_nao_gosta"`
	MealsPerDay      int     `json:"qtd_refeicoes"`
	SnacksBetween    bool    `json:"lanche_entre_refeicoes"`
	MealSchedule     string  `json:"horario_alimentacao"`
	CooksOwnMeals    bool    `json:"prepara_propria_refeicao"`
	EatingLocation   string  `json:"onde_come"`
	HasAllergies     bool    `json:"possui_alergias"`
	MedicalCondition string  `json:"possui_condicao_medica"`
	UsesSupplements  bool    `json:"uso_suplementos"`
}

type planResponse struct {
	Message string          `json:"message"`
	Plan    json.RawMessage `json:"plano"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Preview is the service response pair: the untouched raw payload plus the
// service's human-readable message.
type Preview struct {
	Message string
	Raw     json.RawMessage
}

// Client calls the generation service with a bounded per-call timeout.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
}

// New returns a client for the generation service at base. A non-positive
// timeout falls back to DefaultTimeout.
func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{base: strings.TrimRight(base, "/"), http: &http.Client{}, timeout: timeout}
}

// WithHTTPClient replaces the underlying HTTP client (tests, custom transports).
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// PreviewWorkout requests a workout plan for the anamnesis.
func (c *Client) PreviewWorkout(ctx context.Context, an WorkoutAnamnesis) (Preview, error) {
	return c.generate(ctx, "/api/gpt", an, errs.ErrGenerationFailed, "the workout could not be generated, please try again")
}

// PreviewDiet requests a diet plan for the anamnesis.
func (c *Client) PreviewDiet(ctx context.Context, an DietAnamnesis) (Preview, error) {
	return c.generate(ctx, "/api/gpt/dieta", an, errs.ErrGenerationFailed, "the diet could not be generated, please try again")
}

type adjustRequest struct {
	Anamnesis   any             `json:"anamnese"`
	CurrentPlan json.RawMessage `json:"planoAtual"`
	Changes     string          `json:"ajustes"`
}

// AdjustWorkout requests a new workout plan derived from the previously issued
// raw payload plus the user's change instructions. raw must be the payload the
// service last returned; display-to-raw is a one-way derivation.
func (c *Client) AdjustWorkout(ctx context.Context, an WorkoutAnamnesis, raw json.RawMessage, instructions string) (Preview, error) {
	if len(raw) == 0 {
		return Preview{}, errs.ErrNoRawPlan
	}
	req := adjustRequest{Anamnesis: an, CurrentPlan: raw, Changes: instructions}
	return c.generate(ctx, "/api/gpt/ajustar", req, errs.ErrAdjustmentFailed, "the adjustment request failed, please try again")
}

// AdjustDiet requests a new diet plan derived from the previously issued raw
// payload plus the user's change instructions.
func (c *Client) AdjustDiet(ctx context.Context, an DietAnamnesis, raw json.RawMessage, instructions string) (Preview, error) {
	if len(raw) == 0 {
		return Preview{}, errs.ErrNoRawPlan
	}
	req := adjustRequest{Anamnesis: an, CurrentPlan: raw, Changes: instructions}
	return c.generate(ctx, "/api/gpt/dieta/ajustar", req, errs.ErrAdjustmentFailed, "the adjustment request failed, please try again")
}

func (c *Client) generate(ctx context.Context, path string, in any, sentinel error, fallback string) (Preview, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(in)
	if err != nil {
		return Preview{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return Preview{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return Preview{}, fmt.Errorf("%w: the service took too long to respond", sentinel)
		}
		return Preview{}, fmt.Errorf("%w: %s", sentinel, fallback)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Preview{}, fmt.Errorf("%w: %s", sentinel, fallback)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fallback
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Detail != "" {
			msg = eb.Detail
		}
		return Preview{}, fmt.Errorf("%w: %s", sentinel, msg)
	}

	var pr planResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return Preview{}, fmt.Errorf("%w: %s", sentinel, fallback)
	}
	return Preview{Message: pr.Message, Raw: pr.Plan}, nil
}
