// Package backend is the HTTP client for the persistence backend: plan
// confirmation, program/diet listing and session submit/history. The backend
// is a black box; this package owns its wire shapes and nothing else.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/weightfit/engine/errs"
	"github.com/weightfit/engine/model"
)

// Client calls the persistence backend. The zero value is not usable; use New.
type Client struct {
	base string
	http *http.Client
}

// New returns a client for the backend at base. Persistence calls rely on the
// platform default timeout; pass a custom *http.Client via WithHTTPClient to
// override.
func New(base string) *Client {
	return &Client{base: strings.TrimRight(base, "/"), http: &http.Client{}}
}

// WithHTTPClient replaces the underlying HTTP client (tests, custom transports).
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// --- plan confirmation ---

// ConfirmWorkout submits the raw workout payload for durable persistence. The
// payload is forwarded verbatim; callers must pass the last service-issued raw
// plan, never a value rebuilt from the display model.
func (c *Client) ConfirmWorkout(ctx context.Context, raw json.RawMessage) (model.ConfirmationResult, error) {
	return c.confirm(ctx, "/api/gpt/confirm", raw)
}

// ConfirmDiet submits the raw diet payload for durable persistence.
func (c *Client) ConfirmDiet(ctx context.Context, raw json.RawMessage) (model.ConfirmationResult, error) {
	return c.confirm(ctx, "/api/gpt/dieta/confirm", raw)
}

func (c *Client) confirm(ctx context.Context, path string, raw json.RawMessage) (model.ConfirmationResult, error) {
	if len(raw) == 0 {
		return model.ConfirmationResult{}, errs.ErrNoRawPlan
	}
	var resp confirmResponse
	if err := c.post(ctx, path, map[string]json.RawMessage{"plano": raw}, &resp); err != nil {
		if d := Detail(err); d != "" {
			return model.ConfirmationResult{}, fmt.Errorf("%w: %s", errs.ErrConfirmationFailed, d)
		}
		return model.ConfirmationResult{}, fmt.Errorf("%w: the plan could not be saved, please try again", errs.ErrConfirmationFailed)
	}
	res := model.ConfirmationResult{
		Message:    resp.Message,
		CreatedIDs: resp.CreatedIDs,
		RawPlan:    resp.Plan,
	}
	if len(res.CreatedIDs) == 0 {
		res.CreatedIDs = resp.LegacyIDs
	}
	// programa is an object for workout confirms, a bare string or null for
	// diet confirms; only the object form carries usable identifiers
	if len(resp.Program) > 0 && resp.Program[0] == '{' {
		var hdr programHeader
		if err := json.Unmarshal(resp.Program, &hdr); err == nil && hdr.ID != 0 {
			res.Program = &model.ProgramRef{
				ID:          hdr.ID,
				Name:        strOrEmpty(hdr.Name),
				Description: strOrEmpty(hdr.Description),
			}
		}
	}
	return res, nil
}

// --- workout plan read path ---

// Programs lists the user's persisted workout programs.
func (c *Client) Programs(ctx context.Context, userID string) ([]ProgramRow, error) {
	var resp programsResponse
	if err := c.get(ctx, "/api/programas", url.Values{"userId": {userID}}, &resp); err != nil {
		return nil, err
	}
	return resp.Programs, nil
}

// ProgramDays lists the workout days of one program.
func (c *Client) ProgramDays(ctx context.Context, userID string, programID int64) ([]DayRow, error) {
	var rows []DayRow
	q := url.Values{"user_id": {userID}, "id_programa": {fmt.Sprint(programID)}}
	if err := c.get(ctx, "/api/treinos-programa", q, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// DayExercises lists the persisted exercises of one workout day.
func (c *Client) DayExercises(ctx context.Context, userID string, dayID int64) ([]ExerciseRow, error) {
	var resp exercisesResponse
	q := url.Values{"user_id": {userID}, "id_treino": {fmt.Sprint(dayID)}}
	if err := c.get(ctx, "/api/exercicios-treinos", q, &resp); err != nil {
		return nil, err
	}
	return resp.Exercises, nil
}

// --- diet plan read path ---

// DietPlans lists the user's persisted diet plans.
func (c *Client) DietPlans(ctx context.Context, userID string) ([]DietRow, error) {
	var rows []DietRow
	if err := c.get(ctx, "/api/dietas_usuario", url.Values{"idUsuario": {userID}}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// DietMeals lists the meals of one diet plan.
func (c *Client) DietMeals(ctx context.Context, dietID int64) ([]MealRow, error) {
	var rows []MealRow
	if err := c.get(ctx, "/api/refeicoes_dieta", url.Values{"idDieta": {fmt.Sprint(dietID)}}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// --- sessions ---

// SubmitSession persists one finished workout session.
func (c *Client) SubmitSession(ctx context.Context, in SessionInsert) (SessionResult, error) {
	var resp SessionResult
	if err := c.post(ctx, "/api/sessoes", in, &resp); err != nil {
		return SessionResult{}, err
	}
	return resp, nil
}

// Sessions lists the user's session summaries.
func (c *Client) Sessions(ctx context.Context, userID string) ([]SessionRow, error) {
	var rows []SessionRow
	if err := c.get(ctx, "/api/sessoes/perfil", url.Values{"id_usuario": {userID}}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SessionExercises fetches the detail rows of one session. The response is
// shape A or shape B (see DetailRow); the reconciler discriminates.
func (c *Client) SessionExercises(ctx context.Context, sessionID int64) ([]DetailRow, error) {
	var rows []DetailRow
	if err := c.get(ctx, "/api/sessoes/exercicios", url.Values{"id_sessao": {fmt.Sprint(sessionID)}}, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// --- transport ---

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Path: req.URL.Path}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			apiErr.Detail = eb.Detail
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

// APIError is a non-2xx backend response. Detail is the service-provided
// message, empty when the body carried none.
type APIError struct {
	Status int
	Path   string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Path)
}

// Detail extracts the service-provided detail string from err, or "" when err
// is not an APIError or carried no detail.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
