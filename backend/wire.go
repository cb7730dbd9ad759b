package backend

import "encoding/json"

// Wire shapes of the persistence backend. Field names follow the backend's
// schema; nullable columns arrive as JSON null and decode into pointers.

// ProgramRow is one persisted workout program summary.
type ProgramRow struct {
	ID          int64   `json:"id_programa_treino"`
	UserID      int64   `json:"id_usu"`
	Name        *string `json:"nome"`
	Description *string `json:"descricao"`
	CreatedAt   *string `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
}

type programsResponse struct {
	Programs []ProgramRow `json:"programas_treino"`
}

// DayRow is one workout day belonging to a program.
type DayRow struct {
	ID          int64    `json:"id"`
	Name        *string  `json:"nome"`
	Description *string  `json:"descricao"`
	Duration    *float64 `json:"duracao"`
	Difficulty  *string  `json:"dificuldade"`
}

// ExerciseRow is one persisted exercise belonging to a workout day.
type ExerciseRow struct {
	ID          int64    `json:"id_ex_treino"`
	Name        *string  `json:"nome"`
	MuscleGroup *string  `json:"grupo_muscular"`
	Equipment   *string  `json:"equipamento"`
	RestSeconds *float64 `json:"descanso"`
	Sets        *float64 `json:"series"`
}

type exercisesResponse struct {
	Exercises []ExerciseRow `json:"exercicios"`
}

// DietRow is one persisted diet plan summary.
type DietRow struct {
	ID          int64    `json:"id_dieta"`
	Name        *string  `json:"nome"`
	Description *string  `json:"descricao"`
	Calories    *float64 `json:"calorias"`
}

// MealRow is one persisted meal belonging to a diet plan.
type MealRow struct {
	ID       int64    `json:"id_refeicao"`
	MealType *string  `json:"tipo_refeicao"`
	DietID   *int64   `json:"id_dieta"`
	Calories *float64 `json:"calorias"`
	Foods    *string  `json:"alimentos"`
}

// SessionInsert is the session submission body. Exercises carry parallel
// reps/weights arrays for completed sets only; Description holds the encoded
// metadata snapshot blob.
type SessionInsert struct {
	Duration    int              `json:"duracao"`
	DayID       int64            `json:"id_treino"`
	Description string           `json:"descricao"`
	Exercises   []ExerciseInsert `json:"exercicios"`
}

// ExerciseInsert is one exercise of a session submission.
type ExerciseInsert struct {
	ExerciseID int64     `json:"id_exercicio"`
	Reps       []int     `json:"repeticoes"`
	Weights    []float64 `json:"cargas"`
}

// SessionResult echoes the inserted session. Series is the flat-shape set list
// (present only on the immediate echo; history fetch returns full rows later).
type SessionResult struct {
	SessionID int64       `json:"id_sessao"`
	Series    []DetailRow `json:"series"`
}

// SessionRow is one session summary from the history listing. Description
// carries the metadata snapshot blob saved at submission time.
type SessionRow struct {
	ID            int64   `json:"id_sessao"`
	Duration      int     `json:"duracao_sessao"`
	Description   string  `json:"descricao"`
	DayID         int64   `json:"id_treino"`
	DayName       *string `json:"treino_nome"`
	ExerciseCount int     `json:"qtd_exercicios"`
}

// SetRow is one set inside a grouped (shape A) session detail element.
type SetRow struct {
	ID     int64    `json:"id_serie"`
	Number int      `json:"numero_serie"`
	Reps   *float64 `json:"repeticoes"`
	Weight *float64 `json:"carga"`
}

// DetailRow is one element of the session detail response. The backend returns
// either exercises with a nested series list (shape A) or bare set rows
// carrying their owning exercise id (shape B); fields of the other shape
// decode to zero values. Shape discrimination happens in the reconciler.
type DetailRow struct {
	ExerciseID   int64   `json:"id_ex_treino"`
	ExerciseName *string `json:"nome_exercicio"`
	MuscleGroup  *string `json:"grupo_muscular"`
	Equipment    *string `json:"equipamento"`
	Series       []SetRow `json:"series"`

	// flat-shape fields
	SetID     int64    `json:"id_serie"`
	SetNumber int      `json:"numero_serie"`
	Reps      *float64 `json:"repeticoes"`
	Weight    *float64 `json:"carga"`
}

type confirmResponse struct {
	Message    string          `json:"message"`
	Program    json.RawMessage `json:"programa"`
	CreatedIDs []int64         `json:"treinos_inseridos"`
	// older diet deployments use a different key for the id list
	LegacyIDs []int64         `json:"treinosIds"`
	Plan      json.RawMessage `json:"plano"`
}

type programHeader struct {
	ID          int64   `json:"id_programa_treino"`
	Name        *string `json:"nome"`
	Description *string `json:"descricao"`
}

type errorBody struct {
	Detail string `json:"detail"`
}
