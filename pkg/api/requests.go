package api

import "time"

// ParseRequest asks the service to parse a batch of raw model identifiers.
type ParseRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,max=500,dive,max=512"`

	// Mode selects the BaseID contract: "api" preserves routing providers,
	// "display" normalizes for grouping. Defaults to "display".
	Mode string `json:"mode" binding:"omitempty,oneof=api display"`

	Options LabelOptions `json:"options"`
}

// LabelOptions mirrors the display formatter flags on the wire.
type LabelOptions struct {
	HideProvider     bool `json:"hide_provider"`
	HideModelMaker   bool `json:"hide_model_maker"`
	HideTemperature  bool `json:"hide_temperature"`
	HideSystemPrompt bool `json:"hide_system_prompt"`
}

// RunSubmission is one evaluation run result to ingest. ModelID is stored
// verbatim; canonical grouping happens at query time.
type RunSubmission struct {
	ModelID     string    `json:"model_id" binding:"required,max=512"`
	EvalID      string    `json:"eval_id" binding:"required,max=256"`
	Score       float64   `json:"score" binding:"min=0,max=1"`
	LatencyMS   int64     `json:"latency_ms" binding:"min=0"`
	CompletedAt time.Time `json:"completed_at"`
}

// SubmitRunsRequest ingests a batch of run results.
type SubmitRunsRequest struct {
	Runs []RunSubmission `json:"runs" binding:"required,min=1,max=1000,dive"`
}

// LeaderboardFilter narrows leaderboard queries.
type LeaderboardFilter struct {
	Days  int    `form:"days"`
	Maker string `form:"maker"`
	Limit int    `form:"limit"`
}
