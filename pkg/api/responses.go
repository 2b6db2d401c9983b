package api

import "time"

// ErrorResponse is the minimal error shape used by middleware that aborts
// before the problem-details handler runs.
type ErrorResponse struct {
	Message string `json:"message"`
}

// ParsedIdentifier is the wire view of one parsed model identifier.
type ParsedIdentifier struct {
	FullID            string   `json:"full_id"`
	BaseID            string   `json:"base_id"`
	Maker             string   `json:"maker"`
	Temperature       *float64 `json:"temperature,omitempty"`
	SystemPromptIndex *int     `json:"system_prompt_index,omitempty"`
	SystemPromptHash  string   `json:"system_prompt_hash,omitempty"`
	Label             string   `json:"label"`
}

// ParseResponse returns parsed identifiers in input order.
type ParseResponse struct {
	Mode         string             `json:"mode"`
	RulesVersion string             `json:"rules_version"`
	Identifiers  []ParsedIdentifier `json:"identifiers"`
}

// ModelSummary is one canonical model observed across ingested runs.
type ModelSummary struct {
	BaseID   string   `json:"base_id"`
	Maker    string   `json:"maker"`
	Label    string   `json:"label"`
	Variants []string `json:"variants"`
	RunCount int      `json:"run_count"`
}

// LeaderboardEntry is one canonical model's aggregate standing.
type LeaderboardEntry struct {
	BaseID    string  `json:"base_id"`
	Maker     string  `json:"maker"`
	Label     string  `json:"label"`
	RunCount  int     `json:"run_count"`
	AvgScore  float64 `json:"avg_score"`
	BestScore float64 `json:"best_score"`
}

// LeaderboardResponse wraps the entries with the window they cover.
type LeaderboardResponse struct {
	Days    int                `json:"days"`
	Entries []LeaderboardEntry `json:"entries"`
}

// RunRecord is one ingested run with its canonical display identity
// resolved.
type RunRecord struct {
	ID          string    `json:"id"`
	ModelID     string    `json:"model_id"`
	BaseID      string    `json:"base_id"`
	Label       string    `json:"label"`
	EvalID      string    `json:"eval_id"`
	Score       float64   `json:"score"`
	LatencyMS   int64     `json:"latency_ms"`
	CompletedAt time.Time `json:"completed_at"`
}

// SubmitRunsResponse acknowledges an ingest batch.
type SubmitRunsResponse struct {
	Accepted int `json:"accepted"`
}

// Identity labels for requests that arrive without a database-backed key.
type IdentityClass string

const (
	Anonymous IdentityClass = "anonymous"
	System    IdentityClass = "system"
)
