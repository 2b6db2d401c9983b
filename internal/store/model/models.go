package model

import (
	"database/sql"
	"time"
)

// APIKey is a hashed client credential.
type APIKey struct {
	ID         string       `db:"id"`
	Name       string       `db:"name"`
	KeyHash    string       `db:"key_hash"`
	KeyPrefix  string       `db:"key_prefix"`
	IsActive   bool         `db:"is_active"`
	LastUsedAt sql.NullTime `db:"last_used_at"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
}

// RunResult is one persisted evaluation run. ModelID is stored exactly as
// submitted so the routing identity can always be recovered.
type RunResult struct {
	ID          string    `db:"id"`
	ModelID     string    `db:"model_id"`
	EvalID      string    `db:"eval_id"`
	Score       float64   `db:"score"`
	LatencyMS   int64     `db:"latency_ms"`
	CompletedAt time.Time `db:"completed_at"`
	CreatedAt   time.Time `db:"created_at"`
}

// RawModelAggregate is a per-verbatim-ID rollup straight out of SQL.
type RawModelAggregate struct {
	ModelID   string  `db:"model_id"`
	RunCount  int     `db:"run_count"`
	AvgScore  float64 `db:"avg_score"`
	BestScore float64 `db:"best_score"`
}
