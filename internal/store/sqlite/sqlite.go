package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/weval-org/model-identity-api/internal/store"
	"github.com/weval-org/model-identity-api/internal/store/model"
)

// DB is satisfied by *sqlx.DB and *sqlx.Tx.
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository.
type SqliteRepository struct {
	db       *sqlx.DB // required for starting new transactions
	executor DB       // queries run against this (*sqlx.DB or *sqlx.Tx)
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	txRepo := &SqliteRepository{
		db:       r.db,
		executor: tx,
	}

	if err := fn(txRepo); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SqliteRepository) APIKeys() store.APIKeyRepository {
	return &apiKeyRepo{db: r.executor}
}

func (r *SqliteRepository) Runs() store.RunRepository {
	return &runRepo{db: r.executor}
}

type apiKeyRepo struct {
	db DB
}

func (r *apiKeyRepo) GetByHash(ctx context.Context, hash string) (*model.APIKey, error) {
	var key model.APIKey
	// active check is part of the query for speed
	query := `SELECT * FROM api_keys WHERE key_hash = ? AND is_active = 1`
	if err := r.db.GetContext(ctx, &key, query, hash); err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepo) Create(ctx context.Context, key *model.APIKey) error {
	query := `
	INSERT INTO api_keys (id, name, key_hash, key_prefix, is_active, created_at, updated_at)
	VALUES (:id, :name, :key_hash, :key_prefix, :is_active, :created_at, :updated_at)`
	_, err := r.db.NamedExecContext(ctx, query, key)
	return err
}

func (r *apiKeyRepo) UpdateUsage(ctx context.Context, id string) error {
	query := `UPDATE api_keys SET last_used_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

type runRepo struct {
	db DB
}

func (r *runRepo) Insert(ctx context.Context, run *model.RunResult) error {
	query := `
	INSERT INTO run_results (id, model_id, eval_id, score, latency_ms, completed_at, created_at)
	VALUES (:id, :model_id, :eval_id, :score, :latency_ms, :completed_at, :created_at)`
	_, err := r.db.NamedExecContext(ctx, query, run)
	return err
}

func (r *runRepo) InsertBatch(ctx context.Context, runs []*model.RunResult) error {
	for _, run := range runs {
		if err := r.Insert(ctx, run); err != nil {
			return err
		}
	}
	return nil
}

func (r *runRepo) AggregateByRawID(ctx context.Context, since time.Time) ([]model.RawModelAggregate, error) {
	var aggs []model.RawModelAggregate
	query := `
	SELECT
		model_id,
		COUNT(*) as run_count,
		AVG(score) as avg_score,
		MAX(score) as best_score
	FROM run_results
	WHERE completed_at >= ?
	GROUP BY model_id
	ORDER BY avg_score DESC`
	err := r.db.SelectContext(ctx, &aggs, query, since)
	return aggs, err
}

func (r *runRepo) GetRecent(ctx context.Context, limit int) ([]model.RunResult, error) {
	var runs []model.RunResult
	query := `SELECT * FROM run_results ORDER BY created_at DESC LIMIT ?`
	err := r.db.SelectContext(ctx, &runs, query, limit)
	return runs, err
}
