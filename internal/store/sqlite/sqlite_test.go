package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weval-org/model-identity-api/internal/store"
	"github.com/weval-org/model-identity-api/internal/store/model"
)

func newTestRepo(t *testing.T) store.Repository {
	t.Helper()

	repo, err := NewSQLiteStorage(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func newRun(modelID string, score float64, completed time.Time) *model.RunResult {
	return &model.RunResult{
		ID:          uuid.New().String(),
		ModelID:     modelID,
		EvalID:      "eval-1",
		Score:       score,
		LatencyMS:   500,
		CompletedAt: completed,
		CreatedAt:   time.Now(),
	}
}

func TestAPIKeys_CreateAndGetByHash(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	key := &model.APIKey{
		ID:        uuid.New().String(),
		Name:      "test",
		KeyHash:   "deadbeef",
		KeyPrefix: "mi-",
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.APIKeys().Create(ctx, key))

	got, err := repo.APIKeys().GetByHash(ctx, "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, key.ID, got.ID)
	assert.Equal(t, "test", got.Name)

	_, err = repo.APIKeys().GetByHash(ctx, "unknown")
	assert.Error(t, err)
}

func TestAPIKeys_InactiveKeyNotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	key := &model.APIKey{
		ID:        uuid.New().String(),
		Name:      "revoked",
		KeyHash:   "cafef00d",
		IsActive:  false,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.APIKeys().Create(ctx, key))

	_, err := repo.APIKeys().GetByHash(ctx, "cafef00d")
	assert.Error(t, err)
}

func TestAPIKeys_UpdateUsage(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	key := &model.APIKey{
		ID:        uuid.New().String(),
		Name:      "used",
		KeyHash:   "abc123",
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.APIKeys().Create(ctx, key))
	require.NoError(t, repo.APIKeys().UpdateUsage(ctx, key.ID))

	got, err := repo.APIKeys().GetByHash(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, got.LastUsedAt.Valid)
}

func TestRuns_AggregateByRawID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Runs().InsertBatch(ctx, []*model.RunResult{
		newRun("openai:gpt-4o-mini", 0.8, now),
		newRun("openai:gpt-4o-mini", 0.6, now),
		newRun("xai:grok-3-mini[temp:0.7]", 0.9, now),
		newRun("xai:grok-3-mini[temp:0.7]", 0.5, now.Add(-48*time.Hour)),
	}))

	aggs, err := repo.Runs().AggregateByRawID(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, aggs, 2)

	byID := make(map[string]model.RawModelAggregate)
	for _, a := range aggs {
		byID[a.ModelID] = a
	}

	gpt := byID["openai:gpt-4o-mini"]
	assert.Equal(t, 2, gpt.RunCount)
	assert.InDelta(t, 0.7, gpt.AvgScore, 1e-9)
	assert.InDelta(t, 0.8, gpt.BestScore, 1e-9)

	// since filter drops the older grok run
	aggs, err = repo.Runs().AggregateByRawID(ctx, now.Add(-time.Hour))
	require.NoError(t, err)
	byID = make(map[string]model.RawModelAggregate)
	for _, a := range aggs {
		byID[a.ModelID] = a
	}
	assert.Equal(t, 1, byID["xai:grok-3-mini[temp:0.7]"].RunCount)
}

func TestRuns_GetRecent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Runs().Insert(ctx, newRun("openai:gpt-4o-mini", 0.5, time.Now())))
	}

	runs, err := repo.Runs().GetRecent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	sentinel := errors.New("abort")
	err := repo.WithTx(ctx, func(txRepo store.Repository) error {
		if err := txRepo.Runs().Insert(ctx, newRun("openai:gpt-4o-mini", 0.5, time.Now())); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	aggs, err := repo.Runs().AggregateByRawID(ctx, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, aggs)
}

func TestWithTx_Commits(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.WithTx(ctx, func(txRepo store.Repository) error {
		return txRepo.Runs().InsertBatch(ctx, []*model.RunResult{
			newRun("openai:gpt-4o-mini", 0.5, time.Now()),
			newRun("openai:gpt-4o", 0.6, time.Now()),
		})
	})
	require.NoError(t, err)

	aggs, err := repo.Runs().AggregateByRawID(ctx, time.Time{})
	require.NoError(t, err)
	assert.Len(t, aggs, 2)
}
