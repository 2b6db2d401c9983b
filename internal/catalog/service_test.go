package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/weval-org/model-identity-api/internal/ingest"
	"github.com/weval-org/model-identity-api/internal/store"
	"github.com/weval-org/model-identity-api/internal/store/cache"
	"github.com/weval-org/model-identity-api/internal/store/model"
	"github.com/weval-org/model-identity-api/pkg/api"
)

type fakeRunRepo struct {
	aggs     []model.RawModelAggregate
	recent   []model.RunResult
	err      error
	inserted []*model.RunResult
}

func (f *fakeRunRepo) Insert(_ context.Context, run *model.RunResult) error {
	f.inserted = append(f.inserted, run)
	return nil
}

func (f *fakeRunRepo) InsertBatch(_ context.Context, runs []*model.RunResult) error {
	f.inserted = append(f.inserted, runs...)
	return nil
}

func (f *fakeRunRepo) AggregateByRawID(_ context.Context, _ time.Time) ([]model.RawModelAggregate, error) {
	return f.aggs, f.err
}

func (f *fakeRunRepo) GetRecent(_ context.Context, limit int) ([]model.RunResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > len(f.recent) {
		limit = len(f.recent)
	}
	return f.recent[:limit], nil
}

type fakeRepo struct {
	runs fakeRunRepo
}

func (f *fakeRepo) APIKeys() store.APIKeyRepository { return nil }
func (f *fakeRepo) Runs() store.RunRepository       { return &f.runs }
func (f *fakeRepo) Close() error                    { return nil }

func (f *fakeRepo) WithTx(_ context.Context, fn func(repo store.Repository) error) error {
	return fn(f)
}

type fakeIngestor struct {
	submitted []*model.RunResult
}

func (f *fakeIngestor) Submit(run *model.RunResult) { f.submitted = append(f.submitted, run) }
func (f *fakeIngestor) Start(_ context.Context)     {}
func (f *fakeIngestor) Stop()                       {}

var _ ingest.Ingestor = (*fakeIngestor)(nil)

func newTestService(repo *fakeRepo, ing ingest.Ingestor) Service {
	if ing == nil {
		ing = &fakeIngestor{}
	}
	return NewService(zap.NewNop(), repo, cache.NewMemoryCache(), ing, nil)
}

func TestParseIdentifiers_DisplayMode(t *testing.T) {
	svc := newTestService(&fakeRepo{}, nil)

	resp := svc.ParseIdentifiers([]string{"openrouter:x-ai/grok-3-mini-beta[temp:0.7]"}, "", api.LabelOptions{})

	require.Len(t, resp.Identifiers, 1)
	assert.Equal(t, "display", resp.Mode)
	assert.NotEmpty(t, resp.RulesVersion)

	parsed := resp.Identifiers[0]
	assert.Equal(t, "xai:grok-3-mini", parsed.BaseID)
	assert.Equal(t, "XAI", parsed.Maker)
	require.NotNil(t, parsed.Temperature)
	assert.Equal(t, 0.7, *parsed.Temperature)
	assert.Equal(t, "xai:grok-3-mini (T:0.7)", parsed.Label)
}

func TestParseIdentifiers_APIMode(t *testing.T) {
	svc := newTestService(&fakeRepo{}, nil)

	resp := svc.ParseIdentifiers([]string{"openrouter:x-ai/grok-3-mini-beta"}, "api", api.LabelOptions{})

	require.Len(t, resp.Identifiers, 1)
	assert.Equal(t, "openrouter:x-ai/grok-3-mini-beta", resp.Identifiers[0].BaseID)
}

func TestSubmitRuns_QueuesEverything(t *testing.T) {
	ing := &fakeIngestor{}
	svc := newTestService(&fakeRepo{}, ing)

	accepted := svc.SubmitRuns(context.Background(), []api.RunSubmission{
		{ModelID: "openai:gpt-4o-mini", EvalID: "eval-1", Score: 0.9},
		{ModelID: "anthropic:claude-3-5-sonnet-20241022", EvalID: "eval-1", Score: 0.8},
	})

	assert.Equal(t, 2, accepted)
	require.Len(t, ing.submitted, 2)
	assert.NotEmpty(t, ing.submitted[0].ID)
	assert.False(t, ing.submitted[0].CompletedAt.IsZero())
}

func TestSubmitRuns_LogsSubmitterAttribution(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(zap.New(core), &fakeRepo{}, cache.NewMemoryCache(), &fakeIngestor{}, nil)

	ctx := context.WithValue(context.Background(), store.ContextKeyAppName, "weval-dashboard")
	ctx = context.WithValue(ctx, store.ContextKeyIdentity, api.Anonymous)

	svc.SubmitRuns(ctx, []api.RunSubmission{
		{ModelID: "openai:gpt-4o-mini", EvalID: "eval-1", Score: 0.9},
	})

	entries := logs.FilterMessage("Accepted run batch").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(1), fields["count"])
	assert.Equal(t, "anonymous", fields["identity"])
	assert.Equal(t, "app:weval-dashboard", fields["source"])
}

func TestSubmitRuns_AttributionPrefersAPIKey(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	svc := NewService(zap.New(core), &fakeRepo{}, cache.NewMemoryCache(), &fakeIngestor{}, nil)

	ctx := context.WithValue(context.Background(), store.ContextKeyAPIKey, &model.APIKey{ID: "key-1", Name: "ci"})
	ctx = context.WithValue(ctx, store.ContextKeyAppName, "weval-dashboard")
	ctx = context.WithValue(ctx, store.ContextKeyIdentity, api.System)

	svc.SubmitRuns(ctx, []api.RunSubmission{
		{ModelID: "openai:gpt-4o-mini", EvalID: "eval-1", Score: 0.9},
	})

	entries := logs.FilterMessage("Accepted run batch").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "system", fields["identity"])
	assert.Equal(t, "key:ci", fields["source"])
}

func TestRecentRuns_ResolvesCanonicalIdentity(t *testing.T) {
	repo := &fakeRepo{runs: fakeRunRepo{recent: []model.RunResult{
		{ID: "run-1", ModelID: "openrouter:x-ai/grok-3-mini-beta[temp:0.7]", EvalID: "eval-1", Score: 0.9},
		{ID: "run-2", ModelID: "openai:gpt-4o-mini", EvalID: "eval-1", Score: 0.8},
	}}}
	svc := newTestService(repo, nil)

	records, err := svc.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "openrouter:x-ai/grok-3-mini-beta[temp:0.7]", records[0].ModelID)
	assert.Equal(t, "xai:grok-3-mini", records[0].BaseID)
	assert.Equal(t, "xai:grok-3-mini (T:0.7)", records[0].Label)
}

func TestRecentRuns_ClampsLimit(t *testing.T) {
	recent := make([]model.RunResult, 600)
	for i := range recent {
		recent[i] = model.RunResult{ID: uuid.New().String(), ModelID: "openai:gpt-4o-mini"}
	}
	repo := &fakeRepo{runs: fakeRunRepo{recent: recent}}
	svc := newTestService(repo, nil)

	records, err := svc.RecentRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, records, 50)

	records, err = svc.RecentRuns(context.Background(), 10000)
	require.NoError(t, err)
	assert.Len(t, records, 500)
}

func TestListModels_GroupsVariants(t *testing.T) {
	repo := &fakeRepo{runs: fakeRunRepo{aggs: []model.RawModelAggregate{
		{ModelID: "openrouter:x-ai/grok-3-mini-beta", RunCount: 4, AvgScore: 0.5, BestScore: 0.7},
		{ModelID: "xai:grok-3-mini[temp:0.7]", RunCount: 6, AvgScore: 0.6, BestScore: 0.9},
		{ModelID: "openai:gpt-4o-mini", RunCount: 3, AvgScore: 0.8, BestScore: 0.95},
	}}}
	svc := newTestService(repo, nil)

	summaries, err := svc.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// sorted by run count desc
	grok := summaries[0]
	assert.Equal(t, "xai:grok-3-mini", grok.BaseID)
	assert.Equal(t, "XAI", grok.Maker)
	assert.Equal(t, 10, grok.RunCount)
	assert.Equal(t, []string{"openrouter:x-ai/grok-3-mini-beta", "xai:grok-3-mini[temp:0.7]"}, grok.Variants)

	assert.Equal(t, "openai:gpt-4o-mini", summaries[1].BaseID)
}

func TestListModels_ExcludesIdealSentinel(t *testing.T) {
	repo := &fakeRepo{runs: fakeRunRepo{aggs: []model.RawModelAggregate{
		{ModelID: "IDEAL_MODEL_ID", RunCount: 10, AvgScore: 1, BestScore: 1},
		{ModelID: "IDEAL_BENCHMARK", RunCount: 10, AvgScore: 1, BestScore: 1},
		{ModelID: "openai:gpt-4o-mini", RunCount: 1, AvgScore: 0.5, BestScore: 0.5},
	}}}
	svc := newTestService(repo, nil)

	summaries, err := svc.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "openai:gpt-4o-mini", summaries[0].BaseID)
}

func TestListModels_PropagatesStoreError(t *testing.T) {
	repo := &fakeRepo{runs: fakeRunRepo{err: errors.New("disk gone")}}
	svc := newTestService(repo, nil)

	_, err := svc.ListModels(context.Background())
	assert.Error(t, err)
}

func TestLeaderboard_WeightedAverageAndSort(t *testing.T) {
	repo := &fakeRepo{runs: fakeRunRepo{aggs: []model.RawModelAggregate{
		{ModelID: "xai:grok-3-mini", RunCount: 1, AvgScore: 0.2, BestScore: 0.2},
		{ModelID: "xai:grok-3-mini[temp:0.7]", RunCount: 3, AvgScore: 0.6, BestScore: 0.9},
		{ModelID: "openai:gpt-4o-mini", RunCount: 2, AvgScore: 0.9, BestScore: 0.95},
	}}}
	svc := newTestService(repo, nil)

	resp, err := svc.Leaderboard(context.Background(), api.LeaderboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.Days)
	require.Len(t, resp.Entries, 2)

	assert.Equal(t, "openai:gpt-4o-mini", resp.Entries[0].BaseID)
	assert.InDelta(t, 0.9, resp.Entries[0].AvgScore, 1e-9)

	grok := resp.Entries[1]
	assert.Equal(t, "xai:grok-3-mini", grok.BaseID)
	assert.Equal(t, 4, grok.RunCount)
	assert.InDelta(t, 0.5, grok.AvgScore, 1e-9) // (0.2*1 + 0.6*3) / 4
	assert.InDelta(t, 0.9, grok.BestScore, 1e-9)
}

func TestLeaderboard_MakerFilterAndLimit(t *testing.T) {
	repo := &fakeRepo{runs: fakeRunRepo{aggs: []model.RawModelAggregate{
		{ModelID: "openai:gpt-4o-mini", RunCount: 2, AvgScore: 0.9, BestScore: 0.95},
		{ModelID: "openai:gpt-4o", RunCount: 2, AvgScore: 0.8, BestScore: 0.85},
		{ModelID: "anthropic:claude-3-5-haiku-20241022", RunCount: 2, AvgScore: 0.7, BestScore: 0.75},
	}}}
	svc := newTestService(repo, nil)

	resp, err := svc.Leaderboard(context.Background(), api.LeaderboardFilter{Maker: "openai", Limit: 1})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "openai:gpt-4o-mini", resp.Entries[0].BaseID)
	assert.Equal(t, "OPENAI", resp.Entries[0].Maker)
}

func TestLeaderboard_ServesFromCache(t *testing.T) {
	repo := &fakeRepo{runs: fakeRunRepo{aggs: []model.RawModelAggregate{
		{ModelID: "openai:gpt-4o-mini", RunCount: 2, AvgScore: 0.9, BestScore: 0.95},
	}}}
	svc := newTestService(repo, nil)

	first, err := svc.Leaderboard(context.Background(), api.LeaderboardFilter{})
	require.NoError(t, err)
	require.Len(t, first.Entries, 1)

	// subsequent store failures are invisible while the cache entry lives
	repo.runs.err = errors.New("disk gone")

	second, err := svc.Leaderboard(context.Background(), api.LeaderboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, first.Entries, second.Entries)
}
