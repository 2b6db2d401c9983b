package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/weval-org/model-identity-api/internal/ingest"
	"github.com/weval-org/model-identity-api/internal/store"
	"github.com/weval-org/model-identity-api/internal/store/cache"
	"github.com/weval-org/model-identity-api/internal/store/model"
	"github.com/weval-org/model-identity-api/pkg/api"
	"github.com/weval-org/model-identity-api/pkg/identity"
	"go.uber.org/zap"
)

const (
	defaultLeaderboardDays  = 30
	defaultLeaderboardLimit = 50
	leaderboardCacheTTL     = 60 * time.Second

	defaultRecentRuns = 50
	maxRecentRuns     = 500
)

// Service exposes identity parsing and the canonical model catalog built
// from ingested evaluation runs.
type Service interface {
	ParseIdentifiers(ids []string, mode string, opts api.LabelOptions) api.ParseResponse
	ListModels(ctx context.Context) ([]api.ModelSummary, error)
	Leaderboard(ctx context.Context, filter api.LeaderboardFilter) (*api.LeaderboardResponse, error)
	SubmitRuns(ctx context.Context, subs []api.RunSubmission) int
	RecentRuns(ctx context.Context, limit int) ([]api.RunRecord, error)
	RulesVersion() string
}

type service struct {
	logger   *zap.Logger
	repo     store.Repository
	cache    cache.CacheService
	ingestor ingest.Ingestor
	parser   *identity.Parser
}

func NewService(logger *zap.Logger, repo store.Repository, c cache.CacheService, ingestor ingest.Ingestor, parser *identity.Parser) Service {
	if parser == nil {
		parser = identity.Default()
	}
	return &service{
		logger:   logger,
		repo:     repo,
		cache:    c,
		ingestor: ingestor,
		parser:   parser,
	}
}

func (s *service) RulesVersion() string {
	return s.parser.Rules().Version
}

// ParseIdentifiers is pure; it never touches storage.
func (s *service) ParseIdentifiers(ids []string, mode string, opts api.LabelOptions) api.ParseResponse {
	if mode == "" {
		mode = "display"
	}

	labelOpts := identity.LabelOptions{
		HideProvider:     opts.HideProvider,
		HideModelMaker:   opts.HideModelMaker,
		HideTemperature:  opts.HideTemperature,
		HideSystemPrompt: opts.HideSystemPrompt,
	}

	out := make([]api.ParsedIdentifier, 0, len(ids))
	for _, id := range ids {
		var parsed identity.ParsedModelID
		if mode == "api" {
			parsed = s.parser.ParseForAPI(id)
		} else {
			parsed = s.parser.ParseForDisplay(id)
		}

		out = append(out, api.ParsedIdentifier{
			FullID:            parsed.FullID,
			BaseID:            parsed.BaseID,
			Maker:             parsed.Maker,
			Temperature:       parsed.Temperature,
			SystemPromptIndex: parsed.SystemPromptIndex,
			SystemPromptHash:  parsed.SystemPromptHash,
			Label:             s.parser.Label(parsed, labelOpts),
		})
	}

	return api.ParseResponse{
		Mode:         mode,
		RulesVersion: s.RulesVersion(),
		Identifiers:  out,
	}
}

// SubmitRuns queues run results for asynchronous persistence and returns
// the number accepted. The submitting identity is read off the request
// context for audit logging.
func (s *service) SubmitRuns(ctx context.Context, subs []api.RunSubmission) int {
	now := time.Now()
	for _, sub := range subs {
		completed := sub.CompletedAt
		if completed.IsZero() {
			completed = now
		}
		s.ingestor.Submit(&model.RunResult{
			ID:          uuid.New().String(),
			ModelID:     sub.ModelID,
			EvalID:      sub.EvalID,
			Score:       sub.Score,
			LatencyMS:   sub.LatencyMS,
			CompletedAt: completed,
			CreatedAt:   now,
		})
	}

	s.logger.Info("Accepted run batch",
		zap.Int("count", len(subs)),
		zap.String("identity", string(identityClass(ctx))),
		zap.String("source", requestSource(ctx)),
	)
	return len(subs)
}

// RecentRuns returns the latest ingested runs with their canonical display
// identity resolved.
func (s *service) RecentRuns(ctx context.Context, limit int) ([]api.RunRecord, error) {
	if limit <= 0 {
		limit = defaultRecentRuns
	}
	if limit > maxRecentRuns {
		limit = maxRecentRuns
	}

	runs, err := s.repo.Runs().GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}

	records := make([]api.RunRecord, 0, len(runs))
	for _, run := range runs {
		parsed := s.parser.ParseForDisplay(run.ModelID)
		records = append(records, api.RunRecord{
			ID:          run.ID,
			ModelID:     run.ModelID,
			BaseID:      parsed.BaseID,
			Label:       s.parser.Label(parsed, identity.LabelOptions{}),
			EvalID:      run.EvalID,
			Score:       run.Score,
			LatencyMS:   run.LatencyMS,
			CompletedAt: run.CompletedAt,
		})
	}
	return records, nil
}

func identityClass(ctx context.Context) api.IdentityClass {
	if class, ok := ctx.Value(store.ContextKeyIdentity).(api.IdentityClass); ok {
		return class
	}
	return api.Anonymous
}

// requestSource names the submitter: an API key takes precedence over a
// bare application header.
func requestSource(ctx context.Context) string {
	if key, ok := ctx.Value(store.ContextKeyAPIKey).(*model.APIKey); ok {
		return "key:" + key.Name
	}
	if app, ok := ctx.Value(store.ContextKeyAppName).(string); ok {
		return "app:" + app
	}
	return "unattributed"
}

// modelGroup accumulates raw aggregates under one canonical identity.
type modelGroup struct {
	maker    string
	runCount int
	scoreSum float64
	best     float64
	variants map[string]struct{}
}

// groupByCanonical folds per-verbatim-ID rollups onto display-canonical
// base IDs. Ideal-sentinel rows are reference answers, not models, and are
// excluded.
func (s *service) groupByCanonical(aggs []model.RawModelAggregate) map[string]*modelGroup {
	groups := make(map[string]*modelGroup)

	for _, agg := range aggs {
		parsed := s.parser.ParseForDisplay(agg.ModelID)
		if parsed.IsIdeal() {
			continue
		}

		g, ok := groups[parsed.BaseID]
		if !ok {
			g = &modelGroup{
				maker:    parsed.Maker,
				variants: make(map[string]struct{}),
			}
			groups[parsed.BaseID] = g
		}

		g.runCount += agg.RunCount
		g.scoreSum += agg.AvgScore * float64(agg.RunCount)
		if agg.BestScore > g.best {
			g.best = agg.BestScore
		}
		g.variants[agg.ModelID] = struct{}{}
	}

	return groups
}

func (s *service) ListModels(ctx context.Context) ([]api.ModelSummary, error) {
	aggs, err := s.repo.Runs().AggregateByRawID(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("aggregate runs: %w", err)
	}

	groups := s.groupByCanonical(aggs)

	summaries := make([]api.ModelSummary, 0, len(groups))
	for baseID, g := range groups {
		variants := make([]string, 0, len(g.variants))
		for v := range g.variants {
			variants = append(variants, v)
		}
		sort.Strings(variants)

		summaries = append(summaries, api.ModelSummary{
			BaseID:   baseID,
			Maker:    g.maker,
			Label:    s.parser.DisplayLabel(baseID, identity.LabelOptions{}),
			Variants: variants,
			RunCount: g.runCount,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].RunCount != summaries[j].RunCount {
			return summaries[i].RunCount > summaries[j].RunCount
		}
		return summaries[i].BaseID < summaries[j].BaseID
	})

	return summaries, nil
}

func (s *service) Leaderboard(ctx context.Context, filter api.LeaderboardFilter) (*api.LeaderboardResponse, error) {
	if filter.Days <= 0 {
		filter.Days = defaultLeaderboardDays
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLeaderboardLimit
	}

	key := fmt.Sprintf("leaderboard:%s:%d:%s:%d", s.RulesVersion(), filter.Days, strings.ToUpper(filter.Maker), filter.Limit)

	var cached api.LeaderboardResponse
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if err != cache.ErrMiss {
		s.logger.Warn("Leaderboard cache read failed", zap.Error(err))
	}

	since := time.Now().AddDate(0, 0, -filter.Days)
	aggs, err := s.repo.Runs().AggregateByRawID(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("aggregate runs: %w", err)
	}

	groups := s.groupByCanonical(aggs)

	entries := make([]api.LeaderboardEntry, 0, len(groups))
	for baseID, g := range groups {
		if filter.Maker != "" && !strings.EqualFold(g.maker, filter.Maker) {
			continue
		}
		entries = append(entries, api.LeaderboardEntry{
			BaseID:    baseID,
			Maker:     g.maker,
			Label:     s.parser.DisplayLabel(baseID, identity.LabelOptions{}),
			RunCount:  g.runCount,
			AvgScore:  g.scoreSum / float64(g.runCount),
			BestScore: g.best,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].AvgScore != entries[j].AvgScore {
			return entries[i].AvgScore > entries[j].AvgScore
		}
		return entries[i].BaseID < entries[j].BaseID
	})

	if len(entries) > filter.Limit {
		entries = entries[:filter.Limit]
	}

	resp := &api.LeaderboardResponse{
		Days:    filter.Days,
		Entries: entries,
	}

	if err := s.cache.Set(ctx, key, resp, leaderboardCacheTTL); err != nil {
		s.logger.Warn("Leaderboard cache write failed", zap.Error(err))
	}

	return resp, nil
}
