package ingest

import (
	"context"
	"time"

	"github.com/weval-org/model-identity-api/internal/store"
	"github.com/weval-org/model-identity-api/internal/store/model"
	"go.uber.org/zap"
)

// Ingestor handles asynchronous persistence of evaluation run results.
type Ingestor interface {
	Submit(run *model.RunResult)
	Start(ctx context.Context)
	Stop()
}

type ingestor struct {
	logger    *zap.Logger
	repo      store.Repository
	runChan   chan *model.RunResult
	batchSize int
	flushTime time.Duration
}

func NewIngestor(logger *zap.Logger, repo store.Repository) Ingestor {
	return &ingestor{
		logger:    logger,
		repo:      repo,
		runChan:   make(chan *model.RunResult, 10000),
		batchSize: 50,
		flushTime: 5 * time.Second,
	}
}

func (i *ingestor) Submit(run *model.RunResult) {
	select {
	case i.runChan <- run:
	default:
		i.logger.Warn("Ingest buffer full, dropping run", zap.String("run_id", run.ID))
	}
}

func (i *ingestor) Start(ctx context.Context) {
	go i.worker(ctx)
}

func (i *ingestor) Stop() {
	close(i.runChan)
}

func (i *ingestor) worker(ctx context.Context) {
	batch := make([]*model.RunResult, 0, i.batchSize)
	ticker := time.NewTicker(i.flushTime)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		err := i.repo.WithTx(context.Background(), func(repo store.Repository) error {
			return repo.Runs().InsertBatch(context.Background(), batch)
		})
		if err != nil {
			i.logger.Error("Failed to persist run batch", zap.Int("size", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case run, ok := <-i.runChan:
			if !ok {
				flush()
				return
			}
			batch = append(batch, run)
			if len(batch) >= i.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			flush()
			return
		}
	}
}
