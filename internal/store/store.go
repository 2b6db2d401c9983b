package store

import (
	"context"
	"time"

	"github.com/weval-org/model-identity-api/internal/store/model"
)

type contextKey string

const (
	// ContextKeyAPIKey carries the authenticated *model.APIKey.
	ContextKeyAPIKey contextKey = "api_key"
	// ContextKeyAppName carries the X-App-Name header value.
	ContextKeyAppName contextKey = "app_name"
	// ContextKeyIdentity carries the api.IdentityClass resolved during auth.
	ContextKeyIdentity contextKey = "identity_class"
)

// Repository is the aggregate root for persistence.
type Repository interface {
	APIKeys() APIKeyRepository
	Runs() RunRepository

	// WithTx runs fn inside a transaction; the passed repository executes
	// against that transaction.
	WithTx(ctx context.Context, fn func(repo Repository) error) error
	Close() error
}

type APIKeyRepository interface {
	GetByHash(ctx context.Context, hash string) (*model.APIKey, error)
	Create(ctx context.Context, key *model.APIKey) error
	UpdateUsage(ctx context.Context, id string) error
}

type RunRepository interface {
	Insert(ctx context.Context, run *model.RunResult) error
	InsertBatch(ctx context.Context, runs []*model.RunResult) error

	// AggregateByRawID groups run results by the verbatim model ID. Canonical
	// regrouping happens in the service layer, where the rule tables live.
	AggregateByRawID(ctx context.Context, since time.Time) ([]model.RawModelAggregate, error)

	GetRecent(ctx context.Context, limit int) ([]model.RunResult, error)
}
