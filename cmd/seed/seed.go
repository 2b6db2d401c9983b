package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/weval-org/model-identity-api/internal/cli"
	"github.com/weval-org/model-identity-api/internal/store/model"
	"github.com/weval-org/model-identity-api/internal/store/sqlite"
	"github.com/weval-org/model-identity-api/pkg/identity"
)

// seedModels are realistic identifiers covering routing prefixes, bare
// names, and sampling suffixes.
var seedModels = []string{
	"openai:gpt-4o-mini",
	"openai:gpt-4o-2024-08-06[temp:0.7]",
	"anthropic:claude-3-5-sonnet-20241022",
	"anthropic:claude-3-5-sonnet-20241022[temp:0][sp_idx:1]",
	"openrouter:x-ai/grok-3-mini-beta",
	"grok-3-mini-beta[temp:0.5]",
	"together:meta-llama/Llama-3.1-70B-Instruct",
	"google:gemini-1.5-pro-latest",
	"mistralai/Mistral-7B-Instruct-v0.3",
	"deepseek-chat[sys:a1b2c3]",
}

func main() {
	repo, err := sqlite.NewSQLiteStorage("identity.db", zap.NewNop())
	if err != nil {
		log.Fatal(err)
	}
	defer repo.Close()

	ctx := context.Background()

	rawKey := "mi-test-1234567890"
	hash := sha256.Sum256([]byte(rawKey))

	key := &model.APIKey{
		ID:        uuid.New().String(),
		Name:      "Test Key",
		KeyHash:   hex.EncodeToString(hash[:]),
		KeyPrefix: "mi-test-",
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := repo.APIKeys().Create(ctx, key); err != nil {
		log.Printf("Key might already exist: %v", err)
	} else {
		fmt.Printf("Created API Key: %s\n", key.ID)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var runs []*model.RunResult
	for _, id := range seedModels {
		for i := 0; i < 5; i++ {
			runs = append(runs, &model.RunResult{
				ID:          uuid.New().String(),
				ModelID:     id,
				EvalID:      fmt.Sprintf("eval-%d", i),
				Score:       0.4 + rng.Float64()*0.6,
				LatencyMS:   int64(200 + rng.Intn(1800)),
				CompletedAt: time.Now().Add(-time.Duration(rng.Intn(72)) * time.Hour),
				CreatedAt:   time.Now(),
			})
		}
	}

	if err := repo.Runs().InsertBatch(ctx, runs); err != nil {
		log.Fatal(err)
	}

	parser := identity.Default()
	fmt.Println("\nSeeded identities resolve to:")
	for _, id := range seedModels {
		fmt.Println(cli.PrettyFormat(parser.ParseForDisplay(id)))
	}

	fmt.Printf("\nSuccessfully seeded database!\n")
	fmt.Printf("Inserted %d run results across %d model identifiers\n", len(runs), len(seedModels))
	fmt.Printf("API Key: %s\n", rawKey)
	fmt.Printf("Use this key in your Authorization header: Bearer %s\n", rawKey)
}
