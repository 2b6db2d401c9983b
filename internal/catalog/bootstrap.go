package catalog

import (
	"fmt"

	"github.com/weval-org/model-identity-api/internal/cli"
	"github.com/weval-org/model-identity-api/internal/config"
	"github.com/weval-org/model-identity-api/pkg/identity"
	"go.uber.org/zap"
)

// LoadParser builds the identity parser, merging an optional rule file over
// the built-in tables. Rule-file failures fall back to the built-ins so a
// bad deploy never takes identity resolution down.
func LoadParser(cfg config.RulesConfig, log *zap.Logger) *identity.Parser {
	if cfg.Path == "" {
		log.Info(fmt.Sprintf("%s Using built-in identity rules %s",
			cli.CheckMark(),
			cli.Style(identity.Default().Rules().Version, cli.Cyan),
		))
		return identity.Default()
	}

	rules, err := identity.LoadRules(cfg.Path)
	if err != nil {
		log.Warn(fmt.Sprintf("%s Failed to load rule file, using built-ins", cli.WarningSign()),
			zap.String("path", cfg.Path),
			zap.Error(err),
		)
		return identity.Default()
	}

	log.Info(fmt.Sprintf("%s Loaded identity rules %s from %s",
		cli.CheckMark(),
		cli.Style(rules.Version, cli.Cyan),
		cfg.Path,
	))
	return identity.NewParser(rules)
}
