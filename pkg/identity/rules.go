package identity

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// RuleSet holds the normalization tables. The tables are explicit and
// versioned so the rule surface is auditable and testable in isolation
// instead of being scattered string literals.
type RuleSet struct {
	Version string `yaml:"version"`

	// MakerAliases maps a lowercase maker hint (the path segment before "/")
	// to its canonical uppercase tag.
	MakerAliases map[string]string `yaml:"maker_aliases"`

	// ProviderAliases maps a lowercase routing/maker provider slug to its
	// canonical slug.
	ProviderAliases map[string]string `yaml:"provider_aliases"`

	// RoutingProviders lists intermediary providers that front other makers'
	// models. In display mode "routing:maker/model" collapses to
	// "maker:model".
	RoutingProviders []string `yaml:"routing_providers"`

	// DirectMakers maps a direct provider slug to the maker tag it implies
	// when no maker path segment is present.
	DirectMakers map[string]string `yaml:"direct_makers"`

	// NamePrefixes infer a provider for bare model names, checked in order.
	NamePrefixes []PrefixRule `yaml:"name_prefixes"`

	// Aliases are exact model-name collapses, applied before the rewrites.
	Aliases map[string]string `yaml:"aliases"`

	// Rewrites are ordered regex rewrites applied case-insensitively to the
	// model name until a fixed point. Best effort, not a model registry.
	Rewrites []RewriteRule `yaml:"rewrites"`

	routing map[string]struct{}
}

// PrefixRule binds a model-name prefix to a provider slug.
type PrefixRule struct {
	Prefix   string `yaml:"prefix"`
	Provider string `yaml:"provider"`
}

// RewriteRule is a single canonicalization rewrite.
type RewriteRule struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`

	re *regexp.Regexp
}

// BuiltinRules returns a fresh copy of the built-in tables.
func BuiltinRules() *RuleSet {
	rs := &RuleSet{
		Version: "2025-08",
		MakerAliases: map[string]string{
			"x-ai":         "XAI",
			"xai":          "XAI",
			"meta-llama":   "META",
			"meta":         "META",
			"mistralai":    "MISTRAL",
			"mistral":      "MISTRAL",
			"moonshotai":   "MOONSHOT",
			"moonshot":     "MOONSHOT",
			"nousresearch": "NOUS",
			"z-ai":         "ZAI",
			"01-ai":        "01AI",
		},
		ProviderAliases: map[string]string{
			"x-ai":       "xai",
			"meta-llama": "meta",
			"mistralai":  "mistral",
			"moonshotai": "moonshot",
		},
		RoutingProviders: []string{"openrouter", "together", "fireworks", "replicate"},
		DirectMakers: map[string]string{
			"openai":    "OPENAI",
			"anthropic": "ANTHROPIC",
			"google":    "GOOGLE",
			"xai":       "XAI",
			"meta":      "META",
			"mistral":   "MISTRAL",
			"deepseek":  "DEEPSEEK",
			"qwen":      "QWEN",
			"moonshot":  "MOONSHOT",
			"cohere":    "COHERE",
		},
		NamePrefixes: []PrefixRule{
			{Prefix: "grok-", Provider: "xai"},
			{Prefix: "gpt-", Provider: "openai"},
			{Prefix: "chatgpt-", Provider: "openai"},
			{Prefix: "o1-", Provider: "openai"},
			{Prefix: "o3-", Provider: "openai"},
			{Prefix: "o4-", Provider: "openai"},
			{Prefix: "claude-", Provider: "anthropic"},
			{Prefix: "gemini-", Provider: "google"},
			{Prefix: "gemma-", Provider: "google"},
			{Prefix: "llama-", Provider: "meta"},
			{Prefix: "mistral-", Provider: "mistral"},
			{Prefix: "mixtral-", Provider: "mistral"},
			{Prefix: "deepseek-", Provider: "deepseek"},
			{Prefix: "qwen", Provider: "qwen"},
			{Prefix: "kimi-", Provider: "moonshot"},
			{Prefix: "command-", Provider: "cohere"},
		},
		Aliases: map[string]string{
			"chatgpt-4o-latest": "gpt-4o",
		},
		Rewrites: []RewriteRule{
			{Pattern: `-\d{8}$`, Replace: ""},
			{Pattern: `-\d{4}-\d{2}-\d{2}$`, Replace: ""},
			{Pattern: `-preview-\d{2}-\d{2}$`, Replace: ""},
			{Pattern: `-preview$`, Replace: ""},
			{Pattern: `-beta$`, Replace: ""},
			{Pattern: `-latest$`, Replace: ""},
			{Pattern: `-exp$`, Replace: ""},
		},
	}
	if err := rs.compile(); err != nil {
		// Built-in patterns are covered by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return rs
}

// LoadRules reads a YAML rule file and merges it over the built-ins. Lists
// replace the built-in lists when present; maps merge key-by-key.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var overlay RuleSet
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}

	rs := BuiltinRules()
	rs.merge(&overlay)
	if err := rs.compile(); err != nil {
		return nil, err
	}
	return rs, nil
}

func (rs *RuleSet) merge(overlay *RuleSet) {
	if overlay.Version != "" {
		rs.Version = overlay.Version
	}
	for k, v := range overlay.MakerAliases {
		rs.MakerAliases[strings.ToLower(k)] = v
	}
	for k, v := range overlay.ProviderAliases {
		rs.ProviderAliases[strings.ToLower(k)] = v
	}
	for k, v := range overlay.DirectMakers {
		rs.DirectMakers[strings.ToLower(k)] = v
	}
	for k, v := range overlay.Aliases {
		rs.Aliases[strings.ToLower(k)] = v
	}
	if len(overlay.RoutingProviders) > 0 {
		rs.RoutingProviders = overlay.RoutingProviders
	}
	if len(overlay.NamePrefixes) > 0 {
		rs.NamePrefixes = overlay.NamePrefixes
	}
	if len(overlay.Rewrites) > 0 {
		rs.Rewrites = overlay.Rewrites
	}
	rs.routing = nil
}

func (rs *RuleSet) compile() error {
	for i := range rs.Rewrites {
		pattern := rs.Rewrites[i].Pattern
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return fmt.Errorf("rewrite rule %q: %w", pattern, err)
		}
		rs.Rewrites[i].re = re
	}

	rs.routing = make(map[string]struct{}, len(rs.RoutingProviders))
	for _, p := range rs.RoutingProviders {
		rs.routing[strings.ToLower(p)] = struct{}{}
	}
	return nil
}

func (rs *RuleSet) isRouting(provider string) bool {
	_, ok := rs.routing[provider]
	return ok
}

func (rs *RuleSet) providerAlias(provider string) string {
	p := strings.ToLower(provider)
	if canonical, ok := rs.ProviderAliases[p]; ok {
		return canonical
	}
	return p
}

func (rs *RuleSet) makerForHint(hint string) string {
	if tag, ok := rs.MakerAliases[strings.ToLower(hint)]; ok {
		return tag
	}
	return strings.ToUpper(hint)
}

func (rs *RuleSet) inferProvider(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range rs.NamePrefixes {
		if strings.HasPrefix(lower, rule.Prefix) {
			return rule.Provider
		}
	}
	return ""
}
