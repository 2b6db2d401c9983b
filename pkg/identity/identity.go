// Package identity turns raw evaluation model identifiers (e.g.
// "openrouter:x-ai/grok-3-mini-beta[temp:0.7][sp_idx:1]") into structured
// values for routing, grouping and display.
//
// Two parse modes exist and must not be conflated: API mode preserves the
// routing provider verbatim so outbound calls hit the right endpoint, while
// display mode collapses routing providers and canonicalizes model names so
// dated snapshots of the same model group into one leaderboard row.
//
// Every function in this package is total. Malformed input degrades to a
// near-identity passthrough rather than an error.
package identity

// Sentinel identifiers for the "ideal" benchmark column. The legacy form is
// still present in older run records and must render identically.
const (
	IdealModelID  = "IDEAL_MODEL_ID"
	LegacyIdealID = "IDEAL_BENCHMARK"

	// IdealLabel is the fixed display label for either sentinel.
	IdealLabel = "Ideal"

	// UnknownMaker is returned when neither a maker hint nor a direct maker
	// provider is present.
	UnknownMaker = "UNKNOWN"
)

// ParsedModelID is an immutable view over a raw identifier. It is recomputed
// on demand and never persisted.
type ParsedModelID struct {
	// FullID is the original input, preserved verbatim for round-tripping.
	FullID string `json:"full_id"`

	// BaseID is the identifier with recognized suffixes removed. In display
	// mode it is additionally provider/maker-normalized and canonicalized.
	BaseID string `json:"base_id"`

	// Maker is the canonical uppercase tag of the producing organization,
	// or UnknownMaker.
	Maker string `json:"maker"`

	// Temperature is nil when no [temp:...] suffix was present.
	Temperature *float64 `json:"temperature,omitempty"`

	// SystemPromptIndex is nil when no [sp_idx:...] suffix was present.
	SystemPromptIndex *int `json:"system_prompt_index,omitempty"`

	// SystemPromptHash is the hex payload of a [sys:...] suffix, or empty.
	SystemPromptHash string `json:"system_prompt_hash,omitempty"`
}

// IsIdeal reports whether the identifier is the ideal-benchmark sentinel.
func (p ParsedModelID) IsIdeal() bool {
	return isIdeal(p.FullID)
}

func isIdeal(id string) bool {
	return id == IdealModelID || id == LegacyIdealID
}

// ParseForAPI parses an identifier for outbound request construction. The
// routing provider substring is kept verbatim in BaseID; only bracketed
// suffixes are removed.
func ParseForAPI(id string) ParsedModelID {
	return Default().ParseForAPI(id)
}

// ParseForDisplay parses an identifier for grouping and rendering. Routing
// providers collapse onto the maker, aliases normalize, and the model name
// is canonicalized. BaseID is idempotent under this function.
func ParseForDisplay(id string) ParsedModelID {
	return Default().ParseForDisplay(id)
}

// ExtractMaker returns the canonical maker tag for an identifier.
func ExtractMaker(id string) string {
	return Default().ExtractMaker(id)
}

// Parser applies a RuleSet to raw identifiers. The zero value is not usable;
// construct with NewParser or use Default.
type Parser struct {
	rules *RuleSet
}

// NewParser builds a Parser over the given rule set. A nil rule set falls
// back to the built-in tables.
func NewParser(rules *RuleSet) *Parser {
	if rules == nil {
		rules = BuiltinRules()
	}
	return &Parser{rules: rules}
}

// Rules exposes the parser's rule set, mainly for auditing endpoints.
func (p *Parser) Rules() *RuleSet {
	return p.rules
}

// ParseForAPI parses preserving the routing provider verbatim.
func (p *Parser) ParseForAPI(id string) ParsedModelID {
	base, sfx := extractSuffixes(id)
	return ParsedModelID{
		FullID:            id,
		BaseID:            base,
		Maker:             p.makerOf(base),
		Temperature:       sfx.temperature,
		SystemPromptIndex: sfx.systemPromptIndex,
		SystemPromptHash:  sfx.systemPromptHash,
	}
}

// ParseForDisplay parses with provider collapsing and name canonicalization.
// Maker resolves from the pre-normalization base so the two modes agree: the
// routing collapse may discard a maker hint (an unlisted lab folds into an
// unknown provider slug) that the raw identifier still carries.
func (p *Parser) ParseForDisplay(id string) ParsedModelID {
	base, sfx := extractSuffixes(id)
	normalized := p.normalizeForDisplay(base)
	return ParsedModelID{
		FullID:            id,
		BaseID:            normalized,
		Maker:             p.makerOf(base),
		Temperature:       sfx.temperature,
		SystemPromptIndex: sfx.systemPromptIndex,
		SystemPromptHash:  sfx.systemPromptHash,
	}
}

// ExtractMaker returns the canonical maker tag for an identifier, stripping
// suffixes first so "openai:gpt-4o[temp:1]" and "openai:gpt-4o" agree.
func (p *Parser) ExtractMaker(id string) string {
	base, _ := extractSuffixes(id)
	return p.makerOf(base)
}

var defaultParser = NewParser(nil)

// Default returns the parser backed by the built-in rule tables.
func Default() *Parser {
	return defaultParser
}
