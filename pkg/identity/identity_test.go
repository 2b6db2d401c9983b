package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weval-org/model-identity-api/pkg/identity"
)

func TestParseForAPI_PreservesRoutingProvider(t *testing.T) {
	cases := []struct {
		in   string
		base string
	}{
		{"openrouter:x-ai/grok-3-mini-beta[temp:0.7][sp_idx:1]", "openrouter:x-ai/grok-3-mini-beta"},
		{"openrouter:google/gemini-pro", "openrouter:google/gemini-pro"},
		{"together:meta-llama/llama-3-70b[temp:1]", "together:meta-llama/llama-3-70b"},
		{"anthropic:claude-3-haiku-20240307", "anthropic:claude-3-haiku-20240307"},
	}

	for _, tc := range cases {
		parsed := identity.ParseForAPI(tc.in)
		assert.Equal(t, tc.base, parsed.BaseID, "input %s", tc.in)
		assert.Equal(t, tc.in, parsed.FullID)
	}
}

func TestParseForDisplay_Idempotent(t *testing.T) {
	inputs := []string{
		"openrouter:x-ai/grok-3-mini-beta[temp:0.7][sp_idx:1]",
		"openrouter:google/gemini-2.5-flash-preview-05-20",
		"anthropic:claude-3-5-sonnet-20240620",
		"xai:grok-3-mini",
		"grok-3-mini-beta",
		"some-unrecognized-model",
		"unknown-provider:model",
	}

	for _, in := range inputs {
		once := identity.ParseForDisplay(in).BaseID
		twice := identity.ParseForDisplay(once).BaseID
		assert.Equal(t, once, twice, "input %s", in)
	}
}

func TestSuffixExtraction_Temperature(t *testing.T) {
	parsed := identity.ParseForAPI("openai:gpt-4o[temp:0.7]")
	require.NotNil(t, parsed.Temperature)
	assert.Equal(t, 0.7, *parsed.Temperature)

	// temp:0 is parsed but must not surface as a badge.
	parsed = identity.ParseForAPI("openai:gpt-4o[temp:0]")
	require.NotNil(t, parsed.Temperature)
	assert.Equal(t, 0.0, *parsed.Temperature)
	assert.Equal(t, "openai:gpt-4o", identity.DisplayLabel("openai:gpt-4o[temp:0]", identity.LabelOptions{}))
}

func TestSuffixExtraction_OrderIndependent(t *testing.T) {
	a := identity.ParseForAPI("m[temp:0.5][sp_idx:1]")
	b := identity.ParseForAPI("m[sp_idx:1][temp:0.5]")

	require.NotNil(t, a.Temperature)
	require.NotNil(t, b.Temperature)
	assert.Equal(t, *a.Temperature, *b.Temperature)

	require.NotNil(t, a.SystemPromptIndex)
	require.NotNil(t, b.SystemPromptIndex)
	assert.Equal(t, *a.SystemPromptIndex, *b.SystemPromptIndex)

	assert.Equal(t, "m", a.BaseID)
	assert.Equal(t, "m", b.BaseID)
}

func TestSuffixExtraction_SystemPromptHash(t *testing.T) {
	parsed := identity.ParseForAPI("openai:gpt-4o[sys:a1b2c3][temp:0.7]")
	assert.Equal(t, "a1b2c3", parsed.SystemPromptHash)
	require.NotNil(t, parsed.Temperature)
	assert.Equal(t, "openai:gpt-4o", parsed.BaseID)
}

func TestSuffixExtraction_EmbeddedSuffixStaysPut(t *testing.T) {
	// A group separated from the tail by other text is not recognized.
	parsed := identity.ParseForAPI("m[temp:0.7]-v2[sys:abcd]")
	assert.Equal(t, "m[temp:0.7]-v2", parsed.BaseID)
	assert.Nil(t, parsed.Temperature)
	assert.Equal(t, "abcd", parsed.SystemPromptHash)
}

func TestParseForDisplay_Consolidation(t *testing.T) {
	a := identity.ParseForDisplay("openrouter:x-ai/grok-3-mini-beta").BaseID
	b := identity.ParseForDisplay("xai:grok-3-mini-beta").BaseID
	c := identity.ParseForDisplay("grok-3-mini-beta").BaseID

	assert.Equal(t, "xai:grok-3-mini", a)
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestParseForDisplay_RoutingCollapse(t *testing.T) {
	parsed := identity.ParseForDisplay("openrouter:google/gemini-pro")
	assert.Equal(t, "google:gemini-pro", parsed.BaseID)
	assert.Equal(t, "GOOGLE", parsed.Maker)

	// Direct providers pass through modulo alias normalization.
	parsed = identity.ParseForDisplay("anthropic:claude-3-opus-20240229")
	assert.Equal(t, "anthropic:claude-3-opus", parsed.BaseID)
	assert.Equal(t, "ANTHROPIC", parsed.Maker)
}

func TestParseForDisplay_PassthroughUnknown(t *testing.T) {
	parsed := identity.ParseForDisplay("some-unrecognized-model")
	assert.Equal(t, "some-unrecognized-model", parsed.BaseID)
	assert.Equal(t, identity.UnknownMaker, parsed.Maker)
}

func TestExtractMaker(t *testing.T) {
	cases := []struct {
		in    string
		maker string
	}{
		{"unknown-provider:model", identity.UnknownMaker},
		{"openrouter:x-ai/grok-3-mini-beta", "XAI"},
		{"openrouter:meta-llama/llama-3-70b", "META"},
		{"together:mistralai/mixtral-8x7b", "MISTRAL"},
		{"openai:gpt-4o", "OPENAI"},
		{"openrouter:somelab/some-model", "SOMELAB"},
		{"fireworks:nousresearch/hermes-3", "NOUS"},
		{"gpt-4o", "OPENAI"},
		{"totally-odd-name", identity.UnknownMaker},
		{"openai:gpt-4o[temp:0.5]", "OPENAI"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.maker, identity.ExtractMaker(tc.in), "input %s", tc.in)
	}
}

func TestMakerAgreesAcrossParseModes(t *testing.T) {
	ids := []string{
		"openrouter:somelab/some-model",
		"openrouter:x-ai/grok-3-mini-beta",
		"together:meta-llama/llama-3-70b",
		"fireworks:nousresearch/hermes-3",
		"openai:gpt-4o[temp:0.5]",
		"grok-3-mini-beta",
		"unknown-provider:model",
	}

	for _, id := range ids {
		apiMaker := identity.ParseForAPI(id).Maker
		assert.Equal(t, apiMaker, identity.ParseForDisplay(id).Maker, "input %s", id)
		assert.Equal(t, apiMaker, identity.ExtractMaker(id), "input %s", id)
	}

	// The routing collapse discards the hint from BaseID; the maker must
	// survive it so unlisted labs stay filterable.
	assert.Equal(t, "SOMELAB", identity.ParseForDisplay("openrouter:somelab/some-model").Maker)
}

func TestParse_MalformedInputPassesThrough(t *testing.T) {
	for _, in := range []string{"", ":", "a:", ":b", "[temp:]", "model[temp:abc]", "model[sys:zz]"} {
		parsed := identity.ParseForAPI(in)
		assert.Equal(t, in, parsed.FullID)
		// No panic and no suffix extraction from malformed groups.
		assert.Nil(t, parsed.Temperature)
	}
}
