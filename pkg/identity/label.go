package identity

import (
	"strconv"
	"strings"
)

// LabelOptions controls which segments a display label keeps. Zero value
// shows everything.
type LabelOptions struct {
	HideProvider     bool `json:"hide_provider"`
	HideModelMaker   bool `json:"hide_model_maker"`
	HideTemperature  bool `json:"hide_temperature"`
	HideSystemPrompt bool `json:"hide_system_prompt"`
}

// DisplayLabel renders a raw identifier into a compact single-line label
// for table headers, e.g. "xai:grok-3-mini (sys:a1b2, T:0.7)".
func DisplayLabel(id string, opts LabelOptions) string {
	return Default().DisplayLabel(id, opts)
}

// DisplayLabel renders a parsed display identity per the options. The ideal
// sentinel always yields the fixed label regardless of flags.
func (p *Parser) DisplayLabel(id string, opts LabelOptions) string {
	if isIdeal(id) {
		return IdealLabel
	}
	return p.Label(p.ParseForDisplay(id), opts)
}

// Label formats an already-parsed identity. Callers that parse once and
// render many label variants should prefer this over DisplayLabel.
func (p *Parser) Label(parsed ParsedModelID, opts LabelOptions) string {
	if parsed.IsIdeal() {
		return IdealLabel
	}

	base := parsed.BaseID
	if opts.HideProvider {
		if _, rest, ok := strings.Cut(base, ":"); ok {
			base = rest
		}
	}
	if opts.HideModelMaker {
		if _, rest, ok := strings.Cut(base, "/"); ok {
			base = rest
		}
	}

	var parts []string
	if !opts.HideSystemPrompt {
		if parsed.SystemPromptHash != "" {
			parts = append(parts, "sys:"+parsed.SystemPromptHash)
		} else if parsed.SystemPromptIndex != nil {
			parts = append(parts, "sp_idx:"+strconv.Itoa(*parsed.SystemPromptIndex))
		}
	}
	if !opts.HideTemperature && parsed.Temperature != nil && *parsed.Temperature != 0 {
		parts = append(parts, "T:"+formatTemperature(*parsed.Temperature))
	}

	if len(parts) == 0 {
		return base
	}
	return base + " (" + strings.Join(parts, ", ") + ")"
}

func formatTemperature(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64)
}
