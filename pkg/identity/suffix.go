package identity

import (
	"regexp"
	"strconv"
)

// Bracketed suffix groups recognized at the literal tail of an identifier.
// A group separated from the end by any other text stays embedded in the
// base ID. That matches how run records were historically written: the
// writer appended groups strictly in-order, so an embedded group means the
// record predates the suffix it is followed by.
var (
	tempSuffixRe  = regexp.MustCompile(`\[temp:(-?\d+(?:\.\d+)?)\]$`)
	spIdxSuffixRe = regexp.MustCompile(`\[sp_idx:(\d+)\]$`)
	sysSuffixRe   = regexp.MustCompile(`\[sys:([0-9a-fA-F]+)\]$`)
)

type suffixes struct {
	temperature       *float64
	systemPromptIndex *int
	systemPromptHash  string
}

// extractSuffixes strips recognized bracket groups greedily from the right,
// in any order, for as long as the string still ends with one. The rightmost
// occurrence of a repeated group wins.
func extractSuffixes(id string) (string, suffixes) {
	base := id
	var sfx suffixes

	for {
		if m := tempSuffixRe.FindStringSubmatch(base); m != nil {
			if sfx.temperature == nil {
				if t, err := strconv.ParseFloat(m[1], 64); err == nil {
					sfx.temperature = &t
				}
			}
			base = base[:len(base)-len(m[0])]
			continue
		}
		if m := spIdxSuffixRe.FindStringSubmatch(base); m != nil {
			if sfx.systemPromptIndex == nil {
				if i, err := strconv.Atoi(m[1]); err == nil {
					sfx.systemPromptIndex = &i
				}
			}
			base = base[:len(base)-len(m[0])]
			continue
		}
		if m := sysSuffixRe.FindStringSubmatch(base); m != nil {
			if sfx.systemPromptHash == "" {
				sfx.systemPromptHash = m[1]
			}
			base = base[:len(base)-len(m[0])]
			continue
		}
		return base, sfx
	}
}
