package identity

import "strings"

// canonicalizeName collapses dated snapshots and tagged variants of a model
// name onto one representative string. Exact aliases run first, then the
// ordered rewrites repeat until a fixed point so stacked suffixes
// ("-beta-preview") fully unwind. Unmatched names pass through unchanged.
func (p *Parser) canonicalizeName(name string) string {
	if name == "" {
		return name
	}

	if alias, ok := p.rules.Aliases[strings.ToLower(name)]; ok {
		name = alias
	}

	// The rewrite tables are short and tail-anchored; the fixed point is
	// reached in a handful of passes. The bound guards against a
	// pathological user-supplied rule set.
	for range 8 {
		next := name
		for _, rule := range p.rules.Rewrites {
			next = rule.re.ReplaceAllString(next, rule.Replace)
		}
		if next == name {
			break
		}
		name = next
	}
	return name
}
