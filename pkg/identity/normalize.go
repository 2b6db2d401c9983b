package identity

import "strings"

// normalizeForDisplay collapses routing providers onto the maker and
// canonicalizes the model name. The result round-trips: feeding it back in
// produces the same string.
func (p *Parser) normalizeForDisplay(base string) string {
	if isIdeal(base) || base == "" {
		return base
	}

	provider, rest, hasProvider := strings.Cut(base, ":")
	if !hasProvider {
		// Bare model name. Infer the provider where the name prefix is
		// distinctive, otherwise pass through with only name rewrites.
		rest = base
		provider = p.rules.inferProvider(rest)
		if provider == "" {
			return p.canonicalizeName(rest)
		}
	}

	provider = p.rules.providerAlias(provider)

	if p.rules.isRouting(provider) {
		if hint, name, ok := strings.Cut(rest, "/"); ok {
			// Discard the routing layer: the maker segment becomes the
			// provider for grouping purposes.
			provider = p.rules.providerAlias(hint)
			rest = name
		}
	}

	return provider + ":" + p.canonicalizeName(rest)
}

// makerOf resolves the canonical maker tag from a suffix-stripped base ID.
func (p *Parser) makerOf(base string) string {
	if base == "" || isIdeal(base) {
		return UnknownMaker
	}

	provider, rest, hasProvider := strings.Cut(base, ":")
	if !hasProvider {
		rest = base
		if hint, _, ok := strings.Cut(rest, "/"); ok {
			return p.rules.makerForHint(hint)
		}
		if inferred := p.rules.inferProvider(rest); inferred != "" {
			if tag, ok := p.rules.DirectMakers[inferred]; ok {
				return tag
			}
		}
		return UnknownMaker
	}

	if hint, _, ok := strings.Cut(rest, "/"); ok {
		return p.rules.makerForHint(hint)
	}

	if tag, ok := p.rules.DirectMakers[p.rules.providerAlias(provider)]; ok {
		return tag
	}
	return UnknownMaker
}
