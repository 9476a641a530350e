package reconcile

import (
	"fmt"
	"regexp"
	"strings"
)

// defaultLabelPattern extracts the canonical key from labels shaped like
// "<key> Lab", case-insensitively.
var defaultLabelPattern = regexp.MustCompile(`(?i)^\s*(\S+)\s+lab\s*$`)

// Matcher matches externally-labeled candidates against the canonical
// identity registry using prioritized heuristics.
type Matcher struct {
	pattern *regexp.Regexp
}

// NewMatcher creates a matcher with the default "<key> Lab" label pattern.
func NewMatcher() *Matcher {
	return &Matcher{pattern: defaultLabelPattern}
}

// NewMatcherWithPattern creates a matcher with a custom label pattern. The
// pattern's first capture group is the canonical key.
func NewMatcherWithPattern(pattern *regexp.Regexp) *Matcher {
	return &Matcher{pattern: pattern}
}

// Match reconciles each candidate against the identity map. Strategies are
// attempted in fixed priority order and the first success wins; a canonical
// key is claimed at most once. Candidates no strategy applies to come back in
// the unmatched list for manual triage.
//
// Label evidence outweighs identity evidence: a label-extracted key whose
// expected identity differs from the candidate's owner identity is still
// accepted, with a warning, rather than rejected. When only the identity
// matches, the first hit in map iteration order is taken; if several
// canonical keys share one expected identity the choice is arbitrary.
func (m *Matcher) Match(candidates []Candidate, identities IdentityMap) ([]MatchResult, []Candidate) {
	results := make([]MatchResult, 0, len(candidates))
	var unmatched []Candidate
	claimed := make(map[string]bool, len(candidates))

	for _, c := range candidates {
		// Strategy 1+2: extract a key from the label.
		if key, ok := m.extractKey(c.Label); ok && !claimed[key] {
			expected, known := identities[key]
			result := MatchResult{
				CandidateID:   c.ExternalID,
				CanonicalKey:  key,
				OwnerIdentity: c.OwnerIdentity,
			}
			switch {
			case known && expected == c.OwnerIdentity:
				result.Strategy = StrategyNameVerified
			case known:
				result.Strategy = StrategyNameOnly
				result.Warning = fmt.Sprintf("owner identity %q does not match expected %q for key %q", c.OwnerIdentity, expected, key)
			default:
				result.Strategy = StrategyNameOnly
				result.Warning = fmt.Sprintf("no expected identity on record for key %q", key)
			}
			claimed[key] = true
			results = append(results, result)
			continue
		}

		// Strategy 3: identity-only fallback.
		if key, ok := m.identityFallback(c, identities, claimed); ok {
			claimed[key] = true
			results = append(results, MatchResult{
				CandidateID:   c.ExternalID,
				CanonicalKey:  key,
				Strategy:      StrategyIdentityFallback,
				OwnerIdentity: c.OwnerIdentity,
			})
			continue
		}

		// Strategy 4: unmatched.
		unmatched = append(unmatched, c)
	}

	return results, unmatched
}

// extractKey applies the label pattern and lowercases the captured key.
func (m *Matcher) extractKey(label string) (string, bool) {
	groups := m.pattern.FindStringSubmatch(label)
	if len(groups) < 2 || groups[1] == "" {
		return "", false
	}
	return strings.ToLower(groups[1]), true
}

// identityFallback scans the registry for an exact owner-identity match among
// unclaimed keys. Map iteration order makes the pick arbitrary when several
// keys share the identity.
func (m *Matcher) identityFallback(c Candidate, identities IdentityMap, claimed map[string]bool) (string, bool) {
	if c.OwnerIdentity == "" {
		return "", false
	}
	for key, expected := range identities {
		if !claimed[key] && expected == c.OwnerIdentity {
			return key, true
		}
	}
	return "", false
}
