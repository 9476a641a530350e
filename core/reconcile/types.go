package reconcile

// Candidate is one externally-fetched record to be matched against the
// canonical registry. The label is free text; the owner identity is optional
// and possibly stale.
type Candidate struct {
	// ExternalID is the candidate's identifier in the source system.
	ExternalID string `json:"external_id"`

	// Label is the candidate's display label, e.g. "aabol Lab".
	Label string `json:"label"`

	// OwnerIdentity is the owner recorded on the candidate (e.g. an email).
	// Empty when the source has none.
	OwnerIdentity string `json:"owner_identity"`
}

// IdentityMap maps a canonical key to the owner identity expected for it.
type IdentityMap map[string]string

// Strategy names the heuristic that produced a match, in priority order.
type Strategy string

const (
	// StrategyNameVerified: the label pattern extracted a key and the
	// candidate's owner identity matches the expected one.
	StrategyNameVerified Strategy = "name-and-identity-verified"

	// StrategyNameOnly: the label pattern extracted a key but the owner
	// identity differs or is unknown. The match is still accepted (label
	// text outweighs a possibly-stale identity field) with a warning.
	StrategyNameOnly Strategy = "name-only"

	// StrategyIdentityFallback: no usable label, but exactly the candidate's
	// owner identity appears in the registry. Lower confidence.
	StrategyIdentityFallback Strategy = "identity-only-fallback"

	// StrategyUnmatched: no heuristic applied.
	StrategyUnmatched Strategy = "unmatched"
)

// MatchResult is the reconciliation outcome for one candidate.
type MatchResult struct {
	// CandidateID is the candidate's external identifier.
	CandidateID string `json:"candidate_id"`

	// CanonicalKey is the matched canonical key. Empty when unmatched.
	CanonicalKey string `json:"canonical_key,omitempty"`

	// Strategy names the heuristic that produced this result.
	Strategy Strategy `json:"strategy"`

	// OwnerIdentity is the candidate's owner identity, carried through for
	// reporting.
	OwnerIdentity string `json:"owner_identity,omitempty"`

	// Warning describes an accepted discrepancy. Non-empty only for
	// name-only matches.
	Warning string `json:"warning,omitempty"`
}
