// Package reconcile matches externally-labeled candidates against the
// canonical identity registry using prioritized heuristics.
//
// Candidates come from the source system with a free-text label and an
// optional (possibly stale) owner identity; the registry maps canonical keys
// to expected owner identities. For each candidate the matcher attempts, in
// fixed priority order, first success winning:
//
//  1. Name-pattern extraction with identity verification: the label matches
//     the "<key> Lab" pattern and the registry's expected identity for the
//     key equals the candidate's owner identity.
//
//  2. Name-pattern accepted with mismatch: the label matches but the identity
//     differs or is unknown. The match is accepted anyway with a warning,
//     because label text is stronger evidence than a stale identity field.
//     This is a deliberate accept-with-warning policy, not a rejection.
//
//  3. Identity-only fallback: no usable label, but the candidate's owner
//     identity appears in the registry. Lower confidence; when several keys
//     share one identity, the pick follows map iteration order and is
//     arbitrary.
//
//  4. Unmatched: returned separately for manual triage.
//
// Ambiguity is never an error here: discrepancies surface as warnings or
// unmatched leftovers in the Report, both of which are reported, never thrown.
//
// # Identity map caching
//
// LoadIdentityMap serves the registry through a TTL cache with singleflight
// stampede protection, keyed by source system. InvalidateIdentityMap drops an
// entry after a registry import.
//
// # Usage
//
//	identities, err := reconcile.LoadIdentityMap(ctx, "helpdesk", 5*time.Minute, loadFromDB)
//	results, unmatched := reconcile.NewMatcher().Match(candidates, identities)
//	report := reconcile.BuildReport(results, unmatched)
package reconcile
