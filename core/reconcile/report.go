package reconcile

// Report bundles the reconciliation output for presentation: CLI tables,
// admin API responses and spreadsheet exports all consume this shape.
type Report struct {
	// Results are the accepted matches in candidate order.
	Results []MatchResult `json:"results"`

	// Unmatched are the candidates left for manual triage.
	Unmatched []Candidate `json:"unmatched"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a reconciliation report.
type Summary struct {
	// TotalCandidates is the number of candidates considered.
	TotalCandidates int `json:"total_candidates"`

	// Verified counts name-and-identity-verified matches.
	Verified int `json:"verified"`

	// NameOnly counts matches accepted on label evidence alone.
	NameOnly int `json:"name_only"`

	// Fallback counts identity-only fallback matches.
	Fallback int `json:"fallback"`

	// Unmatched counts candidates no strategy applied to.
	Unmatched int `json:"unmatched"`

	// Warnings counts results carrying a discrepancy warning.
	Warnings int `json:"warnings"`
}

// BuildReport assembles a report from matcher output.
func BuildReport(results []MatchResult, unmatched []Candidate) *Report {
	report := &Report{
		Results:   results,
		Unmatched: unmatched,
		Summary: Summary{
			TotalCandidates: len(results) + len(unmatched),
			Unmatched:       len(unmatched),
		},
	}
	for _, r := range results {
		switch r.Strategy {
		case StrategyNameVerified:
			report.Summary.Verified++
		case StrategyNameOnly:
			report.Summary.NameOnly++
		case StrategyIdentityFallback:
			report.Summary.Fallback++
		}
		if r.Warning != "" {
			report.Summary.Warnings++
		}
	}
	return report
}
