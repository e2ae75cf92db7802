package scripts

import (
	"sort"

	"platform-research/models"
)

// Rule categories of the internal taxonomy. Coverage is measured against
// this list.
const (
	RuleContentFiltering    = "content-filtering"
	RuleScreenTime          = "screen-time"
	RulePurchaseControls    = "purchase-controls"
	RuleCommunicationLimits = "communication-limits"
	RulePrivacy             = "privacy"
	RuleMonitoring          = "monitoring"
)

var taxonomy = []string{
	RuleContentFiltering,
	RuleScreenTime,
	RulePurchaseControls,
	RuleCommunicationLimits,
	RulePrivacy,
	RuleMonitoring,
}

// ComputeAssessment derives the run summary from the collected capability
// entries. Called exactly once per run, when the recorder is sealed.
func ComputeAssessment(caps []models.CapabilityEntry, ageGating string) *models.Assessment {
	covered := make(map[string]int)
	automatable := 0
	for _, c := range caps {
		if c.RuleCategory != "" {
			covered[c.RuleCategory]++
		}
		if c.Automatable {
			automatable++
		}
	}

	var gaps, strengths []string
	coveredCount := 0
	for _, cat := range taxonomy {
		n := covered[cat]
		if n == 0 {
			gaps = append(gaps, cat)
			continue
		}
		coveredCount++
		if n >= 2 {
			strengths = append(strengths, cat)
		}
	}
	sort.Strings(gaps)
	sort.Strings(strengths)

	coverage := float64(coveredCount) / float64(len(taxonomy)) * 100

	if ageGating == "" {
		ageGating = "none"
	}

	// Rating blends taxonomy coverage with how much of the surface is
	// automatable, clamped to the 0-10 scale.
	rating := coverage / 100 * 7
	if len(caps) > 0 {
		rating += float64(automatable) / float64(len(caps)) * 3
	}
	if rating > 10 {
		rating = 10
	}

	return &models.Assessment{
		Complexity:       complexityTier(caps),
		AgeGating:        ageGating,
		FeatureCount:     len(caps),
		AutomatableCount: automatable,
		CoveragePercent:  coverage,
		Gaps:             gaps,
		Strengths:        strengths,
		ProtectionRating: rating,
	}
}

func complexityTier(caps []models.CapabilityEntry) string {
	options := 0
	for _, c := range caps {
		options += len(c.Options)
	}
	switch {
	case len(caps) >= 8 || options >= 20:
		return "high"
	case len(caps) >= 4 || options >= 8:
		return "moderate"
	default:
		return "low"
	}
}
