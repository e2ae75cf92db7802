package scripts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platform-research/models"
)

func TestComputeAssessmentEmpty(t *testing.T) {
	a := ComputeAssessment(nil, "")
	require.NotNil(t, a)
	assert.Equal(t, 0, a.FeatureCount)
	assert.Equal(t, 0.0, a.CoveragePercent)
	assert.Equal(t, 0.0, a.ProtectionRating)
	assert.Equal(t, "none", a.AgeGating)
	assert.Equal(t, "low", a.Complexity)
	assert.Len(t, a.Gaps, 6)
	assert.Empty(t, a.Strengths)
}

func TestComputeAssessmentFullCoverage(t *testing.T) {
	caps := []models.CapabilityEntry{
		{Name: "a", RuleCategory: RuleContentFiltering, Automatable: true},
		{Name: "b", RuleCategory: RuleScreenTime, Automatable: true},
		{Name: "c", RuleCategory: RulePurchaseControls, Automatable: true},
		{Name: "d", RuleCategory: RuleCommunicationLimits, Automatable: true},
		{Name: "e", RuleCategory: RulePrivacy, Automatable: true},
		{Name: "f", RuleCategory: RuleMonitoring, Automatable: true},
	}
	a := ComputeAssessment(caps, "pin")

	assert.Equal(t, 100.0, a.CoveragePercent)
	assert.Equal(t, 10.0, a.ProtectionRating)
	assert.Equal(t, 6, a.AutomatableCount)
	assert.Empty(t, a.Gaps)
	assert.Equal(t, "pin", a.AgeGating)
}

func TestComputeAssessmentPartial(t *testing.T) {
	caps := []models.CapabilityEntry{
		{Name: "a", RuleCategory: RuleContentFiltering, Automatable: true},
		{Name: "b", RuleCategory: RuleContentFiltering},
		{Name: "c", RuleCategory: RulePrivacy},
	}
	a := ComputeAssessment(caps, "")

	assert.InDelta(t, 33.3, a.CoveragePercent, 0.1)
	assert.Equal(t, []string{RuleContentFiltering}, a.Strengths)
	assert.Contains(t, a.Gaps, RuleScreenTime)
	assert.Contains(t, a.Gaps, RuleMonitoring)
	assert.NotContains(t, a.Gaps, RulePrivacy)

	// 1/3 coverage of the rating's 7 points plus 1/3 automatable of its 3.
	assert.InDelta(t, 7.0/3+1.0, a.ProtectionRating, 0.01)
	assert.GreaterOrEqual(t, a.ProtectionRating, 0.0)
	assert.LessOrEqual(t, a.ProtectionRating, 10.0)
}

func TestComplexityTiers(t *testing.T) {
	many := make([]models.CapabilityEntry, 8)
	assert.Equal(t, "high", complexityTier(many))
	assert.Equal(t, "moderate", complexityTier(make([]models.CapabilityEntry, 4)))
	assert.Equal(t, "low", complexityTier(make([]models.CapabilityEntry, 2)))

	optionHeavy := []models.CapabilityEntry{{Options: make([]string, 20)}}
	assert.Equal(t, "high", complexityTier(optionHeavy))
}
