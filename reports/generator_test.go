package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platform-research/models"
)

func sampleResult() *models.PlatformResearchResult {
	now := time.Now()
	return &models.PlatformResearchResult{
		ID: "r1", PlatformID: "netflix", PlatformName: "Netflix",
		Status:  models.StatusCompleted,
		Trigger: models.TriggerManual,
		Screenshots: []models.ScreenshotRecord{
			{Filename: "01-login-page.png", Label: "login page", Step: 1},
		},
		Capabilities: []models.CapabilityEntry{
			{Name: "Maturity rating limit", RuleCategory: "content-filtering", Automatable: true},
			{Name: "Kids profile", RuleCategory: "content-filtering"},
		},
		Steps:  []models.SetupStep{{Order: 1, Instruction: "Opened login page", ActionType: "navigate", ScreenshotIndex: 0}},
		Errors: []string{},
		Assessment: &models.Assessment{
			Complexity: "moderate", AgeGating: "maturity-rating",
			FeatureCount: 2, AutomatableCount: 1,
			CoveragePercent: 16.7, ProtectionRating: 2.7,
			Gaps: []string{"screen-time"}, Strengths: []string{"content-filtering"},
		},
		StartedAt: now, CompletedAt: now,
	}
}

func TestWriteJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")

	path, err := WriteJSON(dir, []*models.PlatformResearchResult{sampleResult()})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("research-%s.json", time.Now().Format("2006-01-02")), filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []models.PlatformResearchResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "netflix", decoded[0].PlatformID)
	assert.Equal(t, "01-login-page.png", decoded[0].Screenshots[0].Filename)
	require.NotNil(t, decoded[0].Assessment)
	assert.Equal(t, 2.7, decoded[0].Assessment.ProtectionRating)
}

func TestGeneratePDF(t *testing.T) {
	buf, err := GeneratePDF(sampleResult(), "")
	require.NoError(t, err)
	require.NotZero(t, buf.Len())
	assert.Equal(t, "%PDF", buf.String()[:4])
}

func TestGeneratePDFWithoutAssessment(t *testing.T) {
	res := sampleResult()
	res.Assessment = nil
	res.Status = models.StatusError

	buf, err := GeneratePDF(res, t.TempDir())
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
