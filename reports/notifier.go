package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"platform-research/models"
)

// SlackMessage defines the JSON structure expected by Slack webhooks.
type SlackMessage struct {
	Text string `json:"text"`
}

// SendSlackSummary posts a batch outcome to a Slack webhook. Best-effort
// telemetry: callers log failures and move on.
func SendSlackSummary(webhookURL string, run *models.ResearchRun) error {
	icon := "✅"
	if run.Status == models.RunStatusFailed {
		icon = "🚨"
	} else if run.Failed > 0 {
		icon = "⚠️"
	}

	messageBody := fmt.Sprintf(
		"%s *Platform Research Batch*\n"+
			"*Run:* %s (%s)\n"+
			"*Platforms:* %d total, %d completed, %d failed\n"+
			"*Status:* %s\n"+
			"*Time:* %s",
		icon, run.ID, run.Trigger, run.Total, run.Completed, run.Failed,
		run.Status, time.Now().Format("15:04:05"),
	)

	payload := SlackMessage{Text: messageBody}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(jsonPayload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}
