// Package reports renders research output for humans: the aggregate JSON
// artifact written by the runner, per-platform PDF summaries, and the Slack
// batch notification.
package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"platform-research/models"
)

// WriteJSON writes the aggregate result array as the dated run artifact and
// returns its path.
func WriteJSON(dir string, results []*models.PlatformResearchResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("research-%s.json", time.Now().Format("2006-01-02")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write results file: %w", err)
	}
	return path, nil
}

// GeneratePDF renders a one-platform research summary. screenshotDir is the
// platform's screenshot directory; the first captured image is embedded as
// evidence when available.
func GeneratePDF(res *models.PlatformResearchResult, screenshotDir string) (*bytes.Buffer, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(15, 98, 254)
	pdf.Cell(0, 10, "Parental Controls Research Summary")
	pdf.Ln(12)

	pdf.SetFillColor(240, 240, 240)
	pdf.Rect(10, 22, 190, 40, "F")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(0, 0, 0)

	pdf.SetXY(12, 25)
	pdf.Cell(0, 10, fmt.Sprintf("Platform: %s (%s)", res.PlatformName, res.PlatformID))
	pdf.SetXY(120, 25)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", res.CompletedAt.Format("2006-01-02 15:04")))

	pdf.SetXY(12, 32)
	pdf.SetFont("Courier", "", 9)
	pdf.Cell(0, 10, fmt.Sprintf("Status: %s | Steps: %d | Screenshots: %d | Errors: %d",
		res.Status, len(res.Steps), len(res.Screenshots), len(res.Errors)))

	if res.Assessment != nil {
		pdf.SetXY(12, 40)
		pdf.SetFont("Arial", "B", 12)
		ratingColor := []int{66, 190, 101}
		if res.Assessment.ProtectionRating < 4 {
			ratingColor = []int{250, 77, 86}
		} else if res.Assessment.ProtectionRating < 7 {
			ratingColor = []int{241, 194, 27}
		}
		pdf.SetTextColor(ratingColor[0], ratingColor[1], ratingColor[2])
		pdf.Cell(0, 10, fmt.Sprintf("Protection Rating: %.1f/10 (%s complexity, %.0f%% coverage)",
			res.Assessment.ProtectionRating, res.Assessment.Complexity, res.Assessment.CoveragePercent))
	}

	pdf.Ln(25)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Documented Capabilities:")
	pdf.Ln(8)

	pdf.SetFont("Courier", "", 10)
	pdf.SetFillColor(30, 30, 30)
	pdf.SetTextColor(255, 255, 255)

	for _, c := range res.Capabilities {
		auto := "manual"
		if c.Automatable {
			auto = "automatable"
		}
		pdf.CellFormat(0, 8, fmt.Sprintf(" > %s [%s, %s]", c.Name, c.RuleCategory, auto), "0", 1, "", true, 0, "")
	}

	pdf.Ln(5)

	if len(res.Screenshots) > 0 && screenshotDir != "" {
		first := filepath.Join(screenshotDir, res.Screenshots[0].Filename)
		if imgData, err := os.ReadFile(first); err == nil {
			pdf.SetTextColor(0, 0, 0)
			pdf.SetFont("Arial", "B", 14)
			pdf.Cell(0, 10, "Evidence (Screenshot):")
			pdf.Ln(10)

			rdr := bytes.NewReader(imgData)
			pdf.RegisterImageOptionsReader("screenshot", fpdf.ImageOptions{ImageType: "PNG"}, rdr)
			pdf.Image("screenshot", 10, pdf.GetY(), 190, 0, false, "", 0, "")
		}
	}

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	return &buf, err
}
