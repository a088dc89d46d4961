package display

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/marden/carscout/internal/models"
)

// Report builds a markdown document describing one recommendation run.
// The output is stable for a given recommendation so reports can be diffed
// across runs.
func Report(rec *models.Recommendation, generatedAt time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Vehicle Recommendation Report\n\n")
	fmt.Fprintf(&sb, "Generated: %s\n\n", generatedAt.Format("2006-01-02 15:04:05"))

	if rec.NoMatches {
		sb.WriteString("## No Matches\n\n")
		sb.WriteString("No vehicles satisfied the active constraints:\n\n")
		for _, c := range rec.Constraints {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
		if rec.Guidance != "" {
			fmt.Fprintf(&sb, "\n%s\n", rec.Guidance)
		}
		return sb.String()
	}

	sb.WriteString("## Top Picks\n\n")
	for i, e := range rec.Explanations {
		fmt.Fprintf(&sb, "### %d. %s\n\n", i+1, e.Vehicle)
		fmt.Fprintf(&sb, "| Metric | Value |\n|---|---|\n")
		fmt.Fprintf(&sb, "| Score | %s |\n", e.Score)
		fmt.Fprintf(&sb, "| Price | %s |\n", e.Price)
		fmt.Fprintf(&sb, "| Safety | %s |\n", e.Safety)
		fmt.Fprintf(&sb, "| Reliability | %s |\n", e.Reliability)
		fmt.Fprintf(&sb, "| Estimated resale | %s |\n", e.ResaleValue)
		fmt.Fprintf(&sb, "| Categories | %s |\n\n", strings.Join(e.Categories, ", "))
		if len(e.Strengths) > 0 {
			sb.WriteString("Strengths:\n\n")
			for _, s := range e.Strengths {
				fmt.Fprintf(&sb, "- %s\n", s)
			}
			sb.WriteString("\n")
		}
		if e.Advice != "" {
			fmt.Fprintf(&sb, "> %s\n\n", e.Advice)
		}
	}

	stats := rec.Stats
	sb.WriteString("## Pipeline Summary\n\n")
	fmt.Fprintf(&sb, "- Candidates considered: %d\n", stats.PoolSize)
	fmt.Fprintf(&sb, "- Admitted by constraints: %d\n", stats.Admitted)
	fmt.Fprintf(&sb, "- Vehicles with a category: %d\n", stats.Classified)
	fmt.Fprintf(&sb, "- Highly rated for safety (4.0+): %d\n", stats.SafeVehicles)
	if len(stats.ReliableMakes) > 0 {
		fmt.Fprintf(&sb, "- Reliable manufacturers: %s\n", strings.Join(stats.ReliableMakes, ", "))
	}
	fmt.Fprintf(&sb, "- Knowledge graph: %d triples over %d vehicles and %d manufacturers\n",
		stats.Semantic.TripleCount, stats.Semantic.VehicleCount, stats.Semantic.ManufacturerCount)
	if len(stats.Degraded) > 0 {
		fmt.Fprintf(&sb, "- Unavailable signals: %s\n", strings.Join(stats.Degraded, ", "))
	}

	return sb.String()
}

// RenderHTML converts a markdown report to a standalone HTML document.
func RenderHTML(markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.New().Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	var doc bytes.Buffer
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	doc.WriteString("<title>Vehicle Recommendation Report</title>\n</head>\n<body>\n")
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")
	return doc.Bytes(), nil
}
