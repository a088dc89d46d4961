// Package display renders recommendation results for the terminal and
// builds the exportable run report.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/marden/carscout/internal/models"
)

// Renderer writes human-readable recommendation output.
type Renderer struct {
	out      io.Writer
	useColor bool
}

// NewRenderer creates a renderer for the given writer. Color output is
// enabled only when writing to a terminal.
func NewRenderer(out io.Writer) *Renderer {
	useColor := false
	if f, ok := out.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) && !color.NoColor
	}
	return &Renderer{out: out, useColor: useColor}
}

// Render prints the full recommendation: headline, per-pick details, and
// the pipeline summary.
func (r *Renderer) Render(rec *models.Recommendation) {
	if rec.NoMatches {
		r.renderNoMatches(rec)
		return
	}

	r.headline("TOP PICKS")

	for i, e := range rec.Explanations {
		fmt.Fprintf(r.out, "\n%d. %s\n", i+1, r.bold(e.Vehicle))
		fmt.Fprintf(r.out, "   Score: %s | Price: %s\n", r.green(e.Score), e.Price)
		fmt.Fprintf(r.out, "   Safety: %s | Reliability: %s\n", e.Safety, e.Reliability)
		fmt.Fprintf(r.out, "   Categories: %s\n", strings.Join(e.Categories, ", "))
		if len(e.Strengths) > 0 {
			fmt.Fprintf(r.out, "   Strengths: %s\n", strings.Join(e.Strengths, ", "))
		}
		fmt.Fprintf(r.out, "   Estimated resale value: %s\n", e.ResaleValue)
		if e.Advice != "" {
			fmt.Fprintf(r.out, "   %s\n", e.Advice)
		}
	}

	r.renderStats(rec.Stats)
}

func (r *Renderer) renderNoMatches(rec *models.Recommendation) {
	r.headline("NO MATCHES")
	fmt.Fprintf(r.out, "\n%s\n", r.yellow("No vehicles matched your constraints:"))
	for _, c := range rec.Constraints {
		fmt.Fprintf(r.out, "  - %s\n", c)
	}
	if rec.Guidance != "" {
		fmt.Fprintf(r.out, "\n%s\n", rec.Guidance)
	}
}

func (r *Renderer) renderStats(stats models.PipelineStats) {
	fmt.Fprintf(r.out, "\n")
	fmt.Fprintf(r.out, "Pipeline summary:\n")
	fmt.Fprintf(r.out, "  Candidates: %d, admitted: %d\n", stats.PoolSize, stats.Admitted)
	fmt.Fprintf(r.out, "  Classified: %d, highly rated (4.0+): %d\n", stats.Classified, stats.SafeVehicles)
	if len(stats.ReliableMakes) > 0 {
		fmt.Fprintf(r.out, "  Reliable manufacturers: %s\n", strings.Join(stats.ReliableMakes, ", "))
	}
	fmt.Fprintf(r.out, "  Knowledge graph: %d triples, %d vehicles, %d manufacturers\n",
		stats.Semantic.TripleCount, stats.Semantic.VehicleCount, stats.Semantic.ManufacturerCount)
	if len(stats.Degraded) > 0 {
		fmt.Fprintf(r.out, "  %s\n", r.yellow(fmt.Sprintf("Note: unavailable signals: %s", strings.Join(stats.Degraded, ", "))))
	}
}

func (r *Renderer) headline(title string) {
	line := strings.Repeat("=", 60)
	fmt.Fprintf(r.out, "%s\n%s\n%s\n", line, title, line)
}

func (r *Renderer) bold(s string) string {
	if r.useColor {
		return color.New(color.Bold).Sprint(s)
	}
	return s
}

func (r *Renderer) green(s string) string {
	if r.useColor {
		return color.New(color.FgGreen).Sprint(s)
	}
	return s
}

func (r *Renderer) yellow(s string) string {
	if r.useColor {
		return color.New(color.FgYellow).Sprint(s)
	}
	return s
}
