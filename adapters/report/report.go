// Package report renders an analysis report as Markdown text and as
// HTML for the API surface.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/r0bertgabriel/inmet-belem/app"
	"github.com/r0bertgabriel/inmet-belem/domain/observation"
	"github.com/r0bertgabriel/inmet-belem/domain/series"
	"github.com/r0bertgabriel/inmet-belem/internal/extremes"
)

// Builder renders reports. It is stateless.
type Builder struct{}

// NewBuilder creates a Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Markdown renders the full report as Markdown.
func (b *Builder) Markdown(r *app.AnalysisReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Climate Analysis Report\n\n")
	fmt.Fprintf(&sb, "Run `%s`, generated %s.\n\n", r.RunID, r.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&sb, "Period %s to %s (%d days). %d hourly records analyzed, %d rejected, %d replaced, %d missing hours.\n\n",
		r.PeriodStart, r.PeriodEnd, r.PeriodStart.DaysUntil(r.PeriodEnd)+1,
		r.RecordCount, r.Rejected, r.Replaced, r.GapCount)

	b.writeStatistics(&sb, r)
	b.writeEpisodes(&sb, "Heat Waves", r.HeatWaves)
	b.writeEpisodes(&sb, "Cold Spells", r.ColdSpells)
	b.writeRanking(&sb, r)
	b.writeSkipped(&sb, r)

	return sb.String()
}

// HTML renders the Markdown report as an HTML fragment.
func (b *Builder) HTML(r *app.AnalysisReport) []byte {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(b.Markdown(r)))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

func (b *Builder) writeStatistics(sb *strings.Builder, r *app.AnalysisReport) {
	fmt.Fprintf(sb, "## Descriptive Statistics\n\n")
	fmt.Fprintf(sb, "| Variable | Count | Mean | Median | Std | Min | Max | P25 | P75 |\n")
	fmt.Fprintf(sb, "|---|---|---|---|---|---|---|---|---|\n")
	for _, v := range orderedVariables(r) {
		s := r.Variables[v].Summary
		fmt.Fprintf(sb, "| %s (%s) | %d | %s | %s | %s | %s | %s | %s | %s |\n",
			v, v.Unit(), s.Count,
			num(s.Mean), num(s.Median), num(s.StdDev),
			num(s.Min), num(s.Max), num(s.Q1()), num(s.Q3()))
	}
	sb.WriteString("\n")
}

func (b *Builder) writeEpisodes(sb *strings.Builder, title string, det extremes.Detection) {
	fmt.Fprintf(sb, "## %s\n\n", title)
	if len(det.Episodes) == 0 {
		fmt.Fprintf(sb, "No episodes of %d+ consecutive days found.\n\n", det.MinRun)
		return
	}
	fmt.Fprintf(sb, "Threshold %s (p%.0f), minimum run %d days.\n\n", num(det.Threshold), det.Percentile, det.MinRun)
	fmt.Fprintf(sb, "| Start | End | Days | Extreme | Mean |\n")
	fmt.Fprintf(sb, "|---|---|---|---|---|\n")
	for _, e := range det.Episodes {
		fmt.Fprintf(sb, "| %s | %s | %d | %s | %s |\n",
			e.Start, e.End, e.Duration, num(e.Extreme), num(e.Mean))
	}
	sb.WriteString("\n")
}

func (b *Builder) writeRanking(sb *strings.Builder, r *app.AnalysisReport) {
	if len(r.HottestDays) == 0 && len(r.ColdestDays) == 0 {
		return
	}
	fmt.Fprintf(sb, "## Temperature Ranking\n\n")
	for i := range r.HottestDays {
		fmt.Fprintf(sb, "- Hottest %d: %s (%s °C)\n", i+1, r.HottestDays[i].Date, num(r.HottestDays[i].Value))
	}
	for i := range r.ColdestDays {
		fmt.Fprintf(sb, "- Coldest %d: %s (%s °C)\n", i+1, r.ColdestDays[i].Date, num(r.ColdestDays[i].Value))
	}
	sb.WriteString("\n")
}

func (b *Builder) writeSkipped(sb *strings.Builder, r *app.AnalysisReport) {
	if len(r.Skipped) == 0 {
		return
	}
	fmt.Fprintf(sb, "## Skipped\n\n")
	for _, s := range r.Skipped {
		fmt.Fprintf(sb, "- %s\n", s)
	}
	sb.WriteString("\n")
}

func num(v float64) string {
	if !series.Defined(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}

func orderedVariables(r *app.AnalysisReport) []observation.Variable {
	out := make([]observation.Variable, 0, len(r.Variables))
	for _, v := range observation.AllVariables() {
		if _, ok := r.Variables[v]; ok {
			out = append(out, v)
		}
	}
	return out
}
