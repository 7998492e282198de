// Package export renders an analysis report to CSV and XLSX files.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/r0bertgabriel/inmet-belem/app"
	"github.com/r0bertgabriel/inmet-belem/domain/observation"
	"github.com/r0bertgabriel/inmet-belem/domain/series"
	apperrors "github.com/r0bertgabriel/inmet-belem/internal/errors"
)

// CSVWriter writes one CSV file per report section into a directory.
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a writer targeting the given directory, creating
// it if needed.
func NewCSVWriter(dir string) (*CSVWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.ExportError("create output directory", err)
	}
	return &CSVWriter{dir: dir}, nil
}

// WriteReport writes the statistics, daily series, monthly profiles,
// and episode files. Undefined statistics render as empty cells.
func (w *CSVWriter) WriteReport(report *app.AnalysisReport) error {
	if err := w.writeStatistics(report); err != nil {
		return err
	}
	if err := w.writeDailySeries(report); err != nil {
		return err
	}
	if err := w.writeMonthlyProfiles(report); err != nil {
		return err
	}
	return w.writeEpisodes(report)
}

func (w *CSVWriter) writeStatistics(report *app.AnalysisReport) error {
	rows := [][]string{{
		"variable", "unit", "count", "missing", "mean", "median", "mode",
		"std_dev", "variance", "min", "max", "range",
		"p25", "p50", "p75", "iqr", "skewness", "kurtosis", "cv",
	}}
	for _, v := range sortedVariables(report) {
		s := report.Variables[v].Summary
		rows = append(rows, []string{
			string(v), v.Unit(),
			strconv.Itoa(s.Count), strconv.Itoa(s.Missing),
			cell(s.Mean), cell(s.Median), cell(s.Mode),
			cell(s.StdDev), cell(s.Variance),
			cell(s.Min), cell(s.Max), cell(s.Range),
			cell(s.Q1()), cell(s.Percentile(50)), cell(s.Q3()), cell(s.IQR),
			cell(s.Skewness), cell(s.Kurtosis), cell(s.CV),
		})
	}
	return w.writeFile("statistics.csv", rows)
}

func (w *CSVWriter) writeDailySeries(report *app.AnalysisReport) error {
	for _, v := range sortedVariables(report) {
		a := report.Variables[v]
		rows := [][]string{{"date", "mean", "min", "max", "sum"}}

		minByDate := indexByDate(a.DailyMin)
		maxByDate := indexByDate(a.DailyMax)
		var sumByDate map[string]float64
		if a.DailySum != nil {
			sumByDate = indexByDate(*a.DailySum)
		}

		for _, e := range a.DailyMean.Entries {
			key := e.Date.String()
			row := []string{key, cell(e.Value), lookup(minByDate, key), lookup(maxByDate, key), lookup(sumByDate, key)}
			rows = append(rows, row)
		}
		if err := w.writeFile(fmt.Sprintf("daily_%s.csv", v), rows); err != nil {
			return err
		}
	}
	return nil
}

func (w *CSVWriter) writeMonthlyProfiles(report *app.AnalysisReport) error {
	rows := [][]string{{"variable", "month", "count", "mean", "min", "max", "std_dev"}}
	for _, v := range sortedVariables(report) {
		for _, e := range report.Variables[v].MonthlyProfile.Entries {
			rows = append(rows, []string{
				string(v), e.Key,
				strconv.Itoa(e.Summary.Count),
				cell(e.Summary.Mean), cell(e.Summary.Min), cell(e.Summary.Max), cell(e.Summary.StdDev),
			})
		}
	}
	return w.writeFile("monthly_profiles.csv", rows)
}

func (w *CSVWriter) writeEpisodes(report *app.AnalysisReport) error {
	rows := [][]string{{"kind", "start", "end", "duration_days", "extreme", "mean"}}
	for _, e := range report.HeatWaves.Episodes {
		rows = append(rows, []string{
			"heat_wave", e.Start.String(), e.End.String(),
			strconv.Itoa(e.Duration), cell(e.Extreme), cell(e.Mean),
		})
	}
	for _, e := range report.ColdSpells.Episodes {
		rows = append(rows, []string{
			"cold_spell", e.Start.String(), e.End.String(),
			strconv.Itoa(e.Duration), cell(e.Extreme), cell(e.Mean),
		})
	}
	return w.writeFile("episodes.csv", rows)
}

func (w *CSVWriter) writeFile(name string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return apperrors.ExportError("create "+name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return apperrors.ExportError("write "+name, err)
	}
	cw.Flush()
	return cw.Error()
}

// cell renders a statistic, empty for the undefined sentinel.
func cell(v float64) string {
	if !series.Defined(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func indexByDate(ds series.DailySeries) map[string]float64 {
	out := make(map[string]float64, ds.Len())
	for _, e := range ds.Entries {
		out[e.Date.String()] = e.Value
	}
	return out
}

func lookup(m map[string]float64, key string) string {
	if m == nil {
		return ""
	}
	v, ok := m[key]
	if !ok {
		return ""
	}
	return cell(v)
}

func sortedVariables(report *app.AnalysisReport) []observation.Variable {
	vars := make([]observation.Variable, 0, len(report.Variables))
	for v := range report.Variables {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })
	return vars
}
