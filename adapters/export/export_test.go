package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/r0bertgabriel/inmet-belem/app"
	"github.com/r0bertgabriel/inmet-belem/domain/core"
	"github.com/r0bertgabriel/inmet-belem/domain/episode"
	"github.com/r0bertgabriel/inmet-belem/domain/observation"
	"github.com/r0bertgabriel/inmet-belem/domain/series"
	"github.com/r0bertgabriel/inmet-belem/internal/extremes"
)

func sampleReport() *app.AnalysisReport {
	jan1 := core.NewDate(2023, time.January, 1)
	daily := func(kind series.AggKind, values ...float64) series.DailySeries {
		entries := make([]series.DailyEntry, len(values))
		d := jan1
		for i, v := range values {
			entries[i] = series.DailyEntry{Date: d, Value: v}
			d = d.Next()
		}
		return series.DailySeries{Variable: observation.Temperature, Kind: kind, Entries: entries}
	}

	summary := series.StatSummary{
		Count: 3, Mean: 25, Median: 25, Mode: series.Undefined,
		StdDev: 1, Variance: 1, Min: 24, Max: 26, Range: 2,
		Percentiles: map[float64]float64{25: 24.5, 50: 25, 75: 25.5},
		IQR:         1, Skewness: series.Undefined, Kurtosis: series.Undefined,
		CV: 4, NormalityP: series.Undefined,
	}

	return &app.AnalysisReport{
		RunID:       core.NewRunID(),
		GeneratedAt: time.Now().UTC(),
		PeriodStart: jan1,
		PeriodEnd:   core.NewDate(2023, time.January, 3),
		RecordCount: 72,
		Variables: map[observation.Variable]*app.VariableAnalysis{
			observation.Temperature: {
				Variable:  observation.Temperature,
				Summary:   summary,
				DailyMean: daily(series.AggMean, 24, 25, 26),
				DailyMin:  daily(series.AggMin, 22, 23, 24),
				DailyMax:  daily(series.AggMax, 30, 31, 32),
				MonthlyProfile: series.PeriodProfile{
					Variable: observation.Temperature,
					Entries:  []series.ProfileEntry{{Key: "01", Summary: summary}},
				},
			},
		},
		HeatWaves: extremes.Detection{
			Direction: episode.Hot,
			Threshold: 29.5,
			MinRun:    3,
			Episodes: []episode.Episode{{
				Start: jan1, End: core.NewDate(2023, time.January, 3),
				Duration: 3, Extreme: 32, Mean: 31,
			}},
		},
		ColdSpells: extremes.Detection{Direction: episode.Cold, MinRun: 3},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriterStatistics(t *testing.T) {
	dir := t.TempDir()
	w, err := NewCSVWriter(dir)
	require.NoError(t, err)
	require.NoError(t, w.WriteReport(sampleReport()))

	rows := readCSV(t, filepath.Join(dir, "statistics.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, "variable", rows[0][0])
	assert.Equal(t, "temperature", rows[1][0])
	assert.Equal(t, "25", rows[1][4]) // mean
	assert.Equal(t, "", rows[1][6], "undefined mode is blank")
}

func TestCSVWriterDailySeries(t *testing.T) {
	dir := t.TempDir()
	w, err := NewCSVWriter(dir)
	require.NoError(t, err)
	require.NoError(t, w.WriteReport(sampleReport()))

	rows := readCSV(t, filepath.Join(dir, "daily_temperature.csv"))
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"date", "mean", "min", "max", "sum"}, rows[0])
	assert.Equal(t, "2023-01-01", rows[1][0])
	assert.Equal(t, "24", rows[1][1])
	assert.Equal(t, "22", rows[1][2])
	assert.Equal(t, "30", rows[1][3])
	assert.Equal(t, "", rows[1][4], "no sum for non-accumulated variable")
}

func TestCSVWriterEpisodes(t *testing.T) {
	dir := t.TempDir()
	w, err := NewCSVWriter(dir)
	require.NoError(t, err)
	require.NoError(t, w.WriteReport(sampleReport()))

	rows := readCSV(t, filepath.Join(dir, "episodes.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, "heat_wave", rows[1][0])
	assert.Equal(t, "2023-01-01", rows[1][1])
	assert.Equal(t, "3", rows[1][3])
}

func TestXLSXWriterWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, NewXLSXWriter().WriteReport(sampleReport(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Statistics")
	assert.Contains(t, sheets, "Monthly")
	assert.Contains(t, sheets, "Daily")
	assert.Contains(t, sheets, "Episodes")
	assert.NotContains(t, sheets, "Sheet1")

	variable, err := f.GetCellValue("Statistics", "A2")
	require.NoError(t, err)
	assert.Equal(t, "temperature", variable)

	mean, err := f.GetCellValue("Statistics", "E2")
	require.NoError(t, err)
	assert.Equal(t, "25", mean)
}
