package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/r0bertgabriel/inmet-belem/app"
	"github.com/r0bertgabriel/inmet-belem/domain/series"
	apperrors "github.com/r0bertgabriel/inmet-belem/internal/errors"
)

// XLSXWriter renders a report as a single workbook with one sheet per
// section.
type XLSXWriter struct{}

// NewXLSXWriter creates an XLSXWriter.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// WriteReport writes the workbook to path.
func (w *XLSXWriter) WriteReport(report *app.AnalysisReport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := w.statisticsSheet(f, report); err != nil {
		return err
	}
	if err := w.monthlySheet(f, report); err != nil {
		return err
	}
	if err := w.dailySheet(f, report); err != nil {
		return err
	}
	if err := w.episodesSheet(f, report); err != nil {
		return err
	}

	// drop the default sheet left over from NewFile
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return apperrors.ExportError("save workbook", err)
	}
	return nil
}

func (w *XLSXWriter) statisticsSheet(f *excelize.File, report *app.AnalysisReport) error {
	const sheet = "Statistics"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.ExportError("create statistics sheet", err)
	}

	header := []interface{}{
		"variable", "unit", "count", "missing", "mean", "median",
		"std_dev", "min", "max", "p25", "p50", "p75", "skewness", "kurtosis", "cv",
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	row := 2
	for _, v := range sortedVariables(report) {
		s := report.Variables[v].Summary
		values := []interface{}{
			string(v), v.Unit(), s.Count, s.Missing,
			numCell(s.Mean), numCell(s.Median), numCell(s.StdDev),
			numCell(s.Min), numCell(s.Max),
			numCell(s.Q1()), numCell(s.Percentile(50)), numCell(s.Q3()),
			numCell(s.Skewness), numCell(s.Kurtosis), numCell(s.CV),
		}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func (w *XLSXWriter) monthlySheet(f *excelize.File, report *app.AnalysisReport) error {
	const sheet = "Monthly"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.ExportError("create monthly sheet", err)
	}
	if err := setRow(f, sheet, 1, []interface{}{"variable", "month", "count", "mean", "min", "max", "std_dev"}); err != nil {
		return err
	}
	row := 2
	for _, v := range sortedVariables(report) {
		for _, e := range report.Variables[v].MonthlyProfile.Entries {
			values := []interface{}{
				string(v), e.Key, e.Summary.Count,
				numCell(e.Summary.Mean), numCell(e.Summary.Min),
				numCell(e.Summary.Max), numCell(e.Summary.StdDev),
			}
			if err := setRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (w *XLSXWriter) dailySheet(f *excelize.File, report *app.AnalysisReport) error {
	const sheet = "Daily"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.ExportError("create daily sheet", err)
	}
	if err := setRow(f, sheet, 1, []interface{}{"variable", "date", "mean", "min", "max"}); err != nil {
		return err
	}
	row := 2
	for _, v := range sortedVariables(report) {
		a := report.Variables[v]
		minByDate := indexByDate(a.DailyMin)
		maxByDate := indexByDate(a.DailyMax)
		for _, e := range a.DailyMean.Entries {
			key := e.Date.String()
			values := []interface{}{
				string(v), key, numCell(e.Value),
				mapCell(minByDate, key), mapCell(maxByDate, key),
			}
			if err := setRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (w *XLSXWriter) episodesSheet(f *excelize.File, report *app.AnalysisReport) error {
	const sheet = "Episodes"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.ExportError("create episodes sheet", err)
	}
	if err := setRow(f, sheet, 1, []interface{}{"kind", "start", "end", "duration_days", "extreme", "mean"}); err != nil {
		return err
	}
	row := 2
	for _, e := range report.HeatWaves.Episodes {
		if err := setRow(f, sheet, row, []interface{}{"heat_wave", e.Start.String(), e.End.String(), e.Duration, e.Extreme, e.Mean}); err != nil {
			return err
		}
		row++
	}
	for _, e := range report.ColdSpells.Episodes {
		if err := setRow(f, sheet, row, []interface{}{"cold_spell", e.Start.String(), e.End.String(), e.Duration, e.Extreme, e.Mean}); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return apperrors.ExportError("compute cell name", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return apperrors.ExportError(fmt.Sprintf("write %s row %d", sheet, row), err)
	}
	return nil
}

// numCell renders a statistic for a worksheet cell, nil for undefined
// so the cell stays blank instead of holding NaN.
func numCell(v float64) interface{} {
	if !series.Defined(v) {
		return nil
	}
	return v
}

func mapCell(m map[string]float64, key string) interface{} {
	if v, ok := m[key]; ok {
		return v
	}
	return nil
}
