// Package app orchestrates one full analysis run: normalize the raw
// records, then fan out per-variable aggregation, statistics, extreme
// event detection, and close with the cross-variable correlations.
package app

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/r0bertgabriel/inmet-belem/domain/core"
	"github.com/r0bertgabriel/inmet-belem/domain/episode"
	"github.com/r0bertgabriel/inmet-belem/domain/observation"
	"github.com/r0bertgabriel/inmet-belem/domain/series"
	"github.com/r0bertgabriel/inmet-belem/internal"
	"github.com/r0bertgabriel/inmet-belem/internal/aggregate"
	"github.com/r0bertgabriel/inmet-belem/internal/correlation"
	"github.com/r0bertgabriel/inmet-belem/internal/descriptive"
	"github.com/r0bertgabriel/inmet-belem/internal/extremes"
	"github.com/r0bertgabriel/inmet-belem/internal/timeindex"
)

// rankedDays is how many hottest and coldest days the report carries.
const rankedDays = 5

// VariableAnalysis bundles everything computed for one variable.
type VariableAnalysis struct {
	Variable observation.Variable `json:"variable"`
	Summary  series.StatSummary   `json:"summary"`

	DailyMean series.DailySeries `json:"daily_mean"`
	DailyMin  series.DailySeries `json:"daily_min"`
	DailyMax  series.DailySeries `json:"daily_max"`
	// DailySum is populated only for accumulated variables such as
	// precipitation and radiation.
	DailySum *series.DailySeries `json:"daily_sum,omitempty"`

	HourlyProfile  series.PeriodProfile `json:"hourly_profile"`
	MonthlyProfile series.PeriodProfile `json:"monthly_profile"`
	WeekdayProfile series.PeriodProfile `json:"weekday_profile"`
	PeriodProfile  series.PeriodProfile `json:"period_profile"`
}

// RankedDay is one entry of the hottest or coldest day ranking.
type RankedDay struct {
	Date  core.Date `json:"date"`
	Value float64   `json:"value"`
}

// AnalysisReport is the complete outcome of one run, the single
// structure every export and transport surface renders from.
type AnalysisReport struct {
	RunID       core.RunID `json:"run_id"`
	GeneratedAt time.Time  `json:"generated_at"`

	PeriodStart core.Date `json:"period_start"`
	PeriodEnd   core.Date `json:"period_end"`

	RecordCount int `json:"record_count"`
	Rejected    int `json:"rejected"`
	Replaced    int `json:"replaced"`
	GapCount    int `json:"gap_count"`

	Variables map[observation.Variable]*VariableAnalysis `json:"variables"`

	HeatWaves  extremes.Detection `json:"heat_waves"`
	ColdSpells extremes.Detection `json:"cold_spells"`

	Correlations correlation.Matrix `json:"correlations"`

	HottestDays []RankedDay `json:"hottest_days"`
	ColdestDays []RankedDay `json:"coldest_days"`

	// Skipped records variables or steps left out for lack of data.
	Skipped []string `json:"skipped,omitempty"`
}

// AnalysisService wires the engines together behind one Run call.
type AnalysisService struct {
	normalizer *timeindex.Normalizer
	engine     *descriptive.Engine
	aggregator *aggregate.Aggregator
	detector   *extremes.Detector

	heatPercentile float64
	coldPercentile float64

	logger *internal.Logger
}

// NewAnalysisService creates the service with the given extreme event
// percentiles.
func NewAnalysisService(engine *descriptive.Engine, minRun int, heatPercentile, coldPercentile float64, logger *internal.Logger) *AnalysisService {
	return &AnalysisService{
		normalizer:     timeindex.NewNormalizer(),
		engine:         engine,
		aggregator:     aggregate.NewAggregator(engine),
		detector:       extremes.NewDetector(engine, minRun),
		heatPercentile: heatPercentile,
		coldPercentile: coldPercentile,
		logger:         logger,
	}
}

// Run executes the full analysis over raw records. Variables without
// enough data are skipped and noted on the report rather than failing
// the run; only an empty normalized series is fatal.
func (s *AnalysisService) Run(ctx context.Context, records []observation.RawRecord) (*AnalysisReport, error) {
	normalized := s.normalizer.Normalize(records)
	if len(normalized.Observations) == 0 {
		return nil, core.NewInsufficientDataError(0, 1)
	}
	obs := normalized.Observations
	s.logger.Info("normalized %d records: %d rejected, %d replaced, %d gaps",
		len(obs), normalized.Rejected, normalized.Replaced, normalized.Gaps.Count())

	report := &AnalysisReport{
		RunID:       core.NewRunID(),
		GeneratedAt: time.Now().UTC(),
		PeriodStart: obs[0].Date(),
		PeriodEnd:   obs[len(obs)-1].Date(),
		RecordCount: len(obs),
		Rejected:    normalized.Rejected,
		Replaced:    normalized.Replaced,
		GapCount:    normalized.Gaps.Count(),
		Variables:   make(map[observation.Variable]*VariableAnalysis),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, v := range observation.AllVariables() {
		v := v
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			analysis, err := s.analyzeVariable(obs, v)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if core.IsInsufficientData(err) {
					report.Skipped = append(report.Skipped, fmt.Sprintf("%s: no usable readings", v))
					return nil
				}
				return fmt.Errorf("analyze %s: %w", v, err)
			}
			report.Variables[v] = analysis
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(report.Skipped)

	s.detectExtremes(report)
	s.rankDays(report)

	daily := make(map[observation.Variable]series.DailySeries, len(report.Variables))
	for v, a := range report.Variables {
		daily[v] = a.DailyMean
	}
	report.Correlations = correlation.Compute(daily, observation.AllVariables())

	s.logger.Info("run %s complete: %d variables, %d heat waves, %d cold spells",
		report.RunID, len(report.Variables), len(report.HeatWaves.Episodes), len(report.ColdSpells.Episodes))
	return report, nil
}

func (s *AnalysisService) analyzeVariable(obs []observation.Observation, v observation.Variable) (*VariableAnalysis, error) {
	values := make([]float64, 0, len(obs))
	missing := 0
	for _, o := range obs {
		if val, ok := o.Value(v); ok {
			values = append(values, val)
		} else {
			missing++
		}
	}

	summary, err := s.engine.Summarize(values, missing)
	if err != nil {
		return nil, err
	}

	analysis := &VariableAnalysis{
		Variable:       v,
		Summary:        summary,
		DailyMean:      s.aggregator.Daily(obs, v, series.AggMean),
		DailyMin:       s.aggregator.Daily(obs, v, series.AggMin),
		DailyMax:       s.aggregator.Daily(obs, v, series.AggMax),
		HourlyProfile:  s.aggregator.HourlyProfile(obs, v),
		MonthlyProfile: s.aggregator.MonthlyProfile(obs, v),
		WeekdayProfile: s.aggregator.WeekdayProfile(obs, v),
		PeriodProfile:  s.aggregator.PeriodOfDayProfile(obs, v, series.DefaultDayPeriods()),
	}
	if v.IsAccumulated() {
		sum := s.aggregator.Daily(obs, v, series.AggSum)
		analysis.DailySum = &sum
	}
	return analysis, nil
}

// detectExtremes runs heat wave detection over daily maxima and cold
// spell detection over daily minima of temperature.
func (s *AnalysisService) detectExtremes(report *AnalysisReport) {
	temp, ok := report.Variables[observation.Temperature]
	if !ok {
		report.Skipped = append(report.Skipped, "extreme events: temperature unavailable")
		return
	}

	heat, err := s.detector.Detect(temp.DailyMax, episode.Hot, s.heatPercentile)
	if err != nil {
		report.Skipped = append(report.Skipped, fmt.Sprintf("heat waves: %v", err))
	} else {
		report.HeatWaves = heat
	}

	cold, err := s.detector.Detect(temp.DailyMin, episode.Cold, s.coldPercentile)
	if err != nil {
		report.Skipped = append(report.Skipped, fmt.Sprintf("cold spells: %v", err))
	} else {
		report.ColdSpells = cold
	}
}

func (s *AnalysisService) rankDays(report *AnalysisReport) {
	temp, ok := report.Variables[observation.Temperature]
	if !ok {
		return
	}
	report.HottestDays = topDays(temp.DailyMax, true)
	report.ColdestDays = topDays(temp.DailyMin, false)
}

func topDays(ds series.DailySeries, hottest bool) []RankedDay {
	ranked := make([]RankedDay, 0, ds.Len())
	for _, e := range ds.Entries {
		ranked = append(ranked, RankedDay{Date: e.Date, Value: e.Value})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if hottest {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].Value < ranked[j].Value
	})
	if len(ranked) > rankedDays {
		ranked = ranked[:rankedDays]
	}
	return ranked
}
