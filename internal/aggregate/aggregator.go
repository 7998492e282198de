// Package aggregate reduces hourly observations to daily series and to
// hourly, monthly, weekday, and period-of-day profiles.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/r0bertgabriel/inmet-belem/domain/core"
	"github.com/r0bertgabriel/inmet-belem/domain/observation"
	"github.com/r0bertgabriel/inmet-belem/domain/series"
	"github.com/r0bertgabriel/inmet-belem/internal/descriptive"
)

// Aggregator groups observations and summarizes the groups with a
// descriptive engine so profile statistics match report statistics.
type Aggregator struct {
	engine *descriptive.Engine
}

// NewAggregator creates an Aggregator backed by the given engine.
func NewAggregator(engine *descriptive.Engine) *Aggregator {
	return &Aggregator{engine: engine}
}

// Daily reduces hourly observations of one variable to one value per
// calendar day. Hours with a missing reading are excluded; a day with no
// present reading produces no entry, for sums as much as for means. The
// result is sorted by date.
func (a *Aggregator) Daily(obs []observation.Observation, v observation.Variable, kind series.AggKind) series.DailySeries {
	byDay := make(map[core.Date][]float64)
	for _, o := range obs {
		val, ok := o.Value(v)
		if !ok {
			continue
		}
		d := o.Date()
		byDay[d] = append(byDay[d], val)
	}

	entries := make([]series.DailyEntry, 0, len(byDay))
	for d, vals := range byDay {
		entries = append(entries, series.DailyEntry{Date: d, Value: reduce(vals, kind)})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	return series.DailySeries{Variable: v, Kind: kind, Entries: entries}
}

func reduce(vals []float64, kind series.AggKind) float64 {
	switch kind {
	case series.AggCount:
		return float64(len(vals))
	case series.AggSum:
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		return sum
	case series.AggMin:
		min := vals[0]
		for _, v := range vals[1:] {
			if v < min {
				min = v
			}
		}
		return min
	case series.AggMax:
		max := vals[0]
		for _, v := range vals[1:] {
			if v > max {
				max = v
			}
		}
		return max
	default: // AggMean
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		return sum / float64(len(vals))
	}
}

// HourlyProfile summarizes a variable per hour of day, keyed "00".."23".
// Hours with no present reading are omitted.
func (a *Aggregator) HourlyProfile(obs []observation.Observation, v observation.Variable) series.PeriodProfile {
	groups := make(map[int][]float64)
	for _, o := range obs {
		val, ok := o.Value(v)
		if !ok {
			continue
		}
		groups[o.Hour()] = append(groups[o.Hour()], val)
	}

	profile := series.PeriodProfile{Variable: v}
	for h := 0; h < 24; h++ {
		vals, ok := groups[h]
		if !ok {
			continue
		}
		summary, err := a.engine.Summarize(vals, 0)
		if err != nil {
			continue
		}
		profile.Entries = append(profile.Entries, series.ProfileEntry{
			Key:     fmt.Sprintf("%02d", h),
			Summary: summary,
		})
	}
	return profile
}

// MonthlyProfile summarizes a variable per calendar month over all
// hourly observations in the month, keyed "01".."12". Months absent from
// the data are omitted.
func (a *Aggregator) MonthlyProfile(obs []observation.Observation, v observation.Variable) series.PeriodProfile {
	groups := make(map[int][]float64)
	for _, o := range obs {
		val, ok := o.Value(v)
		if !ok {
			continue
		}
		m := int(o.Timestamp.Month())
		groups[m] = append(groups[m], val)
	}

	profile := series.PeriodProfile{Variable: v}
	for m := 1; m <= 12; m++ {
		vals, ok := groups[m]
		if !ok {
			continue
		}
		summary, err := a.engine.Summarize(vals, 0)
		if err != nil {
			continue
		}
		profile.Entries = append(profile.Entries, series.ProfileEntry{
			Key:     fmt.Sprintf("%02d", m),
			Summary: summary,
		})
	}
	return profile
}

// WeekdayProfile summarizes a variable per weekday, keyed by the English
// weekday name, ordered Monday through Sunday.
func (a *Aggregator) WeekdayProfile(obs []observation.Observation, v observation.Variable) series.PeriodProfile {
	groups := make(map[time.Weekday][]float64)
	for _, o := range obs {
		val, ok := o.Value(v)
		if !ok {
			continue
		}
		groups[o.Timestamp.Weekday()] = append(groups[o.Timestamp.Weekday()], val)
	}

	order := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
	profile := series.PeriodProfile{Variable: v}
	for _, wd := range order {
		vals, ok := groups[wd]
		if !ok {
			continue
		}
		summary, err := a.engine.Summarize(vals, 0)
		if err != nil {
			continue
		}
		profile.Entries = append(profile.Entries, series.ProfileEntry{
			Key:     wd.String(),
			Summary: summary,
		})
	}
	return profile
}

// PeriodOfDayProfile summarizes a variable per named hour bucket, in
// bucket order. Buckets with no present reading are omitted.
func (a *Aggregator) PeriodOfDayProfile(obs []observation.Observation, v observation.Variable, buckets []series.HourBucket) series.PeriodProfile {
	groups := make(map[string][]float64, len(buckets))
	for _, o := range obs {
		val, ok := o.Value(v)
		if !ok {
			continue
		}
		for _, b := range buckets {
			if b.Contains(o.Hour()) {
				groups[b.Name] = append(groups[b.Name], val)
				break
			}
		}
	}

	profile := series.PeriodProfile{Variable: v}
	for _, b := range buckets {
		vals, ok := groups[b.Name]
		if !ok {
			continue
		}
		summary, err := a.engine.Summarize(vals, 0)
		if err != nil {
			continue
		}
		profile.Entries = append(profile.Entries, series.ProfileEntry{
			Key:     b.Name,
			Summary: summary,
		})
	}
	return profile
}

// Amplitude computes the daily temperature swing, max minus min, one
// entry per day with at least one present reading.
func (a *Aggregator) Amplitude(obs []observation.Observation, v observation.Variable) series.DailySeries {
	maxSeries := a.Daily(obs, v, series.AggMax)
	minSeries := a.Daily(obs, v, series.AggMin)

	minByDate := make(map[core.Date]float64, minSeries.Len())
	for _, e := range minSeries.Entries {
		minByDate[e.Date] = e.Value
	}

	entries := make([]series.DailyEntry, 0, maxSeries.Len())
	for _, e := range maxSeries.Entries {
		lo, ok := minByDate[e.Date]
		if !ok {
			continue
		}
		entries = append(entries, series.DailyEntry{Date: e.Date, Value: e.Value - lo})
	}
	return series.DailySeries{Variable: v, Kind: series.AggMax, Entries: entries}
}
