// Package series defines the aggregated value types produced by the
// analysis engine: daily series, cyclical period profiles, and the
// descriptive statistics bundle.
package series

import (
	"math"

	"github.com/r0bertgabriel/inmet-belem/domain/core"
	"github.com/r0bertgabriel/inmet-belem/domain/observation"
)

// AggKind selects how hourly readings are reduced to one daily value.
type AggKind string

const (
	AggMean  AggKind = "mean"
	AggMin   AggKind = "min"
	AggMax   AggKind = "max"
	AggSum   AggKind = "sum"
	AggCount AggKind = "count"
)

// DailyEntry is one (date, value) pair of a daily series.
type DailyEntry struct {
	Date  core.Date `json:"date"`
	Value float64   `json:"value"`
}

// DailySeries holds at most one aggregated value per calendar date, in
// date order. Missing days are absent, never zero.
type DailySeries struct {
	Variable observation.Variable `json:"variable"`
	Kind     AggKind              `json:"kind"`
	Entries  []DailyEntry         `json:"entries"`
}

// Len returns the number of days present.
func (s DailySeries) Len() int { return len(s.Entries) }

// Values returns the entry values in date order.
func (s DailySeries) Values() []float64 {
	out := make([]float64, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Value
	}
	return out
}

// Sorted reports whether entries are strictly increasing by date.
func (s DailySeries) Sorted() bool {
	for i := 1; i < len(s.Entries); i++ {
		if !s.Entries[i-1].Date.Before(s.Entries[i].Date) {
			return false
		}
	}
	return true
}

// Undefined is the sentinel for statistics that cannot be computed
// (dispersion on a singleton series, CV with near-zero mean). It is NaN
// so it can never be confused with a computed zero.
var Undefined = math.NaN()

// Defined reports whether a statistic carries a computed value.
func Defined(x float64) bool { return !math.IsNaN(x) }

// StatSummary is an immutable bundle of descriptive statistics for one
// numeric series. Undefined fields hold the NaN sentinel.
type StatSummary struct {
	Count   int `json:"count"`
	Missing int `json:"missing"`

	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Mode   float64 `json:"mode"`

	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`

	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Range float64 `json:"range"`

	// Percentiles maps requested percentile (0-100) to its value,
	// computed with linear interpolation between order statistics.
	Percentiles map[float64]float64 `json:"percentiles"`
	IQR         float64             `json:"iqr"`

	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
	// CV is the coefficient of variation, std/mean*100.
	CV float64 `json:"cv"`

	// NormalityP is an approximate p-value for a skewness/kurtosis
	// based normality check.
	NormalityP float64 `json:"normality_p"`
}

// Percentile returns the requested percentile value, or the Undefined
// sentinel when it was not computed.
func (s StatSummary) Percentile(p float64) float64 {
	if v, ok := s.Percentiles[p]; ok {
		return v
	}
	return Undefined
}

// Q1 returns the 25th percentile.
func (s StatSummary) Q1() float64 { return s.Percentile(25) }

// Q3 returns the 75th percentile.
func (s StatSummary) Q3() float64 { return s.Percentile(75) }

// ProfileEntry pairs one cyclical key (an hour, month, weekday, or
// day-period name) with the summary of the values observed at it.
type ProfileEntry struct {
	Key     string      `json:"key"`
	Summary StatSummary `json:"summary"`
}

// PeriodProfile is an ordered mapping from cyclical key to StatSummary.
// Keys with zero observations are omitted, never fabricated as zero.
type PeriodProfile struct {
	Variable observation.Variable `json:"variable"`
	Entries  []ProfileEntry       `json:"entries"`
}

// Get returns the summary for a key and whether the key was observed.
func (p PeriodProfile) Get(key string) (StatSummary, bool) {
	for _, e := range p.Entries {
		if e.Key == key {
			return e.Summary, true
		}
	}
	return StatSummary{}, false
}

// Len returns the number of observed keys.
func (p PeriodProfile) Len() int { return len(p.Entries) }

// HourBucket is a named half-open hour range [Start, End) used by the
// period-of-day profile. A boundary hour belongs to the bucket that
// starts at it.
type HourBucket struct {
	Name  string
	Start int
	End   int
}

// Contains reports whether the hour falls inside the bucket.
func (b HourBucket) Contains(hour int) bool {
	return hour >= b.Start && hour < b.End
}

// DefaultDayPeriods returns the four Belém-station day periods used by
// the reference reports.
func DefaultDayPeriods() []HourBucket {
	return []HourBucket{
		{Name: "madrugada", Start: 0, End: 6},
		{Name: "manha", Start: 6, End: 12},
		{Name: "tarde", Start: 12, End: 18},
		{Name: "noite", Start: 18, End: 24},
	}
}
