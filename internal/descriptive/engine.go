// Package descriptive computes the full statistical profile of a numeric
// series: central tendency, dispersion, shape, and percentiles. It is the
// single place percentile semantics are defined, so every consumer
// (profiles, extreme-event thresholds, reports) sees the same numbers.
package descriptive

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/r0bertgabriel/inmet-belem/domain/core"
	"github.com/r0bertgabriel/inmet-belem/domain/series"
)

// DefaultPercentiles are the percentiles reported when none are requested.
var DefaultPercentiles = []float64{1, 5, 25, 50, 75, 95, 99}

// meanEpsilon bounds how close to zero a mean may be before the
// coefficient of variation is reported as undefined.
const meanEpsilon = 1e-9

// Engine computes StatSummary values. It is stateless and safe for
// concurrent use.
type Engine struct {
	percentiles []float64
}

// NewEngine creates an engine reporting the given percentiles, or
// DefaultPercentiles when none are given.
func NewEngine(percentiles ...float64) *Engine {
	if len(percentiles) == 0 {
		percentiles = DefaultPercentiles
	}
	out := make([]float64, len(percentiles))
	copy(out, percentiles)
	sort.Float64s(out)
	return &Engine{percentiles: out}
}

// Summarize computes the full statistical profile of the present values
// of a series. The missing argument is the count of excluded missing
// readings, reported alongside the summary. An empty series fails with
// ErrInsufficientData; a singleton series reports its dispersion and
// shape measures as the undefined sentinel.
func (e *Engine) Summarize(values []float64, missing int) (series.StatSummary, error) {
	n := len(values)
	if n == 0 {
		return series.StatSummary{}, core.NewInsufficientDataError(0, 1)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, _ := stats.Mean(sorted)
	median, _ := stats.Median(sorted)
	min := sorted[0]
	max := sorted[n-1]

	summary := series.StatSummary{
		Count:       n,
		Missing:     missing,
		Mean:        mean,
		Median:      median,
		Mode:        modeOf(values),
		StdDev:      series.Undefined,
		Variance:    series.Undefined,
		Min:         min,
		Max:         max,
		Range:       max - min,
		Percentiles: make(map[float64]float64, len(e.percentiles)),
		IQR:         series.Undefined,
		Skewness:    series.Undefined,
		Kurtosis:    series.Undefined,
		CV:          series.Undefined,
		NormalityP:  series.Undefined,
	}

	for _, p := range e.percentiles {
		summary.Percentiles[p] = quantileLinear(sorted, p)
	}
	q1 := quantileLinear(sorted, 25)
	q3 := quantileLinear(sorted, 75)
	summary.IQR = q3 - q1

	if n < 2 {
		return summary, nil
	}

	stdDev, _ := stats.StandardDeviationSample(sorted)
	variance, _ := stats.SampleVariance(sorted)
	summary.StdDev = stdDev
	summary.Variance = variance

	if math.Abs(mean) > meanEpsilon {
		summary.CV = stdDev / mean * 100
	}

	if n >= 3 && stdDev > 0 {
		summary.Skewness = sampleSkewness(values, mean, stdDev)
	}
	if n >= 4 && stdDev > 0 {
		summary.Kurtosis = sampleExcessKurtosis(values, mean, stdDev)
	}
	if series.Defined(summary.Skewness) && series.Defined(summary.Kurtosis) {
		summary.NormalityP = normalityPValue(summary.Skewness, summary.Kurtosis)
	}

	return summary, nil
}

// Percentile computes one percentile of a series using the same linear
// interpolation as Summarize. It fails with ErrInsufficientData on an
// empty series and ErrInvalidPercentile outside (0, 100).
func (e *Engine) Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, core.NewInsufficientDataError(0, 1)
	}
	if p <= 0 || p >= 100 {
		return 0, core.ErrInvalidPercentile
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return quantileLinear(sorted, p), nil
}

// quantileLinear interpolates linearly between order statistics
// (Hyndman-Fan type 7, the pandas/NumPy default). Neither the
// montanaflynn nearest-rank percentile nor gonum's cumulant kinds
// reproduce these values, and quartiles are contract-visible output, so
// the interpolation is written out here. Input must be sorted.
func quantileLinear(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := p / 100 * float64(n-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// modeOf returns the first mode encountered in input order; ties resolve
// to the earliest value. A series with no repeated value has no mode.
func modeOf(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	best := series.Undefined
	bestCount := 1
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	if bestCount == 1 && len(values) == 1 {
		return values[0]
	}
	return best
}

// sampleSkewness computes the adjusted Fisher-Pearson coefficient with
// small-sample bias correction.
func sampleSkewness(values []float64, mean, stdDev float64) float64 {
	n := float64(len(values))
	sum := 0.0
	for _, x := range values {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return sum / n * math.Sqrt(n*(n-1)) / (n - 2)
}

// sampleExcessKurtosis computes bias-corrected excess kurtosis (0 for a
// normal distribution).
func sampleExcessKurtosis(values []float64, mean, stdDev float64) float64 {
	n := float64(len(values))
	sum := 0.0
	for _, x := range values {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}
	g2 := sum/n - 3
	return ((n - 1) / ((n - 2) * (n - 3))) * ((n+1)*g2 + 6)
}

// normalityPValue approximates a normality test p-value from skewness
// and excess kurtosis via a chi-squared statistic. It is a coarse check
// meant for report annotation, not formal inference.
func normalityPValue(skewness, excessKurtosis float64) float64 {
	stat := math.Abs(skewness) + math.Abs(excessKurtosis)/2
	chi := distuv.ChiSquared{K: 2}
	return 1 - chi.CDF(stat*stat)
}
