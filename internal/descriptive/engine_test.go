package descriptive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r0bertgabriel/inmet-belem/domain/core"
	"github.com/r0bertgabriel/inmet-belem/domain/series"
)

func TestSummarizeBasicStats(t *testing.T) {
	e := NewEngine()
	summary, err := e.Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9}, 3)
	require.NoError(t, err)

	assert.Equal(t, 8, summary.Count)
	assert.Equal(t, 3, summary.Missing)
	assert.InDelta(t, 5.0, summary.Mean, 1e-9)
	assert.InDelta(t, 4.5, summary.Median, 1e-9)
	assert.Equal(t, 4.0, summary.Mode)
	assert.Equal(t, 2.0, summary.Min)
	assert.Equal(t, 9.0, summary.Max)
	assert.Equal(t, 7.0, summary.Range)
	assert.InDelta(t, 4.0, summary.Variance*7/8, 1e-9) // population variance 4
	assert.True(t, series.Defined(summary.StdDev))
}

func TestSummarizePercentilesLinearInterpolation(t *testing.T) {
	e := NewEngine(25, 50, 75)
	summary, err := e.Summarize([]float64{1, 2, 3, 4}, 0)
	require.NoError(t, err)

	assert.InDelta(t, 1.75, summary.Percentile(25), 1e-9)
	assert.InDelta(t, 2.5, summary.Percentile(50), 1e-9)
	assert.InDelta(t, 3.25, summary.Percentile(75), 1e-9)
	assert.InDelta(t, 1.5, summary.IQR, 1e-9)
}

func TestSummarizeEmptySeries(t *testing.T) {
	e := NewEngine()
	_, err := e.Summarize(nil, 0)
	assert.True(t, core.IsInsufficientData(err))
}

func TestSummarizeSingletonDispersionUndefined(t *testing.T) {
	e := NewEngine()
	summary, err := e.Summarize([]float64{42.0}, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, 42.0, summary.Mean)
	assert.Equal(t, 42.0, summary.Median)
	assert.Equal(t, 42.0, summary.Percentile(50))
	assert.False(t, series.Defined(summary.StdDev))
	assert.False(t, series.Defined(summary.Variance))
	assert.False(t, series.Defined(summary.CV))
	assert.False(t, series.Defined(summary.Skewness))
	assert.False(t, series.Defined(summary.Kurtosis))
}

func TestSummarizeCVUndefinedNearZeroMean(t *testing.T) {
	e := NewEngine()
	summary, err := e.Summarize([]float64{-1, 0, 1}, 0)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, summary.Mean, 1e-12)
	assert.True(t, series.Defined(summary.StdDev))
	assert.False(t, series.Defined(summary.CV))
}

func TestSummarizeSkewnessSign(t *testing.T) {
	e := NewEngine()

	rightTail, err := e.Summarize([]float64{1, 2, 2, 3, 3, 3, 100}, 0)
	require.NoError(t, err)
	assert.Greater(t, rightTail.Skewness, 0.0)

	leftTail, err := e.Summarize([]float64{-100, 3, 3, 3, 2, 2, 1}, 0)
	require.NoError(t, err)
	assert.Less(t, leftTail.Skewness, 0.0)
}

func TestSummarizeConstantSeries(t *testing.T) {
	e := NewEngine()
	summary, err := e.Summarize([]float64{5, 5, 5, 5}, 0)
	require.NoError(t, err)

	assert.Equal(t, 0.0, summary.StdDev)
	assert.Equal(t, 0.0, summary.Range)
	assert.Equal(t, 5.0, summary.Mode)
	// zero spread leaves the shape measures undefined
	assert.True(t, math.IsNaN(summary.Skewness))
	assert.True(t, math.IsNaN(summary.Kurtosis))
	assert.InDelta(t, 0.0, summary.CV, 1e-9)
}

func TestPercentileValidation(t *testing.T) {
	e := NewEngine()

	_, err := e.Percentile(nil, 90)
	assert.True(t, core.IsInsufficientData(err))

	_, err = e.Percentile([]float64{1, 2}, 0)
	assert.ErrorIs(t, err, core.ErrInvalidPercentile)

	_, err = e.Percentile([]float64{1, 2}, 100)
	assert.ErrorIs(t, err, core.ErrInvalidPercentile)

	v, err := e.Percentile([]float64{30, 31, 32, 33, 34, 29}, 90)
	require.NoError(t, err)
	assert.InDelta(t, 33.5, v, 1e-9)
}

func TestNormalityPValueRange(t *testing.T) {
	e := NewEngine()
	summary, err := e.Summarize([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, summary.NormalityP, 0.0)
	assert.LessOrEqual(t, summary.NormalityP, 1.0)
}
