package series

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatSummaryUndefinedMarshalsAsNull(t *testing.T) {
	s := StatSummary{
		Count: 1, Mean: 42, Median: 42, Mode: 42,
		StdDev: Undefined, Variance: Undefined,
		Min: 42, Max: 42,
		Percentiles: map[float64]float64{50: 42},
		IQR:         0, Skewness: Undefined, Kurtosis: Undefined,
		CV: Undefined, NormalityP: Undefined,
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"std_dev":null`)
	assert.Contains(t, text, `"cv":null`)
	assert.Contains(t, text, `"mean":42`)
	assert.Contains(t, text, `"p50":42`)
	assert.False(t, strings.Contains(text, "NaN"))
}

func TestStatSummaryRoundTrip(t *testing.T) {
	s := StatSummary{
		Count: 3, Missing: 1, Mean: 25.5, Median: 25, Mode: Undefined,
		StdDev: 1.2, Variance: 1.44, Min: 24, Max: 27, Range: 3,
		Percentiles: map[float64]float64{25: 24.5, 75: 26.5},
		IQR:         2, Skewness: 0.1, Kurtosis: Undefined, CV: 4.7,
		NormalityP: 0.3,
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var back StatSummary
	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, s.Count, back.Count)
	assert.Equal(t, s.Missing, back.Missing)
	assert.Equal(t, s.Mean, back.Mean)
	assert.False(t, Defined(back.Mode))
	assert.False(t, Defined(back.Kurtosis))
	assert.Equal(t, 24.5, back.Percentile(25))
	assert.Equal(t, 26.5, back.Q3())
}
