package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r0bertgabriel/inmet-belem/domain/core"
	"github.com/r0bertgabriel/inmet-belem/domain/observation"
	"github.com/r0bertgabriel/inmet-belem/internal"
	"github.com/r0bertgabriel/inmet-belem/internal/descriptive"
)

func newService() *AnalysisService {
	return NewAnalysisService(descriptive.NewEngine(), 3, 90, 10, internal.NewLogger(internal.LogLevelError))
}

// yearOfRecords fabricates an hourly year with a weekly temperature
// cycle, a sustained warm spike in July, and a cool dip in January. The
// weekly cycle keeps ordinary top-decile days isolated so only the
// spikes form consecutive runs.
func yearOfRecords() []observation.RawRecord {
	var records []observation.RawRecord
	for month := 1; month <= 12; month++ {
		for day := 1; day <= 28; day++ {
			for hour := 0; hour < 24; hour += 3 {
				temp := 25.0 + float64(day%7) + float64(hour%12)/2
				if month == 7 && day >= 10 && day <= 14 {
					temp += 12 // sustained heat
				}
				if month == 1 && day >= 5 && day <= 9 {
					temp -= 12 // sustained cold
				}
				records = append(records, observation.RawRecord{
					Date: fmt.Sprintf("2023/%02d/%02d", month, day),
					Hour: fmt.Sprintf("%02d00 UTC", hour),
					Values: map[observation.Variable]float64{
						observation.Temperature:   temp,
						observation.Humidity:      95 - temp,
						observation.Precipitation: 0.5,
					},
				})
			}
		}
	}
	return records
}

func TestRunProducesFullReport(t *testing.T) {
	report, err := newService().Run(context.Background(), yearOfRecords())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.PeriodStart.IsZero())
	assert.True(t, report.PeriodStart.Before(report.PeriodEnd))
	assert.Equal(t, 0, report.Rejected)

	require.Contains(t, report.Variables, observation.Temperature)
	temp := report.Variables[observation.Temperature]
	assert.Greater(t, temp.Summary.Count, 0)
	assert.Equal(t, 12*28, temp.DailyMean.Len())
	assert.True(t, temp.DailyMean.Sorted())
	assert.Nil(t, temp.DailySum, "temperature is not accumulated")

	precip := report.Variables[observation.Precipitation]
	require.NotNil(t, precip.DailySum)
	assert.Equal(t, 12*28, precip.DailySum.Len())
}

func TestRunDetectsExtremeEpisodes(t *testing.T) {
	report, err := newService().Run(context.Background(), yearOfRecords())
	require.NoError(t, err)

	require.NotEmpty(t, report.HeatWaves.Episodes, "July spike should register")
	assert.Equal(t, 5, report.HeatWaves.Episodes[0].Duration)
	assert.True(t, report.HeatWaves.Episodes[0].Start.Equal(core.NewDate(2023, 7, 10)))

	require.NotEmpty(t, report.ColdSpells.Episodes, "January dip should register")
	assert.Equal(t, 5, report.ColdSpells.Episodes[0].Duration)
}

func TestRunRanksHottestAndColdestDays(t *testing.T) {
	report, err := newService().Run(context.Background(), yearOfRecords())
	require.NoError(t, err)

	require.Len(t, report.HottestDays, 5)
	require.Len(t, report.ColdestDays, 5)
	assert.GreaterOrEqual(t, report.HottestDays[0].Value, report.HottestDays[4].Value)
	assert.LessOrEqual(t, report.ColdestDays[0].Value, report.ColdestDays[4].Value)
	assert.Equal(t, 7, int(report.HottestDays[0].Date.Month()))
	assert.Equal(t, 1, int(report.ColdestDays[0].Date.Month()))
}

func TestRunSkipsVariablesWithoutReadings(t *testing.T) {
	report, err := newService().Run(context.Background(), yearOfRecords())
	require.NoError(t, err)

	_, hasWind := report.Variables[observation.WindSpeed]
	assert.False(t, hasWind)
	assert.NotEmpty(t, report.Skipped)
}

func TestRunCorrelationsIncludeInverseHumidity(t *testing.T) {
	report, err := newService().Run(context.Background(), yearOfRecords())
	require.NoError(t, err)

	r := report.Correlations.At(observation.Temperature, observation.Humidity)
	assert.Less(t, r, -0.9, "humidity was constructed as 95-temp")
}

func TestRunEmptyInput(t *testing.T) {
	_, err := newService().Run(context.Background(), nil)
	assert.True(t, core.IsInsufficientData(err))
}
