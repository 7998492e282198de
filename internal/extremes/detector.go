// Package extremes finds runs of consecutive days beyond a percentile
// threshold: heat waves above a high percentile, cold spells below a low
// one.
package extremes

import (
	"github.com/r0bertgabriel/inmet-belem/domain/core"
	"github.com/r0bertgabriel/inmet-belem/domain/episode"
	"github.com/r0bertgabriel/inmet-belem/domain/series"
	"github.com/r0bertgabriel/inmet-belem/internal/descriptive"
)

// DefaultMinRunLength is the minimum number of consecutive qualifying
// days that counts as an episode.
const DefaultMinRunLength = 3

// Detection is the outcome of one detector pass: the threshold applied
// and the episodes found.
type Detection struct {
	Direction  episode.Direction `json:"direction"`
	Percentile float64           `json:"percentile"`
	Threshold  float64           `json:"threshold"`
	MinRun     int               `json:"min_run"`
	Episodes   []episode.Episode `json:"episodes"`
}

// Detector scans a daily series for extreme runs. The threshold is
// computed once over the whole series, never over a window.
type Detector struct {
	engine *descriptive.Engine
	minRun int
}

// NewDetector creates a Detector using the engine's percentile method.
// A minRun below 1 falls back to DefaultMinRunLength.
func NewDetector(engine *descriptive.Engine, minRun int) *Detector {
	if minRun < 1 {
		minRun = DefaultMinRunLength
	}
	return &Detector{engine: engine, minRun: minRun}
}

// Detect computes the percentile threshold over the entire series and
// scans for runs. For Hot, days at or above the threshold qualify; for
// Cold, days at or below it. A series shorter than the minimum run
// length fails with ErrInsufficientData.
func (d *Detector) Detect(ds series.DailySeries, dir episode.Direction, percentile float64) (Detection, error) {
	if ds.Len() < d.minRun {
		return Detection{}, core.NewInsufficientDataError(ds.Len(), d.minRun)
	}
	threshold, err := d.engine.Percentile(ds.Values(), percentile)
	if err != nil {
		return Detection{}, err
	}
	det, err := d.DetectWithThreshold(ds, dir, threshold)
	if err != nil {
		return Detection{}, err
	}
	det.Percentile = percentile
	return det, nil
}

// DetectWithThreshold scans with an explicit cutoff instead of deriving
// one. Consecutive means calendar-consecutive: a date gap breaks a run
// even when the days on both sides qualify.
func (d *Detector) DetectWithThreshold(ds series.DailySeries, dir episode.Direction, threshold float64) (Detection, error) {
	if ds.Len() < d.minRun {
		return Detection{}, core.NewInsufficientDataError(ds.Len(), d.minRun)
	}
	if !ds.Sorted() {
		return Detection{}, core.ErrUnsortedSeries
	}

	det := Detection{Direction: dir, Threshold: threshold, MinRun: d.minRun}

	var run []series.DailyEntry
	flush := func() {
		if len(run) >= d.minRun {
			det.Episodes = append(det.Episodes, buildEpisode(run, dir))
		}
		run = run[:0]
	}

	for _, e := range ds.Entries {
		if !qualifies(e.Value, dir, threshold) {
			flush()
			continue
		}
		if len(run) > 0 && !run[len(run)-1].Date.Next().Equal(e.Date) {
			flush()
		}
		run = append(run, e)
	}
	flush()

	return det, nil
}

func qualifies(v float64, dir episode.Direction, threshold float64) bool {
	if dir == episode.Cold {
		return v <= threshold
	}
	return v >= threshold
}

func buildEpisode(run []series.DailyEntry, dir episode.Direction) episode.Episode {
	extreme := run[0].Value
	sum := 0.0
	for _, e := range run {
		sum += e.Value
		if dir == episode.Cold {
			if e.Value < extreme {
				extreme = e.Value
			}
		} else if e.Value > extreme {
			extreme = e.Value
		}
	}
	return episode.Episode{
		Start:    run[0].Date,
		End:      run[len(run)-1].Date,
		Duration: len(run),
		Extreme:  extreme,
		Mean:     sum / float64(len(run)),
	}
}
