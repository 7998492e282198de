// Package episode defines detected extreme-weather events: contiguous
// runs of days whose aggregated value crosses a percentile threshold.
package episode

import (
	"github.com/r0bertgabriel/inmet-belem/domain/core"
)

// Direction selects which tail of the distribution an episode lives in.
type Direction string

const (
	// Hot episodes are runs at or above the threshold (heat waves).
	Hot Direction = "hot"
	// Cold episodes are runs at or below the threshold (cold waves).
	Cold Direction = "cold"
)

// Episode is one contiguous run of qualifying days. It is constructed
// only by the detector and never merged or split afterwards.
type Episode struct {
	Start core.Date `json:"start"`
	End   core.Date `json:"end"`
	// Duration is the run length in days, (End - Start) + 1.
	Duration int `json:"duration"`
	// Extreme is the most extreme value attained during the run: the
	// maximum for hot episodes, the minimum for cold ones.
	Extreme float64 `json:"extreme"`
	// Mean is the average value over the run.
	Mean float64 `json:"mean"`
}
