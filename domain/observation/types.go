// Package observation defines the raw and normalized record types produced
// by the ingestion layer and consumed by every analysis component.
package observation

import (
	"time"

	"github.com/r0bertgabriel/inmet-belem/domain/core"
)

// Variable names one measured meteorological quantity.
type Variable string

const (
	Temperature   Variable = "temperature"
	DewPoint      Variable = "dew_point"
	Humidity      Variable = "humidity"
	Pressure      Variable = "pressure"
	WindSpeed     Variable = "wind_speed"
	WindDirection Variable = "wind_direction"
	WindGust      Variable = "wind_gust"
	Radiation     Variable = "radiation"
	Precipitation Variable = "precipitation"
)

// AllVariables returns every known variable in stable report order.
func AllVariables() []Variable {
	return []Variable{
		Temperature, DewPoint, Humidity, Pressure,
		WindSpeed, WindDirection, WindGust, Radiation, Precipitation,
	}
}

// Unit returns the measurement unit used in INMET exports.
func (v Variable) Unit() string {
	switch v {
	case Temperature, DewPoint:
		return "°C"
	case Humidity:
		return "%"
	case Pressure:
		return "mB"
	case WindSpeed, WindGust:
		return "m/s"
	case WindDirection:
		return "°"
	case Radiation:
		return "Kj/m²"
	case Precipitation:
		return "mm"
	default:
		return ""
	}
}

// IsAccumulated reports whether the variable is a per-hour accumulation
// (summed over a day) rather than an instantaneous reading.
func (v Variable) IsAccumulated() bool {
	return v == Precipitation || v == Radiation
}

// RawRecord is one ingested row before time normalization: the timestamp
// fields exactly as they appeared in the source, plus the parsed numeric
// values. A variable absent from Values is a missing reading.
type RawRecord struct {
	Date   string
	Hour   string
	Values map[Variable]float64
}

// Observation is one normalized hourly record. Timestamp is truncated to
// the hour in UTC; Values holds only the present readings.
type Observation struct {
	Timestamp time.Time
	Values    map[Variable]float64
}

// Date returns the observation's calendar day.
func (o Observation) Date() core.Date {
	return core.DateOf(o.Timestamp)
}

// Hour returns the hour slot (0-23).
func (o Observation) Hour() int {
	return o.Timestamp.UTC().Hour()
}

// Value returns the reading for a variable and whether it is present.
func (o Observation) Value(v Variable) (float64, bool) {
	val, ok := o.Values[v]
	return val, ok
}

// GapReport lists the hour slots with no observation between the first
// and last timestamp of a normalized series.
type GapReport struct {
	MissingSlots []time.Time
}

// Count returns the number of missing hour slots.
func (g GapReport) Count() int { return len(g.MissingSlots) }

// NormalizeResult is the output of the time-index normalizer.
type NormalizeResult struct {
	// Observations is sorted by timestamp with duplicates removed.
	Observations []Observation
	Gaps         GapReport
	// Rejected counts records whose timestamp could not be parsed.
	Rejected int
	// Replaced counts records discarded because a later record carried
	// the same timestamp.
	Replaced int
}
