// Package timeindex turns raw hourly records into a clean chronological
// series: timestamps parsed to UTC hour slots, duplicates collapsed,
// malformed rows rejected, and coverage gaps reported.
package timeindex

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/r0bertgabriel/inmet-belem/domain/core"
	"github.com/r0bertgabriel/inmet-belem/domain/observation"
)

var dateLayouts = []string{"2006/01/02", "2006-01-02", "02/01/2006"}

// Normalizer builds a strictly increasing hourly observation series from
// raw records.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize parses, sorts, and deduplicates raw records. Records whose
// date or hour cannot be parsed are counted as rejected. Timestamps are
// truncated to their hour slot, so two records inside the same hour are
// duplicates; the record appearing later in the input wins, counted as
// replaced. The gap report covers every whole hour between the first
// and last surviving timestamp.
func (n *Normalizer) Normalize(records []observation.RawRecord) observation.NormalizeResult {
	result := observation.NormalizeResult{}
	byTime := make(map[time.Time]observation.Observation, len(records))

	for _, rec := range records {
		ts, err := ParseTimestamp(rec.Date, rec.Hour)
		if err != nil {
			result.Rejected++
			continue
		}
		if _, exists := byTime[ts]; exists {
			result.Replaced++
		}
		byTime[ts] = observation.Observation{Timestamp: ts, Values: rec.Values}
	}

	obs := make([]observation.Observation, 0, len(byTime))
	for _, o := range byTime {
		obs = append(obs, o)
	}
	sort.Slice(obs, func(i, j int) bool {
		return obs[i].Timestamp.Before(obs[j].Timestamp)
	})

	result.Observations = obs
	result.Gaps = gapReport(obs)
	return result
}

func gapReport(obs []observation.Observation) observation.GapReport {
	report := observation.GapReport{}
	if len(obs) < 2 {
		return report
	}
	next := obs[0].Timestamp
	i := 0
	last := obs[len(obs)-1].Timestamp
	for !next.After(last) {
		if i < len(obs) && obs[i].Timestamp.Equal(next) {
			i++
		} else {
			report.MissingSlots = append(report.MissingSlots, next)
		}
		next = next.Add(time.Hour)
	}
	return report
}

// ParseTimestamp resolves a raw date and hour pair to its UTC hour
// slot. Minutes are validated and then truncated to zero, keeping every
// observation on one of the 24 whole-hour slots. An unresolvable value
// fails with a malformed record error.
func ParseTimestamp(date, hour string) (time.Time, error) {
	var day time.Time
	parsed := false
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(date)); err == nil {
			day = t
			parsed = true
			break
		}
	}
	if !parsed {
		return time.Time{}, core.NewMalformedRecordError("unparseable date " + strconv.Quote(date))
	}
	h, ok := parseHour(hour)
	if !ok {
		return time.Time{}, core.NewMalformedRecordError("unparseable hour " + strconv.Quote(hour))
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, 0, 0, 0, time.UTC), nil
}

// parseHour accepts the INMET "HHMM UTC" form alongside "HH:MM", bare
// "HHMM", and a plain hour number. The minute part is range-checked and
// discarded.
func parseHour(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(strings.ToUpper(s), "UTC")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if strings.Contains(s, ":") {
		parts := strings.SplitN(s, ":", 2)
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return 0, false
		}
		return validSlot(h, m)
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	if len(s) >= 3 {
		return validSlot(v/100, v%100)
	}
	return validSlot(v, 0)
}

func validSlot(h, m int) (int, bool) {
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h, true
}
