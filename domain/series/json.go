package series

import (
	"encoding/json"
	"sort"
)

// numberOrNull converts the NaN undefined sentinel to JSON null, since
// encoding/json rejects NaN outright.
func numberOrNull(x float64) *float64 {
	if !Defined(x) {
		return nil
	}
	return &x
}

// MarshalJSON renders undefined statistics as null instead of failing on
// NaN values.
func (s StatSummary) MarshalJSON() ([]byte, error) {
	percentiles := make(map[string]*float64, len(s.Percentiles))
	keys := make([]float64, 0, len(s.Percentiles))
	for p := range s.Percentiles {
		keys = append(keys, p)
	}
	sort.Float64s(keys)
	for _, p := range keys {
		percentiles[formatPercentileKey(p)] = numberOrNull(s.Percentiles[p])
	}

	return json.Marshal(struct {
		Count       int                 `json:"count"`
		Missing     int                 `json:"missing"`
		Mean        *float64            `json:"mean"`
		Median      *float64            `json:"median"`
		Mode        *float64            `json:"mode"`
		StdDev      *float64            `json:"std_dev"`
		Variance    *float64            `json:"variance"`
		Min         *float64            `json:"min"`
		Max         *float64            `json:"max"`
		Range       *float64            `json:"range"`
		Percentiles map[string]*float64 `json:"percentiles"`
		IQR         *float64            `json:"iqr"`
		Skewness    *float64            `json:"skewness"`
		Kurtosis    *float64            `json:"kurtosis"`
		CV          *float64            `json:"cv"`
		NormalityP  *float64            `json:"normality_p"`
	}{
		Count:       s.Count,
		Missing:     s.Missing,
		Mean:        numberOrNull(s.Mean),
		Median:      numberOrNull(s.Median),
		Mode:        numberOrNull(s.Mode),
		StdDev:      numberOrNull(s.StdDev),
		Variance:    numberOrNull(s.Variance),
		Min:         numberOrNull(s.Min),
		Max:         numberOrNull(s.Max),
		Range:       numberOrNull(s.Range),
		Percentiles: percentiles,
		IQR:         numberOrNull(s.IQR),
		Skewness:    numberOrNull(s.Skewness),
		Kurtosis:    numberOrNull(s.Kurtosis),
		CV:          numberOrNull(s.CV),
		NormalityP:  numberOrNull(s.NormalityP),
	})
}

func formatPercentileKey(p float64) string {
	b, _ := json.Marshal(p)
	return "p" + string(b)
}

// UnmarshalJSON restores null statistics to the undefined sentinel so a
// summary survives a round trip through storage.
func (s *StatSummary) UnmarshalJSON(data []byte) error {
	var in struct {
		Count       int                 `json:"count"`
		Missing     int                 `json:"missing"`
		Mean        *float64            `json:"mean"`
		Median      *float64            `json:"median"`
		Mode        *float64            `json:"mode"`
		StdDev      *float64            `json:"std_dev"`
		Variance    *float64            `json:"variance"`
		Min         *float64            `json:"min"`
		Max         *float64            `json:"max"`
		Range       *float64            `json:"range"`
		Percentiles map[string]*float64 `json:"percentiles"`
		IQR         *float64            `json:"iqr"`
		Skewness    *float64            `json:"skewness"`
		Kurtosis    *float64            `json:"kurtosis"`
		CV          *float64            `json:"cv"`
		NormalityP  *float64            `json:"normality_p"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	s.Count = in.Count
	s.Missing = in.Missing
	s.Mean = valueOrUndefined(in.Mean)
	s.Median = valueOrUndefined(in.Median)
	s.Mode = valueOrUndefined(in.Mode)
	s.StdDev = valueOrUndefined(in.StdDev)
	s.Variance = valueOrUndefined(in.Variance)
	s.Min = valueOrUndefined(in.Min)
	s.Max = valueOrUndefined(in.Max)
	s.Range = valueOrUndefined(in.Range)
	s.IQR = valueOrUndefined(in.IQR)
	s.Skewness = valueOrUndefined(in.Skewness)
	s.Kurtosis = valueOrUndefined(in.Kurtosis)
	s.CV = valueOrUndefined(in.CV)
	s.NormalityP = valueOrUndefined(in.NormalityP)

	s.Percentiles = make(map[float64]float64, len(in.Percentiles))
	for key, v := range in.Percentiles {
		if len(key) < 2 {
			continue
		}
		var p float64
		if err := json.Unmarshal([]byte(key[1:]), &p); err != nil {
			continue
		}
		s.Percentiles[p] = valueOrUndefined(v)
	}
	return nil
}

func valueOrUndefined(v *float64) float64 {
	if v == nil {
		return Undefined
	}
	return *v
}
