// Package correlation computes pairwise Pearson correlations between
// daily series of different variables.
package correlation

import (
	"gonum.org/v1/gonum/stat"

	"github.com/r0bertgabriel/inmet-belem/domain/core"
	"github.com/r0bertgabriel/inmet-belem/domain/observation"
	"github.com/r0bertgabriel/inmet-belem/domain/series"
)

// minPairedDays is the fewest aligned days a pair needs for a
// meaningful coefficient.
const minPairedDays = 3

// Matrix is a symmetric correlation matrix over a fixed variable order.
// Cells for pairs with too few aligned days hold the undefined sentinel.
type Matrix struct {
	Variables []observation.Variable `json:"variables"`
	Cells     [][]float64            `json:"cells"`
}

// At returns the coefficient for a pair of variables, or the undefined
// sentinel when either variable is absent.
func (m Matrix) At(a, b observation.Variable) float64 {
	ai, bi := -1, -1
	for i, v := range m.Variables {
		if v == a {
			ai = i
		}
		if v == b {
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return series.Undefined
	}
	return m.Cells[ai][bi]
}

// Compute builds the matrix from daily series, pairing values
// pairwise-complete: each cell uses only the dates present in both
// series. The diagonal is exactly 1 for any variable with data.
func Compute(daily map[observation.Variable]series.DailySeries, order []observation.Variable) Matrix {
	vars := make([]observation.Variable, 0, len(order))
	indexed := make([]map[core.Date]float64, 0, len(order))
	for _, v := range order {
		ds, ok := daily[v]
		if !ok || ds.Len() == 0 {
			continue
		}
		byDate := make(map[core.Date]float64, ds.Len())
		for _, e := range ds.Entries {
			byDate[e.Date] = e.Value
		}
		vars = append(vars, v)
		indexed = append(indexed, byDate)
	}

	cells := make([][]float64, len(vars))
	for i := range cells {
		cells[i] = make([]float64, len(vars))
		cells[i][i] = 1
	}
	for i := 0; i < len(vars); i++ {
		for j := i + 1; j < len(vars); j++ {
			r := pairCorrelation(daily[vars[i]], indexed[j])
			cells[i][j] = r
			cells[j][i] = r
		}
	}

	return Matrix{Variables: vars, Cells: cells}
}

func pairCorrelation(a series.DailySeries, b map[core.Date]float64) float64 {
	xs := make([]float64, 0, a.Len())
	ys := make([]float64, 0, a.Len())
	for _, e := range a.Entries {
		if y, ok := b[e.Date]; ok {
			xs = append(xs, e.Value)
			ys = append(ys, y)
		}
	}
	if len(xs) < minPairedDays {
		return series.Undefined
	}
	return stat.Correlation(xs, ys, nil)
}
