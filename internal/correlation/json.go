package correlation

import (
	"encoding/json"

	"github.com/r0bertgabriel/inmet-belem/domain/observation"
	"github.com/r0bertgabriel/inmet-belem/domain/series"
)

type matrixJSON struct {
	Variables []observation.Variable `json:"variables"`
	Cells     [][]*float64           `json:"cells"`
}

// MarshalJSON renders undefined cells as null, since bare NaN is not
// valid JSON.
func (m Matrix) MarshalJSON() ([]byte, error) {
	out := matrixJSON{Variables: m.Variables, Cells: make([][]*float64, len(m.Cells))}
	for i, row := range m.Cells {
		out.Cells[i] = make([]*float64, len(row))
		for j, v := range row {
			if series.Defined(v) {
				val := v
				out.Cells[i][j] = &val
			}
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores null cells to the undefined sentinel.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	var in matrixJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.Variables = in.Variables
	m.Cells = make([][]float64, len(in.Cells))
	for i, row := range in.Cells {
		m.Cells[i] = make([]float64, len(row))
		for j, v := range row {
			if v != nil {
				m.Cells[i][j] = *v
			} else {
				m.Cells[i][j] = series.Undefined
			}
		}
	}
	return nil
}
