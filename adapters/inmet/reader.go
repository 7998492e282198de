// Package inmet reads the hourly station CSV files published by the
// Brazilian national meteorology institute: semicolon separated,
// Latin-1 encoded, comma decimal marks, several metadata lines before
// the header row.
package inmet

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/r0bertgabriel/inmet-belem/domain/observation"
	apperrors "github.com/r0bertgabriel/inmet-belem/internal/errors"
)

// missingSentinel marks an absent reading in the source files.
const missingSentinel = "-9999"

// headerMatchers map fragments of the Portuguese column headers to the
// variable each column carries. Fragment matching sidesteps the accented
// characters and unit suffixes that vary between station exports. Order
// matters for the VENTO columns.
var headerMatchers = []struct {
	fragments []string
	variable  observation.Variable
}{
	{[]string{"TEMPERATURA DO AR - BULBO SECO"}, observation.Temperature},
	{[]string{"TEMPERATURA DO PONTO DE ORVALHO"}, observation.DewPoint},
	{[]string{"PRECIPITA", "TOTAL"}, observation.Precipitation},
	{[]string{"UMIDADE RELATIVA DO AR, HORARIA"}, observation.Humidity},
	{[]string{"PRESSAO ATMOSFERICA AO NIVEL"}, observation.Pressure},
	{[]string{"VENTO, VELOCIDADE HORARIA"}, observation.WindSpeed},
	{[]string{"VENTO, DIRE", "HORARIA"}, observation.WindDirection},
	{[]string{"VENTO, RAJADA"}, observation.WindGust},
	{[]string{"RADIACAO GLOBAL"}, observation.Radiation},
}

func matchHeader(name string) (observation.Variable, bool) {
	upper := strings.ToUpper(name)
	for _, m := range headerMatchers {
		all := true
		for _, f := range m.fragments {
			if !strings.Contains(upper, f) {
				all = false
				break
			}
		}
		if all {
			return m.variable, true
		}
	}
	return "", false
}

// Reader parses INMET hourly CSV exports into raw records.
type Reader struct{}

// NewReader creates a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadFile opens and parses one station export.
func (r *Reader) ReadFile(path string) ([]observation.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.IngestError("open csv file", err)
	}
	defer f.Close()
	return r.Read(f)
}

// Read parses an export stream. Metadata lines before the header row
// are skipped; the header row is located by its leading "Data" column.
func (r *Reader) Read(src io.Reader) ([]observation.RawRecord, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(src))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	columns, err := findHeader(cr)
	if err != nil {
		return nil, err
	}

	var records []observation.RawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.IngestError("read csv row", err)
		}
		if len(row) < 2 {
			continue
		}
		rec := observation.RawRecord{
			Date:   strings.TrimSpace(row[0]),
			Hour:   strings.TrimSpace(row[1]),
			Values: make(map[observation.Variable]float64),
		}
		for idx, v := range columns {
			if idx >= len(row) {
				continue
			}
			if val, ok := parseValue(row[idx]); ok {
				rec.Values[v] = val
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// findHeader advances past the station metadata block and returns the
// column index of each recognized variable.
func findHeader(cr *csv.Reader) (map[int]observation.Variable, error) {
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil, apperrors.IngestError("locate header row", io.ErrUnexpectedEOF)
		}
		if err != nil {
			return nil, apperrors.IngestError("read header candidate", err)
		}
		if len(row) < 3 || !strings.EqualFold(strings.TrimSpace(row[0]), "Data") {
			continue
		}

		columns := make(map[int]observation.Variable)
		for idx, name := range row {
			if v, ok := matchHeader(strings.TrimSpace(name)); ok {
				columns[idx] = v
			}
		}
		return columns, nil
	}
}

// parseValue converts a comma-decimal cell, treating blanks and the
// -9999 sentinel as missing.
func parseValue(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" || strings.HasPrefix(s, missingSentinel) {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
