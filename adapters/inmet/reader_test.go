package inmet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/r0bertgabriel/inmet-belem/domain/observation"
)

const sampleCSV = `REGIAO:;N
UF:;PA
ESTACAO:;BELEM
CODIGO (WMO):;A201
Data;Hora UTC;PRECIPITAÇÃO TOTAL, HORÁRIO (mm);PRESSAO ATMOSFERICA AO NIVEL DA ESTACAO, HORARIA (mB);RADIACAO GLOBAL (Kj/m²);TEMPERATURA DO AR - BULBO SECO, HORARIA (°C);TEMPERATURA DO PONTO DE ORVALHO (°C);UMIDADE RELATIVA DO AR, HORARIA (%);VENTO, DIREÇÃO HORARIA (gr) (° (gr));VENTO, RAJADA MAXIMA (m/s);VENTO, VELOCIDADE HORARIA (m/s)
2023/01/01;0000 UTC;0,2;1009,1;;24,3;23,1;93;120;3,4;1,2
2023/01/01;0100 UTC;;1008,7;-9999;24,1;23,0;94;110;2,9;,9
`

// encodeLatin1 renders the UTF-8 fixture the way the station files are
// actually shipped.
func encodeLatin1(t *testing.T, s string) *strings.Reader {
	t.Helper()
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	require.NoError(t, err)
	return strings.NewReader(out)
}

func TestReadParsesRecords(t *testing.T) {
	r := NewReader()
	records, err := r.Read(encodeLatin1(t, sampleCSV))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "2023/01/01", first.Date)
	assert.Equal(t, "0000 UTC", first.Hour)
	assert.InDelta(t, 0.2, first.Values[observation.Precipitation], 1e-9)
	assert.InDelta(t, 1009.1, first.Values[observation.Pressure], 1e-9)
	assert.InDelta(t, 24.3, first.Values[observation.Temperature], 1e-9)
	assert.InDelta(t, 23.1, first.Values[observation.DewPoint], 1e-9)
	assert.InDelta(t, 93.0, first.Values[observation.Humidity], 1e-9)
	assert.InDelta(t, 120.0, first.Values[observation.WindDirection], 1e-9)
	assert.InDelta(t, 3.4, first.Values[observation.WindGust], 1e-9)
	assert.InDelta(t, 1.2, first.Values[observation.WindSpeed], 1e-9)
}

func TestReadMissingValues(t *testing.T) {
	r := NewReader()
	records, err := r.Read(encodeLatin1(t, sampleCSV))
	require.NoError(t, err)

	second := records[1]
	_, hasPrecip := second.Values[observation.Precipitation]
	assert.False(t, hasPrecip, "blank cell is missing")
	_, hasRadiation := second.Values[observation.Radiation]
	assert.False(t, hasRadiation, "-9999 sentinel is missing")
	assert.InDelta(t, 0.9, second.Values[observation.WindSpeed], 1e-9, "bare comma decimal")
}

func TestReadRadiationBlankInFirstRow(t *testing.T) {
	r := NewReader()
	records, err := r.Read(encodeLatin1(t, sampleCSV))
	require.NoError(t, err)

	_, ok := records[0].Values[observation.Radiation]
	assert.False(t, ok)
}

func TestReadNoHeaderRow(t *testing.T) {
	r := NewReader()
	_, err := r.Read(strings.NewReader("REGIAO:;N\nUF:;PA\n"))
	assert.Error(t, err)
}

func TestReadFileMissing(t *testing.T) {
	r := NewReader()
	_, err := r.ReadFile("definitely/not/there.CSV")
	assert.Error(t, err)
}
