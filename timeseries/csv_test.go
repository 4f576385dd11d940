package timeseries

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSVFromReader(t *testing.T) {
	data := `date,close,volume
2024-01-02,100.5,1000
2024-01-03,101.0,1100
2024-01-04,99.8,900
`
	s, err := LoadCSVFromReader(strings.NewReader(data), nil)
	require.NoError(t, err)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{100.5, 101.0, 99.8}, s.Prices)
	assert.Equal(t, []float64{1000, 1100, 900}, s.Volumes)
	require.Len(t, s.Timestamps, 3)
	assert.NoError(t, s.Validate())
}

func TestLoadCSVSymbolFilter(t *testing.T) {
	data := `symbol,date,close
SPX,2024-01-02,100
NDX,2024-01-02,200
SPX,2024-01-03,101
NDX,2024-01-03,202
`
	opts := DefaultCSVOptions()
	opts.SymbolFilter = "NDX"

	s, err := LoadCSVFromReader(strings.NewReader(data), opts)
	require.NoError(t, err)

	assert.Equal(t, "NDX", s.Symbol)
	assert.Equal(t, []float64{200, 202}, s.Prices)
}

func TestLoadCSVSkipsBadRows(t *testing.T) {
	data := `date,close
2024-01-02,100
2024-01-03,NA
2024-01-04,102
`
	s, err := LoadCSVFromReader(strings.NewReader(data), nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 102}, s.Prices)
}

func TestLoadCSVNoData(t *testing.T) {
	_, err := LoadCSVFromReader(strings.NewReader("date,close\n"), nil)
	assert.Error(t, err)
}
