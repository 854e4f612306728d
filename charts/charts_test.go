package charts

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"violation-report/models"
)

func recordSet(t *testing.T, types ...string) *models.RecordSet {
	t.Helper()
	records := make([]models.ViolationRecord, 0, len(types))
	for i, typ := range types {
		records = append(records, models.ViolationRecord{
			ID:   models.Text(string(rune('a'+i)) + "-id"),
			Type: typ,
		})
	}
	set, err := models.NewRecordSet(records)
	require.NoError(t, err)
	return set
}

func TestRisk(t *testing.T) {
	testCases := []struct {
		count int
		want  string
	}{
		{count: 1, want: RiskHigh},
		{count: 3, want: RiskHigh},
		{count: 4, want: RiskCritical},
		{count: 12, want: RiskCritical},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, Risk(tc.count), "count %d", tc.count)
	}
}

func TestFrequencies(t *testing.T) {
	set := recordSet(t, "fire", "cracks", "fire", "smoke", "cracks", "fire")

	got := Frequencies(set)
	assert.Equal(t, []Frequency{
		{Category: "fire", Count: 3},
		{Category: "cracks", Count: 2},
		{Category: "smoke", Count: 1},
	}, got)
}

func TestFrequenciesTiesFollowFirstAppearance(t *testing.T) {
	set := recordSet(t, "smoke", "fire", "cracks", "cracks")

	got := Frequencies(set)
	assert.Equal(t, []Frequency{
		{Category: "cracks", Count: 2},
		{Category: "smoke", Count: 1},
		{Category: "fire", Count: 1},
	}, got)
}

func TestTable(t *testing.T) {
	set := recordSet(t, "cracks", "cracks", "cracks", "cracks", "fire")
	table := Table(Frequencies(set), 0)

	assert.Equal(t, DefaultRowHeight, table.RowHeight)
	assert.Equal(t, 460.0, table.Width())
	assert.Equal(t, [][]string{
		{"Violation Category", "Count", "Risk Level"},
		{"Cracks", "4", "CRITICAL"},
		{"Fire", "1", "High"},
	}, table.Rows)
	assert.Equal(t, 3*DefaultRowHeight, table.Height())
}

func TestBarChart(t *testing.T) {
	set := recordSet(t, "cracks", "fire", "fire")

	raster, err := BarChart(Frequencies(set), 500, 240)
	require.NoError(t, err)
	assert.Equal(t, "PNG", raster.Format)

	cfg, err := png.DecodeConfig(bytes.NewReader(raster.Data))
	require.NoError(t, err)
	assert.Equal(t, raster.Width, cfg.Width)
	assert.Equal(t, raster.Height, cfg.Height)
}

func TestBarChartWithoutData(t *testing.T) {
	_, err := BarChart(nil, 500, 240)
	assert.ErrorIs(t, err, ErrNoData)
}
