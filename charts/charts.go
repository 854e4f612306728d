// Package charts derives the analytics view of a record set: category
// frequencies, risk levels, the bar chart raster and the ranked table.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"violation-report/canvas"
	"violation-report/models"
)

// RiskThreshold is the highest count still rated High.
const RiskThreshold = 3

const (
	RiskCritical = "CRITICAL"
	RiskHigh     = "High"
)

const (
	ChartTitle       = "Violation Frequency by Category"
	DefaultRowHeight = 25.0

	// The chart is rasterized at twice its placed size so it stays sharp.
	chartScale = 2
)

var (
	TableHeader       = []string{"Violation Category", "Count", "Risk Level"}
	TableColumnWidths = []float64{280, 80, 100}
)

var ErrNoData = errors.New("no category frequencies to chart")

// Frequency is the number of records in one category.
type Frequency struct {
	Category string
	Count    int
}

// Frequencies returns every category present in set with its count, highest
// count first. Equal counts keep the order in which the categories first
// appear in the records.
func Frequencies(set *models.RecordSet) []Frequency {
	counts := set.Summary().Counts
	out := make([]Frequency, 0, len(counts))
	for _, r := range set.Records() {
		if c, ok := counts[r.Type]; ok {
			out = append(out, Frequency{Category: r.Type, Count: c})
			delete(counts, r.Type)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Risk rates a category by how many violations it collected.
func Risk(count int) string {
	if count > RiskThreshold {
		return RiskCritical
	}
	return RiskHigh
}

// Label is the display name of a category.
func Label(category string) string {
	return models.CategoryLabel(category)
}

// BarChart renders freqs as a PNG bar chart meant to be placed at width x
// height points.
func BarChart(freqs []Frequency, width, height int) (*canvas.Raster, error) {
	if len(freqs) == 0 {
		return nil, ErrNoData
	}

	primary := drawing.ColorFromHex("0B5ED7")
	background := drawing.ColorFromHex("F7F9FD")

	top := 0
	bars := make([]chart.Value, 0, len(freqs))
	for _, f := range freqs {
		bars = append(bars, chart.Value{
			Label: Label(f.Category),
			Value: float64(f.Count),
			Style: chart.Style{
				FillColor:   primary,
				StrokeColor: primary,
				StrokeWidth: 1,
			},
		})
		top = max(top, f.Count)
	}

	w, h := width*chartScale, height*chartScale
	barWidth := max(8, min(120, (w-160)/(2*len(freqs))))

	graph := chart.BarChart{
		Title: ChartTitle,
		TitleStyle: chart.Style{
			FontSize:  12 * chartScale,
			FontColor: drawing.ColorBlack,
		},
		Background: chart.Style{
			FillColor: background,
			Padding:   chart.Box{Top: 40 * chartScale, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{
			FillColor: background,
		},
		Width:    w,
		Height:   h,
		BarWidth: barWidth,
		XAxis: chart.Style{
			FontSize:            6 * chartScale,
			TextRotationDegrees: 30,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(top + 1)},
			Style: chart.Style{FontSize: 7 * chartScale},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.Itoa(int(f))
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render bar chart: %w", err)
	}
	return &canvas.Raster{
		Key:    "analytics-chart",
		Data:   buf.Bytes(),
		Format: "PNG",
		Width:  w,
		Height: h,
	}, nil
}

// Table builds the ranked frequency table. A non-positive rowHeight uses
// DefaultRowHeight.
func Table(freqs []Frequency, rowHeight float64) canvas.Table {
	if rowHeight <= 0 {
		rowHeight = DefaultRowHeight
	}
	rows := make([][]string, 0, len(freqs)+1)
	rows = append(rows, TableHeader)
	for _, f := range freqs {
		rows = append(rows, []string{Label(f.Category), strconv.Itoa(f.Count), Risk(f.Count)})
	}
	return canvas.Table{
		Rows:         rows,
		ColumnWidths: TableColumnWidths,
		RowHeight:    rowHeight,
		Style: canvas.TableStyle{
			HeaderFill: canvas.Hex("#0B5ED7"),
			HeaderText: canvas.White,
			HeaderFont: canvas.HelveticaBold(10),
			BodyFont:   canvas.Helvetica(10),
			BodyText:   canvas.Black,
			BodyFills:  []canvas.Color{canvas.WhiteSmoke, canvas.White},
			Grid:       canvas.Grey,
			GridWidth:  0.5,
		},
	}
}
