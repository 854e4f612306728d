package layout

import (
	"fmt"
	"strconv"
	"strings"

	"violation-report/canvas"
	"violation-report/charts"
	"violation-report/models"
)

const (
	CoverTitle      = "Executive Safety Summary"
	AnalyticsTitle  = "Violation Analytics Overview"
	ConclusionTitle = "Final Inspection Assessment"

	StatusReviewRequired = "Review Required"
	NoVideoLink          = "No video link provided"
)

// Analytics page placement.
const (
	ChartX      = 50.0
	ChartTop    = 380.0 // from page top to the chart's lower edge
	ChartWidth  = 500.0
	ChartHeight = 240.0
	TableX      = 65.0
	TableGap    = 20.0
)

// Cover draws the executive summary page: card grid, submission details and
// the video evidence box.
func (rc *RenderContext) Cover(summary models.Summary, submittedBy, submittedTo string) {
	w := rc.PageWidth()
	top := rc.Header(CoverTitle)

	primary := models.Placeholder
	if summary.TopCategory != "" {
		primary = charts.Label(summary.TopCategory)
	}
	bottom := rc.CardGrid(top, []Card{
		{Label: "Reporting Site", Value: rc.Site.Location},
		{Label: "Deployment Date", Value: rc.Site.Date},
		{Label: "UAV Hardware ID", Value: rc.Site.DroneID},
		{Label: "Total Violations", Value: strconv.Itoa(summary.Total)},
		{Label: "Primary Risk Factor", Value: primary},
		{Label: "Status", Value: StatusReviewRequired},
	})

	heading := canvas.HelveticaBold(14)
	body := canvas.Helvetica(11)
	boxW := w - 100
	textW := boxW - 40

	y := bottom - 50
	rc.Surface.DrawText(canvas.Point{X: 50, Y: y}, heading, rc.Theme.Primary, canvas.AlignLeft, "Submission Details")
	box := canvas.Rect{X: 50, Y: y - 25 - 65, W: boxW, H: 65}
	rc.Surface.DrawBox(box, 16, rc.Theme.CardBG)
	rc.Surface.DrawText(canvas.Point{X: 70, Y: box.Y + 40}, body, rc.Theme.Text, canvas.AlignLeft,
		rc.Fit(body, "Submitted By: "+submittedBy, textW))
	rc.Surface.DrawText(canvas.Point{X: 70, Y: box.Y + 20}, body, rc.Theme.Text, canvas.AlignLeft,
		rc.Fit(body, "Submitted To: "+submittedTo, textW))

	y = box.Y - 60
	rc.Surface.DrawText(canvas.Point{X: 50, Y: y}, heading, rc.Theme.Primary, canvas.AlignLeft, "Video Evidence")
	box = canvas.Rect{X: 50, Y: y - 25 - 55, W: boxW, H: 55}
	rc.Surface.DrawBox(box, 16, rc.Theme.CardBG)

	link := canvas.Helvetica(10)
	if rc.Site.VideoLink != "" {
		rc.Surface.DrawText(canvas.Point{X: 70, Y: box.Y + 22}, link, rc.Theme.TextGray, canvas.AlignLeft,
			rc.Fit(link, rc.Site.VideoLink, textW))
		rc.Surface.Link(canvas.Rect{X: 70, Y: box.Y + 10, W: w - 50 - 70, H: 30}, rc.Site.VideoLink)
	} else {
		rc.Surface.DrawText(canvas.Point{X: 70, Y: box.Y + 22}, link, rc.Theme.TextGray, canvas.AlignLeft, NoVideoLink)
	}

	rc.FinishPage()
}

// Analytics draws the frequency chart and the ranked table below it. The
// table rows shrink if needed to stay clear of the footer.
func (rc *RenderContext) Analytics(chart *canvas.Raster, freqs []charts.Frequency) {
	h := rc.PageHeight()
	rc.Header(AnalyticsTitle)

	chartRect := canvas.Rect{X: ChartX, Y: h - ChartTop, W: ChartWidth, H: ChartHeight}
	rc.Surface.DrawImage(chartRect, chart, charts.ChartTitle)

	top := chartRect.Y - TableGap
	rows := float64(len(freqs) + 1)
	rowHeight := charts.DefaultRowHeight
	if avail := top - rc.Geometry.FooterTop() - TableGap; rows*rowHeight > avail {
		rowHeight = avail / rows
	}
	rc.Surface.DrawTable(canvas.Point{X: TableX, Y: top}, charts.Table(freqs, rowHeight))

	rc.FinishPage()
}

// ConclusionRemarks returns the numbered remarks of the final page.
func ConclusionRemarks(summary models.Summary) []string {
	top := models.Placeholder
	if summary.TopCategory != "" {
		top = strings.ToUpper(strings.ReplaceAll(summary.TopCategory, "_", " "))
	}
	return []string{
		fmt.Sprintf("1. A comprehensive AI analysis identified %d safety deviations.", summary.Total),
		fmt.Sprintf("2. Priority attention is required for: %s.", top),
		"3. All visual evidence provided is timestamped and geolocated.",
		"4. Deployment of safety marshals is advised at coordinates flagged in this report.",
		"5. The rest shelter and lighting arrangements should be reviewed as per DGMS guidelines.",
	}
}

// Disclaimer closes the conclusion page.
var Disclaimer = []string{
	"Disclaimer: This is an AI-generated report for surveillance support.",
	"Verification by a Safety Officer is mandatory before statutory action.",
}

// Conclusion draws the final assessment page. hotspots are listed under the
// remarks as flagged coordinates.
func (rc *RenderContext) Conclusion(summary models.Summary, hotspots []string) {
	w, h := rc.Surface.Size()
	rc.Header(ConclusionTitle)

	x := 60.0
	y := h - 180
	textW := w - x - 40
	rc.Surface.DrawText(canvas.Point{X: x, Y: y}, canvas.HelveticaBold(14), rc.Theme.Primary, canvas.AlignLeft,
		"Conclusion & Statutory Remarks")

	lines := ConclusionRemarks(summary)
	if len(hotspots) > 0 {
		lines = append(lines, "", "Flagged coordinates:")
		for _, s := range hotspots {
			lines = append(lines, "   "+s)
		}
	}
	lines = append(lines, "")
	lines = append(lines, Disclaimer...)

	body := canvas.Helvetica(11)
	y -= 35
	for _, line := range lines {
		if line != "" {
			rc.Surface.DrawText(canvas.Point{X: x, Y: y}, body, rc.Theme.Text, canvas.AlignLeft, rc.Fit(body, line, textW))
		}
		y -= 20
	}

	rc.FinishPage()
}
