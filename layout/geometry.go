package layout

import (
	"math"

	"violation-report/canvas"
)

// Geometry holds every fixed position and size used by the page layouts, in
// points from the bottom-left page corner.
type Geometry struct {
	HeaderTopMargin  float64
	HeaderHeight     float64
	HeaderSideMargin float64
	HeaderRadius     float64
	HeaderTextX      float64

	FooterLineY     float64
	FooterLineInset float64
	FooterCaptionY  float64

	CardWidth     float64
	CardHeight    float64
	CardGapX      float64
	CardGapY      float64
	CardStartX    float64
	CardRadius    float64
	CardTopOffset float64 // header bottom to first card row
	CardColumns   int
	CardRows      int

	EvidenceColumns   []float64
	ImageWidth        float64
	ImageHeight       float64
	RowStep           float64
	EvidenceTopOffset float64 // page top to first image row
	MinCursor         float64
}

// DefaultGeometry is the A4 layout.
func DefaultGeometry() Geometry {
	return Geometry{
		HeaderTopMargin:  25,
		HeaderHeight:     110,
		HeaderSideMargin: 25,
		HeaderRadius:     20,
		HeaderTextX:      50,

		FooterLineY:     40,
		FooterLineInset: 40,
		FooterCaptionY:  25,

		CardWidth:     160,
		CardHeight:    70,
		CardGapX:      25,
		CardGapY:      35,
		CardStartX:    50,
		CardRadius:    14,
		CardTopOffset: 111,
		CardColumns:   3,
		CardRows:      2,

		EvidenceColumns:   []float64{50, 315},
		ImageWidth:        230,
		ImageHeight:       155,
		RowStep:           240,
		EvidenceTopOffset: 300,
		MinCursor:         120,
	}
}

// HeaderBottom is the y of the lower edge of the header band.
func (g Geometry) HeaderBottom(pageH float64) float64 {
	return pageH - g.HeaderTopMargin - g.HeaderHeight
}

// FooterTop is the y of the upper edge of the footer band.
func (g Geometry) FooterTop() float64 {
	return g.FooterLineY + 1
}

// EvidenceStart is the cursor position of the first image row on a page.
func (g Geometry) EvidenceStart(pageH float64) float64 {
	return pageH - g.EvidenceTopOffset
}

// RowsPerPage is how many image rows fit between EvidenceStart and MinCursor.
func (g Geometry) RowsPerPage(pageH float64) int {
	span := g.EvidenceStart(pageH) - g.MinCursor
	if span < 0 {
		return 0
	}
	return int(math.Floor(span/g.RowStep)) + 1
}

// SlotsPerPage is the evidence capacity of one page.
func (g Geometry) SlotsPerPage(pageH float64) int {
	return g.RowsPerPage(pageH) * len(g.EvidenceColumns)
}

// Theme is the colour scheme of the report.
type Theme struct {
	Primary  canvas.Color
	LightBG  canvas.Color
	CardBG   canvas.Color
	TextGray canvas.Color
	Text     canvas.Color
}

// DefaultTheme is the blue report theme.
func DefaultTheme() Theme {
	return Theme{
		Primary:  canvas.Hex("#0B5ED7"),
		LightBG:  canvas.Hex("#EDF2FC"),
		CardBG:   canvas.Hex("#F7F9FD"),
		TextGray: canvas.Hex("#5A5A5A"),
		Text:     canvas.Black,
	}
}
