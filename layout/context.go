// Package layout places report content on a canvas.Surface: the fixed header
// and footer bands, the summary card grid and the two-column evidence grid
// with page overflow.
package layout

import (
	"fmt"
	"strings"

	"github.com/apex/log"

	"violation-report/canvas"
	"violation-report/models"
)

const ellipsis = "..."

// Card is one labelled value in the summary grid.
type Card struct {
	Label string
	Value string
}

// RenderContext carries the surface and the fixed page furniture through a
// build. It is not safe for concurrent use.
type RenderContext struct {
	Surface  canvas.Surface
	Theme    Theme
	Geometry Geometry
	Site     models.SiteMetadata

	// Organization is the header title; FooterCaption precedes the page
	// number in the footer.
	Organization  string
	FooterCaption string
}

// NewRenderContext creates a context with the default theme and geometry.
func NewRenderContext(surface canvas.Surface, site models.SiteMetadata, organization, footerCaption string) *RenderContext {
	return &RenderContext{
		Surface:       surface,
		Theme:         DefaultTheme(),
		Geometry:      DefaultGeometry(),
		Site:          site,
		Organization:  organization,
		FooterCaption: footerCaption,
	}
}

// PageWidth returns the surface width.
func (rc *RenderContext) PageWidth() float64 {
	w, _ := rc.Surface.Size()
	return w
}

// PageHeight returns the surface height.
func (rc *RenderContext) PageHeight() float64 {
	_, h := rc.Surface.Size()
	return h
}

// Header draws the header band with the given page subtitle and returns the
// y of its lower edge. Content must stay below it.
func (rc *RenderContext) Header(subtitle string) float64 {
	g := rc.Geometry
	w, h := rc.Surface.Size()

	bottom := g.HeaderBottom(h)
	panel := canvas.Rect{X: g.HeaderSideMargin, Y: bottom, W: w - 2*g.HeaderSideMargin, H: g.HeaderHeight}
	rc.Surface.DrawBox(panel, g.HeaderRadius, rc.Theme.LightBG)

	textW := panel.Right() - g.HeaderTextX - g.HeaderSideMargin
	title := canvas.HelveticaBold(20)
	rc.Surface.DrawText(canvas.Point{X: g.HeaderTextX, Y: bottom + 70}, title, rc.Theme.Primary, canvas.AlignLeft,
		rc.Fit(title, rc.Organization, textW))

	sub := canvas.HelveticaBold(13)
	rc.Surface.DrawText(canvas.Point{X: g.HeaderTextX, Y: bottom + 45}, sub, rc.Theme.TextGray, canvas.AlignLeft,
		rc.Fit(sub, strings.ToUpper(subtitle), textW))

	meta := canvas.Helvetica(9)
	line := fmt.Sprintf("Location: %s | Drone: %s | Date: %s", rc.Site.Location, rc.Site.DroneID, rc.Site.Date)
	rc.Surface.DrawText(canvas.Point{X: g.HeaderTextX, Y: bottom + 25}, meta, rc.Theme.TextGray, canvas.AlignLeft,
		rc.Fit(meta, line, textW))

	return bottom
}

// Footer draws the separator line and the numbered caption.
func (rc *RenderContext) Footer() {
	g := rc.Geometry
	w := rc.PageWidth()

	rc.Surface.DrawLine(
		canvas.Point{X: g.FooterLineInset, Y: g.FooterLineY},
		canvas.Point{X: w - g.FooterLineInset, Y: g.FooterLineY},
		rc.Theme.LightBG, 1)

	caption := fmt.Sprintf("%s | Page %d", rc.FooterCaption, rc.Surface.PageNumber())
	rc.Surface.DrawText(canvas.Point{X: w / 2, Y: g.FooterCaptionY}, canvas.Helvetica(8), rc.Theme.TextGray,
		canvas.AlignCenter, caption)
}

// FinishPage draws the footer and commits the page. Every page ends here.
func (rc *RenderContext) FinishPage() {
	rc.Footer()
	rc.Surface.CommitPage()
}

// CardGrid lays out up to CardColumns x CardRows cards row-major, starting
// CardTopOffset below top, and returns the y of the grid's lower edge.
// Missing cards leave their cells empty; extra cards are dropped.
func (rc *RenderContext) CardGrid(top float64, cards []Card) float64 {
	g := rc.Geometry
	capacity := g.CardColumns * g.CardRows
	if len(cards) > capacity {
		log.Errorf("Card grid holds %d cards, dropping %d", capacity, len(cards)-capacity)
		cards = cards[:capacity]
	}

	first := top - g.CardTopOffset
	label := canvas.Helvetica(9)
	value := canvas.HelveticaBold(11)
	for i, c := range cards {
		row, col := i/g.CardColumns, i%g.CardColumns
		r := canvas.Rect{
			X: g.CardStartX + float64(col)*(g.CardWidth+g.CardGapX),
			Y: first - float64(row)*(g.CardHeight+g.CardGapY),
			W: g.CardWidth,
			H: g.CardHeight,
		}
		rc.Surface.DrawBox(r, g.CardRadius, rc.Theme.CardBG)

		textW := g.CardWidth - 24
		rc.Surface.DrawText(canvas.Point{X: r.X + 12, Y: r.Y + 48}, label, rc.Theme.TextGray, canvas.AlignLeft,
			rc.Fit(label, c.Label, textW))
		rc.Surface.DrawText(canvas.Point{X: r.X + 12, Y: r.Y + 25}, value, rc.Theme.Text, canvas.AlignLeft,
			rc.Fit(value, c.Value, textW))
	}

	return first - float64(g.CardRows-1)*(g.CardHeight+g.CardGapY)
}

// Fit shortens text with an ellipsis until it is at most maxWidth wide.
func (rc *RenderContext) Fit(font canvas.Font, text string, maxWidth float64) string {
	if rc.Surface.TextWidth(font, text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		s := string(runes[:n]) + ellipsis
		if rc.Surface.TextWidth(font, s) <= maxWidth {
			return s
		}
	}
	return ellipsis
}
