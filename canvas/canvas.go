// Package canvas is the drawing surface a report is laid out on.
//
// Coordinates are in points with the origin at the bottom-left corner of the
// page, y growing upwards. Every primitive is checked against the page
// bounds; a violation is sticky and fails Finalize, so a defective layout can
// never yield a document.
package canvas

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	ErrFinalized   = errors.New("canvas: document already finalized")
	ErrOutOfBounds = errors.New("canvas: drawing outside page bounds")
)

// A4 page size in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// boundsSlack absorbs rounding in text-width estimates and stroke widths.
const boundsSlack = 0.5

// Point is a position on the page.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle anchored at its bottom-left corner.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Top() float64   { return r.Y + r.H }
func (r Rect) Right() float64 { return r.X + r.W }

// Intersects reports whether two rectangles overlap with a non-empty area.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Top() && o.Y < r.Top()
}

func (r Rect) String() string {
	return fmt.Sprintf("[x=%.1f y=%.1f w=%.1f h=%.1f]", r.X, r.Y, r.W, r.H)
}

// Color is an opaque RGB colour.
type Color struct {
	R, G, B uint8
}

// Hex parses "#RRGGBB" or "RRGGBB". Invalid input yields black.
func Hex(s string) Color {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return Color{}
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

var (
	Black      = Color{0, 0, 0}
	White      = Color{255, 255, 255}
	Grey       = Color{128, 128, 128}
	WhiteSmoke = Color{245, 245, 245}
)

// Font selects one of the PDF core fonts.
type Font struct {
	Family string
	Style  string // "", "B", "I" or "BI"
	Size   float64
}

func Helvetica(size float64) Font     { return Font{Family: "Helvetica", Size: size} }
func HelveticaBold(size float64) Font { return Font{Family: "Helvetica", Style: "B", Size: size} }

// Align is the horizontal anchor of a text run relative to its position.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Raster is an encoded image ready for placement. Key identifies it within
// one document so repeated placements embed the bytes once.
type Raster struct {
	Key    string
	Data   []byte
	Format string // "JPG" or "PNG"
	Width  int
	Height int
}

// TableStyle controls how DrawTable paints header and body rows.
type TableStyle struct {
	HeaderFill Color
	HeaderText Color
	HeaderFont Font
	BodyFont   Font
	BodyText   Color
	BodyFills  []Color // cycled over body rows
	Grid       Color
	GridWidth  float64
}

// Table is a grid of centered cells; Rows[0] is the header row.
type Table struct {
	Rows         [][]string
	ColumnWidths []float64
	RowHeight    float64
	Style        TableStyle
}

// Width is the sum of the column widths.
func (t Table) Width() float64 {
	var w float64
	for _, c := range t.ColumnWidths {
		w += c
	}
	return w
}

// Height is the rendered height of all rows.
func (t Table) Height() float64 {
	return float64(len(t.Rows)) * t.RowHeight
}

// Surface is a page-at-a-time drawing context for one output document.
// Pages are committed strictly in call order and never revisited.
type Surface interface {
	// Size returns the page width and height.
	Size() (w, h float64)
	DrawBox(r Rect, radius float64, fill Color)
	StrokeBox(r Rect, stroke Color, width float64)
	DrawText(at Point, font Font, color Color, align Align, text string)
	TextWidth(font Font, text string) float64
	// DrawImage places img inside r. A nil img draws a stroked placeholder
	// box with label centered in it.
	DrawImage(r Rect, img *Raster, label string)
	DrawLine(from, to Point, color Color, width float64)
	// DrawTable draws t with its top-left corner at topLeft.
	DrawTable(topLeft Point, t Table)
	// Link makes r a clickable area pointing at url.
	Link(r Rect, url string)
	// Attach embeds a file in the finished document.
	Attach(name string, data []byte, description string)
	// CommitPage ends the current page and starts a blank one. It is the
	// only operation that changes PageNumber.
	CommitPage()
	// PageNumber is the 1-based number of the page being drawn.
	PageNumber() int
	// Finalize writes the document. No operation may follow it.
	Finalize(w io.Writer) error
}

func checkBounds(pageW, pageH float64, r Rect) error {
	if r.X < -boundsSlack || r.Y < -boundsSlack ||
		r.Right() > pageW+boundsSlack || r.Top() > pageH+boundsSlack {
		return ErrOutOfBounds
	}
	return nil
}

// textRect approximates the box covered by a text run drawn at baseline at.
func textRect(at Point, size, width float64, align Align) Rect {
	x := at.X
	switch align {
	case AlignCenter:
		x -= width / 2
	case AlignRight:
		x -= width
	}
	return Rect{X: x, Y: at.Y - 0.25*size, W: width, H: size}
}
