package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/go-pdf/fpdf"
)

// PDF is a Surface producing a PDF document through fpdf.
type PDF struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	width  float64
	height float64

	page      int
	open      bool
	images    map[string]bool
	attached  []fpdf.Attachment
	finalized bool
	lossy     bool
	err       error
}

// NewPDF creates an empty A4 portrait document.
func NewPDF(title string) *PDF {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("violation-report", true)

	w, h := pdf.GetPageSize()
	return &PDF{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		width:  w,
		height: h,
		page:   1,
		images: make(map[string]bool),
	}
}

func (p *PDF) Size() (float64, float64) {
	return p.width, p.height
}

// y converts a bottom-left based coordinate to fpdf's top-left system.
func (p *PDF) y(v float64) float64 {
	return p.height - v
}

// begin gates every drawing primitive: it rejects work after Finalize or a
// previous error, checks bounds and lazily opens the page.
func (p *PDF) begin(op string, r Rect) bool {
	if p.finalized {
		p.fail(ErrFinalized)
		return false
	}
	if p.err != nil {
		return false
	}
	if err := checkBounds(p.width, p.height, r); err != nil {
		p.fail(fmt.Errorf("%s %v on page %d: %w", op, r, p.page, err))
		return false
	}
	if !p.open {
		p.pdf.AddPage()
		p.open = true
	}
	return true
}

// text encodes s for the cp1252 core fonts. Runes without a cp1252 glyph
// come out as dots; the first lossy string of a document is logged.
func (p *PDF) text(s string) string {
	out := p.tr(s)
	if !p.lossy && droppedRunes(s, out) {
		p.lossy = true
		log.WithField("text", s).Warn("Text has characters the PDF fonts cannot render, they are printed as dots")
	}
	return out
}

// droppedRunes compares a string with its one-byte-per-rune translation.
func droppedRunes(in, out string) bool {
	i := 0
	for _, r := range in {
		if i < len(out) && out[i] == '.' && r != '.' {
			return true
		}
		i++
	}
	return false
}

func (p *PDF) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *PDF) setFont(f Font) {
	p.pdf.SetFont(f.Family, f.Style, f.Size)
}

func (p *PDF) DrawBox(r Rect, radius float64, fill Color) {
	if !p.begin("box", r) {
		return
	}
	p.pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
	if radius > 0 {
		p.pdf.RoundedRect(r.X, p.y(r.Top()), r.W, r.H, radius, "1234", "F")
		return
	}
	p.pdf.Rect(r.X, p.y(r.Top()), r.W, r.H, "F")
}

func (p *PDF) StrokeBox(r Rect, stroke Color, width float64) {
	if !p.begin("stroke", r) {
		return
	}
	p.pdf.SetDrawColor(int(stroke.R), int(stroke.G), int(stroke.B))
	p.pdf.SetLineWidth(width)
	p.pdf.Rect(r.X, p.y(r.Top()), r.W, r.H, "D")
}

func (p *PDF) TextWidth(f Font, text string) float64 {
	p.setFont(f)
	return p.pdf.GetStringWidth(p.text(text))
}

func (p *PDF) DrawText(at Point, f Font, c Color, align Align, text string) {
	w := p.TextWidth(f, text)
	r := textRect(at, f.Size, w, align)
	if !p.begin("text", r) {
		return
	}
	p.setFont(f)
	p.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	p.pdf.Text(r.X, p.y(at.Y), p.text(text))
}

func (p *PDF) DrawImage(r Rect, img *Raster, label string) {
	if img == nil {
		p.StrokeBox(r, Grey, 1)
		p.DrawText(Point{X: r.X + r.W/2, Y: r.Y + r.H/2 - 3}, Helvetica(10), Black, AlignCenter, label)
		return
	}
	if !p.begin("image", r) {
		return
	}
	opts := fpdf.ImageOptions{ImageType: img.Format}
	if !p.images[img.Key] {
		p.pdf.RegisterImageOptionsReader(img.Key, opts, bytes.NewReader(img.Data))
		if err := p.pdf.Error(); err != nil {
			p.fail(fmt.Errorf("register image %s: %w", img.Key, err))
			return
		}
		p.images[img.Key] = true
	}
	p.pdf.ImageOptions(img.Key, r.X, p.y(r.Top()), r.W, r.H, false, opts, 0, "")
}

func (p *PDF) DrawLine(from, to Point, c Color, width float64) {
	r := Rect{X: min(from.X, to.X), Y: min(from.Y, to.Y), W: abs(to.X - from.X), H: abs(to.Y - from.Y)}
	if !p.begin("line", r) {
		return
	}
	p.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	p.pdf.SetLineWidth(width)
	p.pdf.Line(from.X, p.y(from.Y), to.X, p.y(to.Y))
}

func (p *PDF) DrawTable(topLeft Point, t Table) {
	r := Rect{X: topLeft.X, Y: topLeft.Y - t.Height(), W: t.Width(), H: t.Height()}
	if !p.begin("table", r) {
		return
	}
	s := t.Style
	p.pdf.SetDrawColor(int(s.Grid.R), int(s.Grid.G), int(s.Grid.B))
	p.pdf.SetLineWidth(s.GridWidth)

	for i, row := range t.Rows {
		fill, text, font := s.HeaderFill, s.HeaderText, s.HeaderFont
		if i > 0 {
			text, font = s.BodyText, s.BodyFont
			fill = White
			if len(s.BodyFills) > 0 {
				fill = s.BodyFills[(i-1)%len(s.BodyFills)]
			}
		}
		p.setFont(font)
		p.pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
		p.pdf.SetTextColor(int(text.R), int(text.G), int(text.B))
		p.pdf.SetXY(topLeft.X, p.y(topLeft.Y)+float64(i)*t.RowHeight)
		for j, w := range t.ColumnWidths {
			cell := ""
			if j < len(row) {
				cell = row[j]
			}
			p.pdf.CellFormat(w, t.RowHeight, p.text(cell), "1", 0, "CM", true, 0, "")
		}
	}
}

func (p *PDF) Link(r Rect, url string) {
	if !p.begin("link", r) {
		return
	}
	p.pdf.LinkString(r.X, p.y(r.Top()), r.W, r.H, url)
}

func (p *PDF) Attach(name string, data []byte, description string) {
	if p.finalized {
		p.fail(ErrFinalized)
		return
	}
	p.attached = append(p.attached, fpdf.Attachment{Content: data, Filename: name, Description: description})
}

func (p *PDF) CommitPage() {
	if p.finalized {
		p.fail(ErrFinalized)
		return
	}
	if !p.open {
		// Committing an untouched page still emits it, blank.
		p.pdf.AddPage()
	}
	p.open = false
	p.page++
}

func (p *PDF) PageNumber() int {
	return p.page
}

// PageCount is the number of pages emitted so far.
func (p *PDF) PageCount() int {
	return p.pdf.PageCount()
}

func (p *PDF) Finalize(w io.Writer) error {
	if p.finalized {
		return ErrFinalized
	}
	p.finalized = true
	if p.err != nil {
		return p.err
	}
	if p.pdf.PageCount() == 0 {
		return errors.New("canvas: document has no pages")
	}
	if len(p.attached) > 0 {
		p.pdf.SetAttachments(p.attached)
	}
	if err := p.pdf.Output(w); err != nil {
		return fmt.Errorf("PDF output error: %w", err)
	}
	return nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
