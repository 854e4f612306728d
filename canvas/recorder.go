package canvas

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"
)

// OpKind names a recorded drawing primitive.
type OpKind string

const (
	OpBox         OpKind = "box"
	OpStroke      OpKind = "stroke"
	OpText        OpKind = "text"
	OpImage       OpKind = "image"
	OpPlaceholder OpKind = "placeholder"
	OpLine        OpKind = "line"
	OpTable       OpKind = "table"
	OpLink        OpKind = "link"
)

// Op is one recorded primitive with the area it covers.
type Op struct {
	Kind OpKind
	Rect Rect
	Text string // text, placeholder label, link URL or table header
	Key  string // raster key for images
}

// RecordedPage is a committed page and everything drawn on it.
type RecordedPage struct {
	Number int
	Ops    []Op
}

// Count returns how many ops of the given kind the page holds.
func (p RecordedPage) Count(kind OpKind) int {
	n := 0
	for _, op := range p.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Filter returns the ops of the given kind in drawing order.
func (p RecordedPage) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range p.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// HasText reports whether any text op on the page contains s.
func (p RecordedPage) HasText(s string) bool {
	for _, op := range p.Ops {
		if op.Kind == OpText && strings.Contains(op.Text, s) {
			return true
		}
	}
	return false
}

// Recorder is a Surface that keeps a structural record of every page instead
// of rendering. It enforces the same bounds and lifecycle rules as PDF.
type Recorder struct {
	width, height float64

	pages       []RecordedPage
	current     []Op
	attachments map[string][]byte
	finalized   bool
	err         error
}

// NewRecorder returns a Recorder with an A4 page.
func NewRecorder() *Recorder {
	return &Recorder{
		width:       A4Width,
		height:      A4Height,
		attachments: make(map[string][]byte),
	}
}

func (r *Recorder) Size() (float64, float64) {
	return r.width, r.height
}

func (r *Recorder) record(op Op) {
	if r.finalized {
		r.fail(ErrFinalized)
		return
	}
	if r.err != nil {
		return
	}
	if err := checkBounds(r.width, r.height, op.Rect); err != nil {
		r.fail(fmt.Errorf("%s %v on page %d: %w", op.Kind, op.Rect, r.PageNumber(), err))
		return
	}
	r.current = append(r.current, op)
}

func (r *Recorder) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *Recorder) DrawBox(rect Rect, _ float64, _ Color) {
	r.record(Op{Kind: OpBox, Rect: rect})
}

func (r *Recorder) StrokeBox(rect Rect, _ Color, _ float64) {
	r.record(Op{Kind: OpStroke, Rect: rect})
}

// TextWidth estimates Helvetica at half an em per character.
func (r *Recorder) TextWidth(f Font, text string) float64 {
	return 0.5 * f.Size * float64(utf8.RuneCountInString(text))
}

func (r *Recorder) DrawText(at Point, f Font, _ Color, align Align, text string) {
	r.record(Op{Kind: OpText, Rect: textRect(at, f.Size, r.TextWidth(f, text), align), Text: text})
}

func (r *Recorder) DrawImage(rect Rect, img *Raster, label string) {
	if img == nil {
		r.record(Op{Kind: OpPlaceholder, Rect: rect, Text: label})
		return
	}
	r.record(Op{Kind: OpImage, Rect: rect, Key: img.Key})
}

func (r *Recorder) DrawLine(from, to Point, _ Color, _ float64) {
	rect := Rect{X: min(from.X, to.X), Y: min(from.Y, to.Y), W: abs(to.X - from.X), H: abs(to.Y - from.Y)}
	r.record(Op{Kind: OpLine, Rect: rect})
}

func (r *Recorder) DrawTable(topLeft Point, t Table) {
	header := ""
	if len(t.Rows) > 0 {
		header = strings.Join(t.Rows[0], " | ")
	}
	r.record(Op{Kind: OpTable, Rect: Rect{X: topLeft.X, Y: topLeft.Y - t.Height(), W: t.Width(), H: t.Height()}, Text: header})
	// Body cells are recorded as text so tests can look rows up.
	for i, row := range t.Rows[min(1, len(t.Rows)):] {
		y := topLeft.Y - float64(i+2)*t.RowHeight
		r.record(Op{Kind: OpText, Rect: Rect{X: topLeft.X, Y: y, W: t.Width(), H: t.RowHeight}, Text: strings.Join(row, " | ")})
	}
}

func (r *Recorder) Link(rect Rect, url string) {
	r.record(Op{Kind: OpLink, Rect: rect, Text: url})
}

func (r *Recorder) Attach(name string, data []byte, _ string) {
	if r.finalized {
		r.fail(ErrFinalized)
		return
	}
	r.attachments[name] = data
}

func (r *Recorder) CommitPage() {
	if r.finalized {
		r.fail(ErrFinalized)
		return
	}
	r.pages = append(r.pages, RecordedPage{Number: len(r.pages) + 1, Ops: r.current})
	r.current = nil
}

func (r *Recorder) PageNumber() int {
	return len(r.pages) + 1
}

// Finalize writes a plain-text page plan to w.
func (r *Recorder) Finalize(w io.Writer) error {
	if r.finalized {
		return ErrFinalized
	}
	r.finalized = true
	if r.err != nil {
		return r.err
	}
	if len(r.current) > 0 {
		r.pages = append(r.pages, RecordedPage{Number: len(r.pages) + 1, Ops: r.current})
		r.current = nil
	}
	if w == nil {
		return nil
	}
	return r.writePlan(w)
}

// Err returns the first recorded error.
func (r *Recorder) Err() error {
	return r.err
}

// Pages returns the committed pages.
func (r *Recorder) Pages() []RecordedPage {
	return r.pages
}

// Attachment returns an embedded file by name.
func (r *Recorder) Attachment(name string) ([]byte, bool) {
	b, ok := r.attachments[name]
	return b, ok
}

func (r *Recorder) writePlan(w io.Writer) error {
	for _, p := range r.pages {
		title := ""
		// The second text op of a page is the header subtitle.
		if texts := p.Filter(OpText); len(texts) > 1 {
			title = texts[1].Text
		}
		if _, err := fmt.Fprintf(w, "page %d  %-48s images=%d placeholders=%d\n",
			p.Number, title, p.Count(OpImage), p.Count(OpPlaceholder)); err != nil {
			return err
		}
	}
	names := make([]string, 0, len(r.attachments))
	for name := range r.attachments {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(w, "attachment %s (%d bytes)\n", name, len(r.attachments[name])); err != nil {
			return err
		}
	}
	return nil
}
