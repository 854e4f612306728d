package layout

import (
	"context"
	"fmt"

	"github.com/apex/log"

	"violation-report/canvas"
	"violation-report/models"
)

// PlaceholderLabel is shown in place of an evidence photo that could not be
// acquired.
const PlaceholderLabel = "Image Link Broken"

// ImageSource resolves the evidence photo of a record. A nil raster means the
// photo is unavailable.
type ImageSource interface {
	Raster(ctx context.Context, rec models.ViolationRecord) *canvas.Raster
}

// Prefetcher is implemented by image sources that can acquire a batch of
// photos ahead of placement.
type Prefetcher interface {
	Prefetch(ctx context.Context, records []models.ViolationRecord)
}

// Cursor is the placement position within an evidence page: the baseline y
// of the current image row and the number of slots used on the page.
type Cursor struct {
	Y    float64
	Slot int
}

// SectionTitle is the header subtitle of an evidence page.
func SectionTitle(category string, continuation bool) string {
	title := "Evidence: " + models.CategoryLabel(category)
	if continuation {
		title += " (Cont.)"
	}
	return title
}

// EvidenceLog emits one evidence section per non-empty category, in the order
// of categories. Each section starts a page and ends with a committed page;
// categories without records draw nothing.
func (rc *RenderContext) EvidenceLog(ctx context.Context, set *models.RecordSet, categories []string, source ImageSource) error {
	for _, category := range categories {
		records := set.ByCategory(category)
		if len(records) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("evidence for %s: %w", category, err)
		}
		rc.EvidenceSection(ctx, category, records, source)
	}
	return nil
}

// EvidenceSection lays out the records of one category across as many pages
// as they need.
func (rc *RenderContext) EvidenceSection(ctx context.Context, category string, records []models.ViolationRecord, source ImageSource) {
	g := rc.Geometry
	h := rc.PageHeight()
	slots := g.SlotsPerPage(h)
	cols := len(g.EvidenceColumns)
	start := rc.PageNumber()

	rc.Header(SectionTitle(category, false))
	rc.prefetch(ctx, source, records, 0, slots)
	cur := Cursor{Y: g.EvidenceStart(h)}

	for i, rec := range records {
		if cur.Slot > 0 && cur.Slot%cols == 0 {
			cur.Y -= g.RowStep
		}
		if cur.Y < g.MinCursor {
			rc.FinishPage()
			rc.Header(SectionTitle(category, true))
			rc.prefetch(ctx, source, records, i, slots)
			cur = Cursor{Y: g.EvidenceStart(h)}
		}

		rc.evidenceSlot(g.EvidenceColumns[cur.Slot%cols], cur.Y, rec, source.Raster(ctx, rec))
		cur.Slot++
	}
	rc.FinishPage()

	log.WithFields(log.Fields{
		"category": category,
		"records":  len(records),
		"pages":    rc.PageNumber() - start,
	}).Debug("Evidence section laid out")
}

// PageNumber is the number of the page being drawn.
func (rc *RenderContext) PageNumber() int {
	return rc.Surface.PageNumber()
}

func (rc *RenderContext) prefetch(ctx context.Context, source ImageSource, records []models.ViolationRecord, from, n int) {
	p, ok := source.(Prefetcher)
	if !ok || n <= 0 {
		return
	}
	p.Prefetch(ctx, records[from:min(len(records), from+n)])
}

// evidenceSlot draws the photo (or placeholder) with its lower-left corner at
// (x, y) and the three caption lines below it.
func (rc *RenderContext) evidenceSlot(x, y float64, rec models.ViolationRecord, img *canvas.Raster) {
	g := rc.Geometry
	rc.Surface.DrawImage(canvas.Rect{X: x, Y: y, W: g.ImageWidth, H: g.ImageHeight}, img, PlaceholderLabel)

	id := canvas.HelveticaBold(9)
	rc.Surface.DrawText(canvas.Point{X: x, Y: y - 15}, id, rc.Theme.Text, canvas.AlignLeft,
		rc.Fit(id, "Alert ID: "+rec.ID.String(), g.ImageWidth))

	detail := canvas.Helvetica(8)
	rc.Surface.DrawText(canvas.Point{X: x, Y: y - 28}, detail, rc.Theme.TextGray, canvas.AlignLeft,
		rc.Fit(detail, "GPS: "+rec.GPS(), g.ImageWidth))
	rc.Surface.DrawText(canvas.Point{X: x, Y: y - 38}, detail, rc.Theme.TextGray, canvas.AlignLeft,
		rc.Fit(detail, "Timestamp: "+rec.Timestamp.OrPlaceholder(), g.ImageWidth))
}
