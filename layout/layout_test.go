package layout

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"violation-report/canvas"
	"violation-report/charts"
	"violation-report/models"
)

type fakeSource struct {
	broken  map[string]bool
	batches []int
}

func (f *fakeSource) Raster(_ context.Context, rec models.ViolationRecord) *canvas.Raster {
	if f.broken[rec.ID.String()] {
		return nil
	}
	return &canvas.Raster{Key: "evidence-" + rec.ID.String(), Format: "JPG", Width: 10, Height: 10}
}

func (f *fakeSource) Prefetch(_ context.Context, records []models.ViolationRecord) {
	f.batches = append(f.batches, len(records))
}

func newContext() (*RenderContext, *canvas.Recorder) {
	rec := canvas.NewRecorder()
	site := models.SiteMetadata{Location: "North Pit", Date: "2024-05-01", DroneID: "D-7"}
	return NewRenderContext(rec, site, "Central Coalfields Limited (CCL)", "AI Surveillance Report - Test"), rec
}

func records(category string, n int) []models.ViolationRecord {
	out := make([]models.ViolationRecord, n)
	for i := range out {
		out[i] = models.ViolationRecord{
			ID:        models.Text(fmt.Sprintf("%s-%d", category, i+1)),
			Type:      category,
			Latitude:  "23.71",
			Longitude: "86.41",
		}
	}
	return out
}

func finalize(t *testing.T, rec *canvas.Recorder) []canvas.RecordedPage {
	t.Helper()
	require.NoError(t, rec.Finalize(nil))
	return rec.Pages()
}

func TestSlotsPerPage(t *testing.T) {
	g := DefaultGeometry()
	assert.Equal(t, 2, g.RowsPerPage(canvas.A4Height))
	assert.Equal(t, 4, g.SlotsPerPage(canvas.A4Height))
}

func TestEvidenceOverflow(t *testing.T) {
	testCases := []struct {
		records int
		pages   int
	}{
		{records: 1, pages: 1},
		{records: 4, pages: 1},
		{records: 5, pages: 2},
		{records: 8, pages: 2},
		{records: 9, pages: 3},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d records", tc.records), func(t *testing.T) {
			rc, rec := newContext()
			rc.EvidenceSection(context.Background(), "cracks", records("cracks", tc.records), &fakeSource{})

			pages := finalize(t, rec)
			require.Len(t, pages, tc.pages)

			placed := 0
			for i, p := range pages {
				placed += p.Count(canvas.OpImage)
				title := SectionTitle("cracks", i > 0)
				assert.True(t, p.HasText(strings.ToUpper(title)), "page %d lacks %q", p.Number, title)
			}
			assert.Equal(t, tc.records, placed)
		})
	}
}

func TestEvidenceStaysOutOfBands(t *testing.T) {
	rc, rec := newContext()
	src := &fakeSource{broken: map[string]bool{"fire-2": true, "fire-7": true}}
	rc.EvidenceSection(context.Background(), "fire", records("fire", 7), src)
	pages := finalize(t, rec)

	g := rc.Geometry
	header := canvas.Rect{X: 0, Y: g.HeaderBottom(canvas.A4Height), W: canvas.A4Width, H: g.HeaderTopMargin + g.HeaderHeight}
	footer := canvas.Rect{X: 0, Y: 0, W: canvas.A4Width, H: g.FooterTop()}

	for _, p := range pages {
		// Header is the first four ops, footer the last two.
		content := p.Ops[4 : len(p.Ops)-2]
		require.NotEmpty(t, content)
		for _, op := range content {
			assert.False(t, op.Rect.Intersects(header), "page %d: %s %v overlaps header", p.Number, op.Kind, op.Rect)
			assert.False(t, op.Rect.Intersects(footer), "page %d: %s %v overlaps footer", p.Number, op.Kind, op.Rect)
		}
	}
}

func TestEvidenceRowsHoldTwoImages(t *testing.T) {
	rc, rec := newContext()
	src := &fakeSource{broken: map[string]bool{"smoke-3": true}}
	rc.EvidenceSection(context.Background(), "smoke", records("smoke", 11), src)

	for _, p := range finalize(t, rec) {
		perRow := map[float64]int{}
		for _, op := range p.Ops {
			if op.Kind == canvas.OpImage || op.Kind == canvas.OpPlaceholder {
				perRow[op.Rect.Y]++
			}
		}
		for y, n := range perRow {
			assert.LessOrEqual(t, n, 2, "page %d row %.1f", p.Number, y)
		}
	}
}

func TestEvidencePlaceholder(t *testing.T) {
	rc, rec := newContext()
	src := &fakeSource{broken: map[string]bool{"fire-1": true}}
	rc.EvidenceSection(context.Background(), "fire", records("fire", 2), src)

	pages := finalize(t, rec)
	require.Len(t, pages, 1)
	ph := pages[0].Filter(canvas.OpPlaceholder)
	require.Len(t, ph, 1)
	assert.Equal(t, PlaceholderLabel, ph[0].Text)
	assert.True(t, pages[0].HasText("Alert ID: fire-1"))
	assert.True(t, pages[0].HasText("GPS: 23.71, 86.41"))
	assert.True(t, pages[0].HasText("Timestamp: N/A"))
}

func TestEvidencePrefetchesPerPage(t *testing.T) {
	rc, rec := newContext()
	src := &fakeSource{}
	rc.EvidenceSection(context.Background(), "cracks", records("cracks", 9), src)
	finalize(t, rec)

	assert.Equal(t, []int{4, 4, 1}, src.batches)
}

func TestEvidenceLogSkipsEmptyCategories(t *testing.T) {
	all := append(records("fire", 2), records("cracks", 5)...)
	set, err := models.NewRecordSet(all)
	require.NoError(t, err)

	rc, rec := newContext()
	err = rc.EvidenceLog(context.Background(), set, models.ViolationTypes, &fakeSource{})
	require.NoError(t, err)

	pages := finalize(t, rec)
	require.Len(t, pages, 3)
	// cracks precedes fire in the enumeration.
	assert.True(t, pages[0].HasText("EVIDENCE: CRACKS"))
	assert.True(t, pages[1].HasText("EVIDENCE: CRACKS (CONT.)"))
	assert.True(t, pages[2].HasText("EVIDENCE: FIRE"))
}

func TestEvidenceLogHonoursCancellation(t *testing.T) {
	set, err := models.NewRecordSet(records("fire", 1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rc, _ := newContext()
	assert.ErrorIs(t, rc.EvidenceLog(ctx, set, models.ViolationTypes, &fakeSource{}), context.Canceled)
}

func TestPageNumbersHaveNoGaps(t *testing.T) {
	all := append(records("fire", 6), records("smoke", 1)...)
	set, err := models.NewRecordSet(all)
	require.NoError(t, err)

	rc, rec := newContext()
	summary := set.Summary()
	rc.Cover(summary, "Vendor", "Recipient")
	rc.Analytics(nil, charts.Frequencies(set))
	require.NoError(t, rc.EvidenceLog(context.Background(), set, models.ViolationTypes, &fakeSource{}))
	rc.Conclusion(summary, nil)

	pages := finalize(t, rec)
	require.Len(t, pages, 6)
	for i, p := range pages {
		assert.Equal(t, i+1, p.Number)
		assert.True(t, p.HasText(fmt.Sprintf("| Page %d", i+1)), "page %d footer", p.Number)
	}
}

func TestCover(t *testing.T) {
	rc, rec := newContext()
	rc.Site.VideoLink = "https://example.com/flight.mp4"
	rc.Cover(models.Summary{Total: 5, TopCategory: "cracks"}, "Aerovania Pvt. Ltd.", "CCL Safety Division")

	pages := finalize(t, rec)
	require.Len(t, pages, 1)
	p := pages[0]
	// header panel, six cards, submission and video boxes
	assert.Equal(t, 1+6+2, p.Count(canvas.OpBox))
	assert.True(t, p.HasText("Cracks"))
	assert.True(t, p.HasText("Review Required"))
	assert.True(t, p.HasText("Submitted By: Aerovania Pvt. Ltd."))
	links := p.Filter(canvas.OpLink)
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com/flight.mp4", links[0].Text)
}

func TestCoverWithoutVideo(t *testing.T) {
	rc, rec := newContext()
	rc.Cover(models.Summary{Total: 1, TopCategory: "fire"}, "A", "B")

	p := finalize(t, rec)[0]
	assert.True(t, p.HasText(NoVideoLink))
	assert.Equal(t, 0, p.Count(canvas.OpLink))
}

func TestCoverTruncatesLongValues(t *testing.T) {
	rc, rec := newContext()
	rc.Site.Location = strings.Repeat("Very Long Site Name ", 10)
	rc.Cover(models.Summary{Total: 1, TopCategory: "fire"}, "A", "B")

	require.NoError(t, rec.Err())
	p := finalize(t, rec)[0]
	assert.True(t, p.HasText("..."))
}

func TestAnalyticsTableClearsFooter(t *testing.T) {
	var all []models.ViolationRecord
	for _, typ := range models.ViolationTypes {
		all = append(all, records(typ, 1)...)
	}
	set, err := models.NewRecordSet(all)
	require.NoError(t, err)

	rc, rec := newContext()
	rc.Analytics(nil, charts.Frequencies(set))

	p := finalize(t, rec)[0]
	tables := p.Filter(canvas.OpTable)
	require.Len(t, tables, 1)
	assert.Greater(t, tables[0].Rect.Y, rc.Geometry.FooterTop())
	assert.Equal(t, "Violation Category | Count | Risk Level", tables[0].Text)
	// The missing chart is drawn as a placeholder.
	assert.Equal(t, 1, p.Count(canvas.OpPlaceholder))
}

func TestConclusion(t *testing.T) {
	rc, rec := newContext()
	rc.Conclusion(models.Summary{Total: 5, TopCategory: "water_logging_at_toe_OB_dump"}, []string{"23.7100, 86.4100 (3 alerts)"})

	p := finalize(t, rec)[0]
	assert.True(t, p.HasText("identified 5 safety deviations"))
	assert.True(t, p.HasText("Priority attention is required for: WATER LOGGING AT TOE OB DUMP."))
	assert.True(t, p.HasText("23.7100, 86.4100 (3 alerts)"))
	assert.True(t, p.HasText("Verification by a Safety Officer is mandatory"))
	assert.True(t, p.HasText("| Page 1"))
}

func TestCardGridDropsExtraCards(t *testing.T) {
	rc, rec := newContext()
	cards := make([]Card, 8)
	for i := range cards {
		cards[i] = Card{Label: fmt.Sprintf("L%d", i), Value: "v"}
	}
	bottom := rc.CardGrid(rc.Header("cards"), cards)
	rc.FinishPage()

	p := finalize(t, rec)[0]
	assert.Equal(t, 1+6, p.Count(canvas.OpBox))
	assert.False(t, p.HasText("L7"))
	assert.InDelta(t, rc.Geometry.HeaderBottom(canvas.A4Height)-111-105, bottom, 0.001)
}
