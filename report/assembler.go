package report

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apex/log"

	"violation-report/charts"
	"violation-report/images"
	"violation-report/layout"
	"violation-report/models"
)

// State is a stage of report assembly.
type State int

const (
	StateCover State = iota
	StateAnalytics
	StateEvidence
	StateConclusion
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateCover:
		return "cover"
	case StateAnalytics:
		return "analytics"
	case StateEvidence:
		return "evidence"
	case StateConclusion:
		return "conclusion"
	case StateFinalized:
		return "finalized"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var errFinished = errors.New("report already finalized")

// assembler drives one build through the page sequence. Each step draws the
// pages of its state and advances to the next; there is no way back.
type assembler struct {
	opts  Options
	state State
	set   *models.RecordSet
	rc    *layout.RenderContext
	cache *images.Cache

	unavailable map[string]error
}

// run executes every state and writes the document to w. The image cache is
// torn down however the run ends.
func (a *assembler) run(ctx context.Context, w io.Writer) error {
	defer a.cache.Close()

	for a.state != StateFinalized {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", a.state, err)
		}
		state := a.state
		if err := a.step(ctx, w); err != nil {
			return fmt.Errorf("%s: %w", state, err)
		}
	}
	return nil
}

func (a *assembler) step(ctx context.Context, w io.Writer) error {
	summary := a.set.Summary()

	switch a.state {
	case StateCover:
		a.rc.Cover(summary, a.opts.Vendor, a.opts.Recipient)
		a.state = StateAnalytics

	case StateAnalytics:
		freqs := charts.Frequencies(a.set)
		chart, err := charts.BarChart(freqs, int(layout.ChartWidth), int(layout.ChartHeight))
		if err != nil {
			return err
		}
		a.rc.Analytics(chart, freqs)
		a.state = StateEvidence

	case StateEvidence:
		if err := a.rc.EvidenceLog(ctx, a.set, a.opts.Categories, a.cache); err != nil {
			return err
		}
		a.unavailable = a.cache.Unavailable()
		if n := len(a.unavailable); n > 0 {
			log.Warnf("%d of %d evidence images unavailable, placeholders drawn", n, a.set.Len())
		}
		a.state = StateConclusion

	case StateConclusion:
		records := a.set.Records()
		var flagged []string
		for _, h := range Hotspots(records) {
			flagged = append(flagged, h.String())
		}
		a.rc.Conclusion(summary, flagged)

		annex, err := Annex(records, a.rc.Site)
		if err != nil {
			return err
		}
		a.rc.Surface.Attach(AnnexName, annex, "Geolocated violations")

		if err := a.rc.Surface.Finalize(w); err != nil {
			return err
		}
		a.state = StateFinalized

	default:
		return errFinished
	}
	return nil
}
