// Package report assembles the violation report: cover, analytics, evidence
// by category and conclusion, in that fixed order.
package report

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/apex/log"

	"violation-report/canvas"
	"violation-report/config"
	"violation-report/images"
	"violation-report/layout"
	"violation-report/metrics"
	"violation-report/models"
)

// FileName is the name the document is delivered under.
const FileName = "Drone_Report.pdf"

// Options configure a Generator.
type Options struct {
	Organization string
	Vendor       string
	Recipient    string

	FetchTimeout      time.Duration
	UserAgent         string
	PrefetchWorkers   int
	MaxImageDimension int
	StampEvidence     bool

	// Categories is the section order of the evidence log.
	Categories []string

	// NewFetcher creates the image fetcher of one build. Nil uses an
	// HTTPFetcher.
	NewFetcher func() images.Fetcher
}

// OptionsFromConfig maps service configuration onto generator options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Organization:      cfg.Organization,
		Vendor:            cfg.Vendor,
		Recipient:         cfg.Recipient,
		FetchTimeout:      cfg.ImageFetchTimeout,
		UserAgent:         cfg.ImageUserAgent,
		PrefetchWorkers:   cfg.PrefetchWorkers,
		MaxImageDimension: cfg.MaxImageDimension,
		StampEvidence:     cfg.StampEvidence,
	}
}

// Document is a finished report.
type Document struct {
	Name        string
	Data        []byte
	Pages       int
	Unavailable map[string]error // record id to reason
}

// Generator builds reports. It holds no per-build state and may be shared.
type Generator struct {
	opts Options
}

// NewGenerator creates a generator.
func NewGenerator(opts Options) *Generator {
	if len(opts.Categories) == 0 {
		opts.Categories = models.ViolationTypes
	}
	if opts.NewFetcher == nil {
		timeout, agent := opts.FetchTimeout, opts.UserAgent
		opts.NewFetcher = func() images.Fetcher {
			return images.NewHTTPFetcher(timeout, agent)
		}
	}
	return &Generator{opts: opts}
}

// Build renders req to PDF. The document is returned only when every page
// has been drawn; on error nothing is returned.
func (g *Generator) Build(ctx context.Context, req *models.ReportRequest) (*Document, error) {
	start := time.Now()
	doc, err := g.build(ctx, req)
	metrics.BuildDurationSeconds.Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		metrics.ReportsBuiltTotal.WithLabelValues("ok").Inc()
		metrics.ReportPages.Observe(float64(doc.Pages))
		log.WithFields(log.Fields{
			"pages":       doc.Pages,
			"bytes":       len(doc.Data),
			"unavailable": len(doc.Unavailable),
			"duration":    time.Since(start).String(),
		}).Info("Report built")
	case models.IsInputError(err):
		metrics.ReportsBuiltTotal.WithLabelValues("input_error").Inc()
	default:
		metrics.ReportsBuiltTotal.WithLabelValues("error").Inc()
		log.WithError(err).Error("Report build failed")
	}
	return doc, err
}

func (g *Generator) build(ctx context.Context, req *models.ReportRequest) (*Document, error) {
	set, err := models.NewRecordSet(req.Violations)
	if err != nil {
		return nil, err
	}

	pdf := canvas.NewPDF(g.opts.Organization + " - Safety Report")
	var buf bytes.Buffer
	a := g.newAssembler(pdf, set, req.Site())
	if err := a.run(ctx, &buf); err != nil {
		return nil, err
	}
	return &Document{
		Name:        FileName,
		Data:        buf.Bytes(),
		Pages:       pdf.PageCount(),
		Unavailable: a.unavailable,
	}, nil
}

// Plan lays req out on a Recorder instead of a PDF and writes the page plan
// to w. Images are still acquired so placeholders show up in the plan.
func (g *Generator) Plan(ctx context.Context, req *models.ReportRequest, w io.Writer) (*canvas.Recorder, error) {
	set, err := models.NewRecordSet(req.Violations)
	if err != nil {
		return nil, err
	}
	rec := canvas.NewRecorder()
	if err := g.newAssembler(rec, set, req.Site()).run(ctx, w); err != nil {
		return nil, err
	}
	return rec, nil
}

func (g *Generator) newAssembler(surface canvas.Surface, set *models.RecordSet, site models.SiteMetadata) *assembler {
	caption := "AI Surveillance Report - " + g.opts.Vendor
	return &assembler{
		opts: g.opts,
		set:  set,
		rc:   layout.NewRenderContext(surface, site, g.opts.Organization, caption),
		cache: images.NewCache(g.opts.NewFetcher(), images.Options{
			MaxDimension: g.opts.MaxImageDimension,
			Workers:      g.opts.PrefetchWorkers,
			Stamp:        g.opts.StampEvidence,
		}),
	}
}
