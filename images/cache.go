package images

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"violation-report/canvas"
	"violation-report/metrics"
	"violation-report/models"
)

var ErrCacheClosed = errors.New("image cache closed")

// Image is a decoded, normalized evidence photo.
type Image struct {
	RGB    *image.RGBA
	Raster *canvas.Raster
}

// Entry is the cached outcome of one acquisition: either an Image or the
// reason it is unavailable. Entries never change once created.
type Entry struct {
	ID     string
	Image  *Image
	Reason error
}

// Available reports whether the entry holds an image.
func (e *Entry) Available() bool {
	return e != nil && e.Image != nil
}

// Options tune acquisition.
type Options struct {
	MaxDimension int
	Workers      int
	Stamp        bool
}

type slot struct {
	once  sync.Once
	entry *Entry
}

// Cache memoizes image acquisitions by record id for the lifetime of one
// report build. Each id is fetched at most once, even under concurrent
// lookups; failures are cached too, so they are never retried.
type Cache struct {
	fetcher Fetcher
	opts    Options

	mu      sync.Mutex
	entries map[string]*slot
	closed  bool
}

// NewCache creates an empty cache fetching through fetcher.
func NewCache(fetcher Fetcher, opts Options) *Cache {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Cache{
		fetcher: fetcher,
		opts:    opts,
		entries: make(map[string]*slot),
	}
}

// Acquire returns the image for id, fetching rawURL on first use only.
func (c *Cache) Acquire(ctx context.Context, id, rawURL string) *Entry {
	return c.acquire(ctx, id, rawURL, nil)
}

// AcquireRecord acquires a record's evidence photo, stamping it with the
// record's caption when stamping is enabled. Acquire and AcquireRecord share
// entries: whichever runs first for an id decides the stored image.
func (c *Cache) AcquireRecord(ctx context.Context, rec models.ViolationRecord) *Entry {
	var stamp []string
	if c.opts.Stamp {
		stamp = []string{
			"Alert ID: " + rec.ID.String(),
			"GPS: " + rec.GPS(),
			"Time: " + rec.Timestamp.OrPlaceholder(),
		}
	}
	return c.acquire(ctx, rec.ID.String(), rec.ImageURL, stamp)
}

func (c *Cache) acquire(ctx context.Context, id, rawURL string, stamp []string) *Entry {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return &Entry{ID: id, Reason: ErrCacheClosed}
	}
	s, hit := c.entries[id]
	if !hit {
		s = &slot{}
		c.entries[id] = s
	}
	c.mu.Unlock()

	if hit {
		metrics.ImageAcquisitionsTotal.WithLabelValues("cache_hit").Inc()
	}
	s.once.Do(func() {
		s.entry = c.load(ctx, id, rawURL, stamp)
	})
	return s.entry
}

func (c *Cache) load(ctx context.Context, id, rawURL string, stamp []string) *Entry {
	start := time.Now()
	url := NormalizeURL(rawURL)
	logger := log.WithFields(log.Fields{"record_id": id, "url": url})

	fail := func(err error) *Entry {
		logger.WithError(err).Warn("Evidence image unavailable")
		metrics.ImageAcquisitionsTotal.WithLabelValues("unavailable").Inc()
		return &Entry{ID: id, Reason: err}
	}

	if url == "" {
		return fail(ErrNoURL)
	}
	data, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return fail(err)
	}
	rgb, err := Decode(data, c.opts.MaxDimension)
	if err != nil {
		return fail(err)
	}
	if len(stamp) > 0 {
		Stamp(rgb, stamp...)
	}
	raster, err := EncodeRaster("evidence-"+id, rgb)
	if err != nil {
		return fail(err)
	}

	metrics.ImageAcquisitionsTotal.WithLabelValues("fetched").Inc()
	metrics.ImageFetchDurationSeconds.Observe(time.Since(start).Seconds())
	logger.Debugf("Fetched evidence image %dx%d in %v", raster.Width, raster.Height, time.Since(start))
	return &Entry{ID: id, Image: &Image{RGB: rgb, Raster: raster}}
}

// Prefetch acquires a batch of records concurrently, bounded by the worker
// count. It returns once every record has an entry.
func (c *Cache) Prefetch(ctx context.Context, records []models.ViolationRecord) {
	var g errgroup.Group
	g.SetLimit(c.opts.Workers)
	for _, rec := range records {
		rec := rec
		g.Go(func() error {
			c.AcquireRecord(ctx, rec)
			return nil
		})
	}
	_ = g.Wait()
}

// Raster returns the placeable evidence photo for rec, or nil when it is
// unavailable.
func (c *Cache) Raster(ctx context.Context, rec models.ViolationRecord) *canvas.Raster {
	e := c.AcquireRecord(ctx, rec)
	if !e.Available() {
		return nil
	}
	return e.Image.Raster
}

// Unavailable lists the ids whose acquisition failed, with reasons.
func (c *Cache) Unavailable() map[string]error {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]error)
	for id, s := range c.entries {
		if s.entry != nil && !s.entry.Available() {
			out[id] = s.entry.Reason
		}
	}
	return out
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close discards every entry and releases the fetcher's connections. Later
// acquisitions report ErrCacheClosed.
func (c *Cache) Close() {
	c.mu.Lock()
	c.closed = true
	c.entries = make(map[string]*slot)
	c.mu.Unlock()

	if closer, ok := c.fetcher.(interface{ Close() }); ok {
		closer.Close()
	}
}
