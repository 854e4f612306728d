package report

import (
	"fmt"
	"sort"

	"github.com/golang/geo/s2"
	geojson "github.com/paulmach/go.geojson"

	"violation-report/models"
)

const (
	// AnnexName is the file name of the embedded GeoJSON annex.
	AnnexName = "violations.geojson"

	// Level 16 cells are roughly 150m across, about one bench of a pit.
	hotspotLevel = 16
	maxHotspots  = 3
	minHotspot   = 2
)

// Hotspot is an s2 cell holding several geolocated violations.
type Hotspot struct {
	Cell  s2.CellID
	Count int
}

func (h Hotspot) String() string {
	ll := h.Cell.LatLng()
	return fmt.Sprintf("%.5f, %.5f (%d alerts)", ll.Lat.Degrees(), ll.Lng.Degrees(), h.Count)
}

// Hotspots groups the geolocated records into s2 cells and returns the
// busiest cells with at least two records, most records first.
func Hotspots(records []models.ViolationRecord) []Hotspot {
	counts := make(map[s2.CellID]int)
	for _, r := range records {
		lat, lng, ok := r.LatLng()
		if !ok {
			continue
		}
		cell := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng)).Parent(hotspotLevel)
		counts[cell]++
	}

	out := make([]Hotspot, 0, len(counts))
	for cell, n := range counts {
		if n >= minHotspot {
			out = append(out, Hotspot{Cell: cell, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Cell < out[j].Cell
	})
	if len(out) > maxHotspots {
		out = out[:maxHotspots]
	}
	return out
}

// Annex encodes the geolocated records as a GeoJSON feature collection of
// points. Records without usable coordinates are left out.
func Annex(records []models.ViolationRecord, site models.SiteMetadata) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		lat, lng, ok := r.LatLng()
		if !ok {
			continue
		}
		f := geojson.NewPointFeature([]float64{lng, lat})
		f.SetProperty("id", r.ID.String())
		f.SetProperty("type", r.Type)
		f.SetProperty("timestamp", r.Timestamp.String())
		f.SetProperty("image_url", r.ImageURL)
		f.SetProperty("site", site.Location)
		f.SetProperty("drone_id", site.DroneID)
		fc.AddFeature(f)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode geojson annex: %w", err)
	}
	return data, nil
}
