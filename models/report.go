package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Placeholder is shown for any absent optional record field.
	Placeholder = "N/A"

	DefaultLocation = "Site"
	DefaultDate     = "Not Recorded"
	DefaultDroneID  = "DRONE-X"
)

// Text is a JSON scalar (string, number or bool) kept in its textual form.
// Upstream detectors send ids and coordinates both quoted and unquoted.
type Text string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
		return nil
	case '{', '[':
		return fmt.Errorf("expected a scalar value, got %s", b)
	}
	*t = Text(b)
	return nil
}

// String returns the raw text.
func (t Text) String() string {
	return string(t)
}

// OrPlaceholder returns the text, or Placeholder when empty.
func (t Text) OrPlaceholder() string {
	if t == "" {
		return Placeholder
	}
	return string(t)
}

// Float parses the text as a float.
func (t Text) Float() (float64, bool) {
	if t == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(t), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ViolationRecord is one detected violation with its photographic evidence.
type ViolationRecord struct {
	ID        Text   `json:"id"`
	Type      string `json:"type"`
	ImageURL  string `json:"image_url"`
	Latitude  Text   `json:"latitude"`
	Longitude Text   `json:"longitude"`
	Timestamp Text   `json:"timestamp"`
}

// GPS renders the coordinates as shown in evidence captions.
func (r ViolationRecord) GPS() string {
	return r.Latitude.OrPlaceholder() + ", " + r.Longitude.OrPlaceholder()
}

// LatLng returns the parsed coordinates when both are present and in range.
func (r ViolationRecord) LatLng() (lat, lng float64, ok bool) {
	lat, okLat := r.Latitude.Float()
	lng, okLng := r.Longitude.Float()
	if !okLat || !okLng || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

// SiteMetadata describes the inspected site; supplied once per report.
type SiteMetadata struct {
	Location  string
	Date      string
	DroneID   string
	VideoLink string
}

// ReportRequest is the payload accepted by the generator.
type ReportRequest struct {
	Location   Text              `json:"location"`
	Date       Text              `json:"date"`
	DroneID    Text              `json:"drone_id"`
	VideoLink  string            `json:"video_link,omitempty"`
	Violations []ViolationRecord `json:"violations"`
}

// Site returns the site metadata with defaults applied.
func (r *ReportRequest) Site() SiteMetadata {
	site := SiteMetadata{
		Location:  DefaultLocation,
		Date:      DefaultDate,
		DroneID:   DefaultDroneID,
		VideoLink: strings.TrimSpace(r.VideoLink),
	}
	if r.Location != "" {
		site.Location = strings.ReplaceAll(r.Location.String(), "_", " ")
	}
	if r.Date != "" {
		site.Date = r.Date.String()
	}
	if r.DroneID != "" {
		site.DroneID = r.DroneID.String()
	}
	return site
}
