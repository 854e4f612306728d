package images

import (
	"net/url"
	"strings"
)

const driveDownloadURL = "https://drive.google.com/uc?export=download&id="

// NormalizeURL rewrites Google Drive share links ("/file/d/<id>/view" and
// "/open?id=<id>") to their direct-download form. Anything else, including a
// Drive link whose file id cannot be extracted, is returned unchanged.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "drive.google.com") {
		return raw
	}

	if _, rest, ok := strings.Cut(raw, "/file/d/"); ok {
		id, _, _ := strings.Cut(rest, "/")
		id, _, _ = strings.Cut(id, "?")
		if id == "" {
			return raw
		}
		return driveDownloadURL + url.QueryEscape(id)
	}

	if u, err := url.Parse(raw); err == nil && strings.HasPrefix(u.Path, "/open") {
		if id := u.Query().Get("id"); id != "" {
			return driveDownloadURL + url.QueryEscape(id)
		}
	}

	return raw
}
