package playlist

import (
	"net/url"
	"path/filepath"
	"strings"
)

// IsValidURL performs the syntax check applied before any URL enters a
// batch: absolute http(s) with a host.
func IsValidURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// IsPurePlaylistURL reports whether the URL is a bare playlist reference
// rather than a single item. Only YouTube URLs can be classified by
// shape (a `list` query parameter without `v`); other hosts are never
// treated as playlist-shaped.
func IsPurePlaylistURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	if !strings.Contains(host, "youtube.com") && !strings.Contains(host, "youtu.be") {
		return false
	}
	q := u.Query()
	return q.Get("list") != "" && q.Get("v") == ""
}

// SingleItemTemplate is the destination template for a job outside
// playlist mode.
func SingleItemTemplate(destRoot string) string {
	return filepath.Join(destRoot, ItemTemplate)
}

// RetryPlaylistTemplate nests retried playlist members under the
// playlist title yt-dlp reports at download time.
func RetryPlaylistTemplate(destRoot string) string {
	return filepath.Join(destRoot, "%(playlist_title)s", ItemTemplate)
}
