package playlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"simple-media-downloader/internal/ytdlp"
)

// ErrNotAPlaylist reports that a URL resolved to something other than a
// playlist (typically a single video). Callers treat this as skip and
// continue, never as a batch abort.
var ErrNotAPlaylist = errors.New("not a playlist")

// Info is the resolved playlist metadata: title plus ordered member
// URLs, no media downloaded.
type Info struct {
	Title      string
	MemberURLs []string
}

// Resolver turns a playlist URL into ordered member metadata.
type Resolver interface {
	Resolve(url string) (Info, error)
}

// YTDLPResolver resolves playlists via yt-dlp's flat-playlist JSON dump.
type YTDLPResolver struct{}

type flatCollection struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Entries *[]flatEntry `json:"entries"`
}

type flatEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func (YTDLPResolver) Resolve(url string) (Info, error) {
	raw, err := ytdlp.FlatPlaylistJSON(url)
	if err != nil {
		return Info{}, err
	}
	return parseFlatPlaylist(raw)
}

// parseFlatPlaylist distinguishes a missing entries key (single video,
// not a playlist) from a present-but-empty member list (a genuine
// playlist with nothing in it).
func parseFlatPlaylist(raw []byte) (Info, error) {
	var c flatCollection
	if err := json.Unmarshal(raw, &c); err != nil {
		return Info{}, fmt.Errorf("parse yt-dlp playlist JSON: %w", err)
	}
	if c.Entries == nil {
		return Info{}, ErrNotAPlaylist
	}

	urls := make([]string, 0, len(*c.Entries))
	for _, e := range *c.Entries {
		// Members without a resolvable URL are malformed metadata and
		// are dropped; the playlist is best-effort.
		u := memberURL(e)
		if u == "" {
			continue
		}
		urls = append(urls, u)
	}

	return Info{
		Title:      strings.TrimSpace(c.Title),
		MemberURLs: urls,
	}, nil
}

func memberURL(e flatEntry) string {
	u := strings.TrimSpace(e.URL)
	if u != "" {
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			return u
		}
		if strings.HasPrefix(u, "watch?") || strings.HasPrefix(u, "/watch?") {
			return "https://www.youtube.com/" + strings.TrimPrefix(u, "/")
		}
	}
	if id := strings.TrimSpace(e.ID); id != "" {
		return "https://www.youtube.com/watch?v=" + id
	}
	return ""
}
