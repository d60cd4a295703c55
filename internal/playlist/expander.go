package playlist

import (
	"fmt"
	"path/filepath"

	"simple-media-downloader/internal/model"
)

// ItemTemplate is the per-item output template appended under every
// destination root.
const ItemTemplate = "%(title)s [%(id)s].%(ext)s"

// Expander turns a playlist URL into the member Jobs of a batch.
type Expander struct {
	Resolver Resolver
}

// Expand resolves playlistURL and builds one Job per member item, rooted
// under a subdirectory named after the sanitized playlist title. A URL
// that is not a playlist fails with ErrNotAPlaylist (wrapped); an empty
// playlist yields zero jobs and no error.
func (e *Expander) Expand(playlistURL string, mode model.Mode, destRoot string) (string, []model.Job, error) {
	info, err := e.Resolver.Resolve(playlistURL)
	if err != nil {
		return "", nil, fmt.Errorf("resolve playlist %s: %w", playlistURL, err)
	}

	title := info.Title
	if title == "" {
		title = "Unknown_Playlist"
	}
	template := filepath.Join(destRoot, SanitizeTitle(title), ItemTemplate)
	label := mode.GroupLabel(true)

	jobs := make([]model.Job, 0, len(info.MemberURLs))
	for _, u := range info.MemberURLs {
		job, err := model.NewJob(u, mode, template, label)
		if err != nil {
			continue
		}
		jobs = append(jobs, job)
	}
	return title, jobs, nil
}
