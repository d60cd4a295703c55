package batch

import (
	"errors"
	"fmt"
	"io"

	"simple-media-downloader/internal/model"
	"simple-media-downloader/internal/playlist"
)

// Request describes one batch submission: a mode, the user-supplied
// URLs, the destination root, and whether the URLs are playlists to be
// expanded.
type Request struct {
	Mode         model.Mode
	URLs         []string
	DestRoot     string
	PlaylistMode bool
}

// Orchestrator composes playlist expansion, the worker pool, and the
// failure registry. It owns all registry mutation; workers never touch
// the registry directly.
type Orchestrator struct {
	Expander *playlist.Expander
	Runner   Runner
	Registry *Registry
	Workers  int
	Out      io.Writer
}

// Execute expands playlists (skipping URLs that do not resolve to one),
// builds one job per remaining URL, runs the batch, and records every
// failure in the registry. Invalid URLs are excluded with a notice,
// never fatal.
func (o *Orchestrator) Execute(req Request) model.BatchOutcome {
	var jobs []model.Job
	if req.PlaylistMode {
		jobs = o.expandAll(req)
	} else {
		jobs = o.buildSingleJobs(req)
	}

	outcome := o.Runner.Run(jobs, o.workers())
	o.record(outcome)
	return outcome
}

func (o *Orchestrator) expandAll(req Request) []model.Job {
	var jobs []model.Job
	for _, url := range req.URLs {
		if !playlist.IsValidURL(url) {
			o.logf("  [!] Invalid URL: %s\n", url)
			continue
		}
		o.logf("Processing playlist: %s\n", url)
		title, expanded, err := o.Expander.Expand(url, req.Mode, req.DestRoot)
		if err != nil {
			if errors.Is(err, playlist.ErrNotAPlaylist) {
				o.logf("  [!] Not a playlist: %s. Skipping.\n", url)
			} else {
				o.logf("  [!] Error processing playlist %s: %s\n", url, model.FirstLine(err.Error()))
			}
			continue
		}
		o.logf("  Playlist %q: %d item(s)\n", title, len(expanded))
		jobs = append(jobs, expanded...)
	}
	return jobs
}

func (o *Orchestrator) buildSingleJobs(req Request) []model.Job {
	template := playlist.SingleItemTemplate(req.DestRoot)
	label := req.Mode.GroupLabel(false)

	jobs := make([]model.Job, 0, len(req.URLs))
	for _, url := range req.URLs {
		if !playlist.IsValidURL(url) {
			o.logf("  [!] Invalid URL: %s\n", url)
			continue
		}
		if playlist.IsPurePlaylistURL(url) {
			o.logf("  [!] Playlist URL detected: %s. Use playlist mode for playlists.\n", url)
			continue
		}
		job, err := model.NewJob(url, req.Mode, template, label)
		if err != nil {
			o.logf("  [!] Skipping %s: %s\n", url, err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// RetryAll drains the registry, groups the drained records by label,
// and issues one batch per group. Failures from the new attempt are
// appended as fresh records.
func (o *Orchestrator) RetryAll(destRoot string) model.BatchOutcome {
	groups := GroupByLabel(o.Registry.Drain())

	var total model.BatchOutcome
	for _, group := range groups {
		jobs := o.jobsFromRecords(group, destRoot)
		if len(jobs) == 0 {
			continue
		}
		o.logf("Retrying %d failed download(s) for %s...\n", len(jobs), jobs[0].GroupLabel)
		outcome := o.Runner.Run(jobs, o.workers())
		o.record(outcome)
		total.Succeeded = append(total.Succeeded, outcome.Succeeded...)
		total.Failed = append(total.Failed, outcome.Failed...)
	}
	return total
}

// RetrySelected removes the records at the given pre-call snapshot
// indices and retries each as its own single-item batch, in their
// original ascending order. Invalid indices are ignored.
func (o *Orchestrator) RetrySelected(indices []int, destRoot string) model.BatchOutcome {
	taken := o.Registry.TakeSelected(indices)

	var total model.BatchOutcome
	for _, rec := range taken {
		jobs := o.jobsFromRecords([]model.FailureRecord{rec}, destRoot)
		if len(jobs) == 0 {
			continue
		}
		o.logf("Retrying: %s\n", rec.URL)
		outcome := o.Runner.Run(jobs, o.workers())
		o.record(outcome)
		total.Succeeded = append(total.Succeeded, outcome.Succeeded...)
		total.Failed = append(total.Failed, outcome.Failed...)
	}
	return total
}

// RetryOne retries a single snapshot index. An invalid index is a no-op
// reported with a diagnostic, not an error.
func (o *Orchestrator) RetryOne(index int, destRoot string) model.BatchOutcome {
	if index < 1 || index > o.Registry.Len() {
		o.logf("Invalid number.\n")
		return model.BatchOutcome{}
	}
	return o.RetrySelected([]int{index}, destRoot)
}

// jobsFromRecords rebuilds jobs from failure records using the mode and
// playlist-ness encoded in each group label. Playlist-origin retries
// nest under the playlist title reported at download time.
func (o *Orchestrator) jobsFromRecords(recs []model.FailureRecord, destRoot string) []model.Job {
	jobs := make([]model.Job, 0, len(recs))
	for _, rec := range recs {
		mode, fromPlaylist, err := model.ParseGroupLabel(rec.GroupLabel)
		if err != nil {
			o.logf("  [!] Skipping %s: %s\n", rec.URL, err)
			continue
		}
		template := playlist.SingleItemTemplate(destRoot)
		if fromPlaylist {
			template = playlist.RetryPlaylistTemplate(destRoot)
		}
		job, err := model.NewJob(rec.URL, mode, template, rec.GroupLabel)
		if err != nil {
			o.logf("  [!] Skipping %s: %s\n", rec.URL, err)
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs
}

func (o *Orchestrator) record(outcome model.BatchOutcome) {
	if len(outcome.Failed) == 0 {
		return
	}
	o.Registry.Append(outcome.Failed...)
	o.logf("\n❌ %d/%d download(s) failed. Use the failed-downloads menu to retry.\n",
		len(outcome.Failed), outcome.Total())
}

func (o *Orchestrator) workers() int {
	if o.Workers < 1 {
		return 1
	}
	return o.Workers
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.Out == nil {
		return
	}
	fmt.Fprintf(o.Out, format, args...)
}
