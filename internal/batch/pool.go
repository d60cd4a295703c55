package batch

import (
	"fmt"
	"io"
	"sync"

	"simple-media-downloader/internal/model"
)

// Fetcher performs the network fetch and local transcode for one job,
// reporting terminal success or failure. A non-nil progress callback
// receives raw output lines; a nil callback requests a quiet fetch.
type Fetcher interface {
	Fetch(job model.Job, progress func(line string)) error
}

// Runner executes one batch of jobs and reports the partitioned outcome.
type Runner interface {
	Run(jobs []model.Job, maxConcurrency int) model.BatchOutcome
}

// Pool executes batches with bounded concurrency. A single-job batch
// runs synchronously with verbose progress on Progress; larger batches
// suppress per-item progress because interleaved output from concurrent
// downloads is unreadable.
type Pool struct {
	Fetcher  Fetcher
	Out      io.Writer
	Progress func(line string)
}

// Run submits every job exactly once and blocks until all of them reach
// a terminal outcome. One job's failure never cancels its siblings.
// Succeeded and failed entries are reported in submission order
// regardless of completion order.
func (p *Pool) Run(jobs []model.Job, maxConcurrency int) model.BatchOutcome {
	if len(jobs) == 0 {
		return model.BatchOutcome{}
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	var results []error
	if len(jobs) == 1 {
		p.logf("Starting %s for %s (job %s)\n", jobs[0].GroupLabel, jobs[0].URL, jobs[0].ID)
		results = []error{p.fetch(jobs[0], p.Progress)}
	} else {
		p.logf("Starting %d concurrent %s downloads...\n", len(jobs), jobs[0].GroupLabel)
		results = p.runConcurrent(jobs, maxConcurrency)
	}

	outcome := model.BatchOutcome{}
	for i, job := range jobs {
		if err := results[i]; err != nil {
			outcome.Failed = append(outcome.Failed, model.FailureRecord{
				URL:          job.URL,
				GroupLabel:   job.GroupLabel,
				ErrorMessage: model.FirstLine(err.Error()),
			})
			continue
		}
		outcome.Succeeded = append(outcome.Succeeded, job.URL)
	}

	for i, job := range jobs {
		if results[i] == nil {
			p.logf("[✓] %s succeeded: %s (job %s)\n", job.GroupLabel, job.URL, job.ID)
		}
	}
	for i, job := range jobs {
		if err := results[i]; err != nil {
			p.logf("[✗] %s failed: %s - %s (job %s)\n", job.GroupLabel, job.URL, model.FirstLine(err.Error()), job.ID)
		}
	}
	return outcome
}

// runConcurrent fans jobs out to a bounded set of workers. Each worker
// writes only its own result slot, so outcomes flow back to a single
// collection point without shared mutation.
func (p *Pool) runConcurrent(jobs []model.Job, maxConcurrency int) []error {
	results := make([]error, len(jobs))
	jobCh := make(chan int)
	var wg sync.WaitGroup

	workers := maxConcurrency
	if workers > len(jobs) {
		workers = len(jobs)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobCh {
				results[i] = p.fetch(jobs[i], nil)
			}
		}()
	}

	for i := range jobs {
		jobCh <- i
	}
	close(jobCh)
	wg.Wait()
	return results
}

// fetch contains a fetcher panic as an ordinary failure so nothing can
// propagate across the worker boundary and abort the batch.
func (p *Pool) fetch(job model.Job, progress func(line string)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("fetch panic: %v", r)
		}
	}()
	return p.Fetcher.Fetch(job, progress)
}

func (p *Pool) logf(format string, args ...any) {
	if p.Out == nil {
		return
	}
	fmt.Fprintf(p.Out, format, args...)
}
