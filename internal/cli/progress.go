package cli

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"
)

var (
	rePct   = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)%`)
	reSpeed = regexp.MustCompile(`\bat\s+([^\s]+)`)
	reETA   = regexp.MustCompile(`\bETA\s+([0-9:]+)`)
	reOf    = regexp.MustCompile(`\bof\s+([^\s]+)`)
)

// downloadProgress renders a single in-place status line from yt-dlp
// output during a synchronous single-item download. Concurrent batches
// never feed it; interleaved lines from multiple downloads would be
// unreadable.
type downloadProgress struct {
	out io.Writer

	mu      sync.Mutex
	phase   string
	pct     string
	speed   string
	eta     string
	totalSz string
	drawn   bool
}

func newDownloadProgress(out io.Writer) *downloadProgress {
	return &downloadProgress{out: out, phase: "starting"}
}

// Handle consumes one output line and redraws the status line.
func (p *downloadProgress) Handle(line string) {
	l := strings.TrimSpace(line)
	if l == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case strings.HasPrefix(l, "[youtube]"), strings.HasPrefix(l, "[info]"):
		p.phase = "preparing"
	case strings.HasPrefix(l, "[download]"):
		p.phase = "downloading"
		if m := rePct.FindStringSubmatch(l); len(m) > 1 {
			p.pct = m[1] + "%"
		}
		if m := reSpeed.FindStringSubmatch(l); len(m) > 1 {
			p.speed = m[1]
		}
		if m := reETA.FindStringSubmatch(l); len(m) > 1 {
			p.eta = m[1]
		}
		if m := reOf.FindStringSubmatch(l); len(m) > 1 {
			p.totalSz = m[1]
		}
	case strings.HasPrefix(l, "[Merger]"), strings.HasPrefix(l, "[VideoRemuxer]"):
		p.phase = "remuxing"
	case strings.HasPrefix(l, "[ExtractAudio]"):
		p.phase = "extracting audio"
	case strings.HasPrefix(l, "[Metadata]"):
		p.phase = "embedding metadata"
	}

	fmt.Fprintf(p.out, "\r\033[2K%s", p.render())
	p.drawn = true
}

// Finish terminates the in-place line so subsequent output starts on a
// fresh row. Safe to call when nothing was ever drawn.
func (p *downloadProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.drawn {
		return
	}
	fmt.Fprint(p.out, "\r\033[2K")
	p.drawn = false
	p.phase = "starting"
	p.pct = ""
	p.speed = ""
	p.eta = ""
	p.totalSz = ""
}

// clearingWriter erases the live progress line before letting any other
// output through, so summaries never append to a half-drawn status.
type clearingWriter struct {
	prog *downloadProgress
	out  io.Writer
}

func (w clearingWriter) Write(b []byte) (int, error) {
	w.prog.Finish()
	return w.out.Write(b)
}

func (p *downloadProgress) render() string {
	parts := []string{p.phase}
	if p.pct != "" {
		parts = append(parts, p.pct)
	}
	if p.totalSz != "" {
		parts = append(parts, "of "+p.totalSz)
	}
	if p.speed != "" {
		parts = append(parts, "at "+p.speed)
	}
	if p.eta != "" {
		parts = append(parts, "ETA "+p.eta)
	}
	return strings.Join(parts, "  ")
}
