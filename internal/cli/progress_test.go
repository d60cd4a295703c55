package cli

import (
	"strings"
	"testing"
)

func TestDownloadProgress_ParsesDownloadLine(t *testing.T) {
	var buf strings.Builder
	p := newDownloadProgress(&buf)

	p.Handle("[download]  42.5% of 120.53MiB at 3.21MiB/s ETA 00:21")

	out := buf.String()
	for _, want := range []string{"downloading", "42.5%", "of 120.53MiB", "at 3.21MiB/s", "ETA 00:21"} {
		if !strings.Contains(out, want) {
			t.Fatalf("rendered line missing %q: %q", want, out)
		}
	}
}

func TestDownloadProgress_PhaseTransitions(t *testing.T) {
	var buf strings.Builder
	p := newDownloadProgress(&buf)

	p.Handle("[youtube] abc123: Downloading webpage")
	if !strings.Contains(buf.String(), "preparing") {
		t.Fatalf("expected preparing phase, got %q", buf.String())
	}

	buf.Reset()
	p.Handle("[ExtractAudio] Destination: song.mp3")
	if !strings.Contains(buf.String(), "extracting audio") {
		t.Fatalf("expected extraction phase, got %q", buf.String())
	}
}

func TestDownloadProgress_FinishOnlyAfterDraw(t *testing.T) {
	var buf strings.Builder
	p := newDownloadProgress(&buf)

	p.Finish()
	if buf.Len() != 0 {
		t.Fatalf("finish without draw must write nothing, got %q", buf.String())
	}

	p.Handle("[download] 10% of 1MiB at 1MiB/s ETA 00:05")
	buf.Reset()
	p.Finish()
	if !strings.Contains(buf.String(), "\r") {
		t.Fatalf("finish must clear the line, got %q", buf.String())
	}
}

func TestDownloadProgress_IgnoresBlankLines(t *testing.T) {
	var buf strings.Builder
	p := newDownloadProgress(&buf)

	p.Handle("   ")
	if buf.Len() != 0 {
		t.Fatalf("blank line must not draw, got %q", buf.String())
	}
}
