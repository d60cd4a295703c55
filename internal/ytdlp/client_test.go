package ytdlp

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"simple-media-downloader/internal/model"
)

func testJob(mode model.Mode) model.Job {
	return model.Job{
		ID:                  "job-1",
		URL:                 "https://example.com/watch?v=abc",
		Mode:                mode,
		DestinationTemplate: "/tmp/out/%(title)s [%(id)s].%(ext)s",
		GroupLabel:          mode.GroupLabel(false),
	}
}

func TestFetchArgs_PerMode(t *testing.T) {
	cases := []struct {
		mode model.Mode
		want []string
		deny []string
	}{
		{
			mode: model.ModeVideoWithAudio,
			want: []string{"-f", "bestvideo+bestaudio", "--remux-video", "mp4", "--embed-metadata"},
			deny: []string{"-x"},
		},
		{
			mode: model.ModeAudioOnly,
			want: []string{"-f", "bestaudio/best", "-x", "--audio-format", "mp3", "--audio-quality", "0"},
			deny: []string{"--remux-video"},
		},
		{
			mode: model.ModeVideoOnly,
			want: []string{"-f", "bestvideo", "--remux-video", "mp4"},
			deny: []string{"-x", "bestaudio"},
		},
	}

	for _, tc := range cases {
		args, err := fetchArgs(testJob(tc.mode))
		if err != nil {
			t.Fatalf("fetchArgs(%v) failed: %v", tc.mode, err)
		}
		joined := " " + strings.Join(args, " ") + " "
		for _, w := range tc.want {
			if !strings.Contains(joined, " "+w+" ") {
				t.Fatalf("mode %v: missing arg %q in %v", tc.mode, w, args)
			}
		}
		for _, d := range tc.deny {
			if strings.Contains(joined, " "+d+" ") {
				t.Fatalf("mode %v: unexpected arg %q in %v", tc.mode, d, args)
			}
		}
		if args[len(args)-1] != "https://example.com/watch?v=abc" {
			t.Fatalf("mode %v: URL must be the final argument, got %v", tc.mode, args)
		}
	}
}

func TestFetchArgs_BaseSafetyOptions(t *testing.T) {
	args, err := fetchArgs(testJob(model.ModeVideoWithAudio))
	if err != nil {
		t.Fatal(err)
	}
	joined := strings.Join(args, " ")
	for _, w := range []string{
		"--no-playlist",
		"--retries 5",
		"--fragment-retries 10",
		"--continue",
		"--no-overwrites",
	} {
		if !strings.Contains(joined, w) {
			t.Fatalf("missing base option %q in %v", w, args)
		}
	}
}

func TestFetchArgs_RejectsInvalidMode(t *testing.T) {
	job := testJob(model.ModeAudioOnly)
	job.Mode = model.Mode("dvd")
	if _, err := fetchArgs(job); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestSplitByNewlineOrCR(t *testing.T) {
	data := []byte("line1\rline2\nline3")
	var lines []string
	for len(data) > 0 {
		adv, tok, err := splitByNewlineOrCR(data, true)
		if err != nil {
			t.Fatal(err)
		}
		if tok != nil {
			lines = append(lines, string(tok))
		}
		data = data[adv:]
	}
	if len(lines) != 3 || lines[0] != "line1" || lines[1] != "line2" || lines[2] != "line3" {
		t.Fatalf("unexpected lines: %v", lines)
	}
}

func TestFetch_ReportsProcessFailureDetail(t *testing.T) {
	tmp := t.TempDir()
	fakeBin := filepath.Join(tmp, "bin")
	if err := os.MkdirAll(fakeBin, 0o755); err != nil {
		t.Fatal(err)
	}

	ytScript := `#!/usr/bin/env bash
echo "ERROR: Video unavailable" >&2
exit 1
`
	if err := os.WriteFile(filepath.Join(fakeBin, "yt-dlp"), []byte(ytScript), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", fakeBin+":"+os.Getenv("PATH"))

	client := NewClient()
	err := client.Fetch(testJob(model.ModeAudioOnly), nil)
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if !strings.Contains(err.Error(), "Video unavailable") {
		t.Fatalf("expected stderr detail in error, got: %v", err)
	}
}

func TestFetch_ForwardsProgressLines(t *testing.T) {
	tmp := t.TempDir()
	fakeBin := filepath.Join(tmp, "bin")
	if err := os.MkdirAll(fakeBin, 0o755); err != nil {
		t.Fatal(err)
	}

	ytScript := `#!/usr/bin/env bash
echo "[download]  50.0% of 10.00MiB at 1.00MiB/s ETA 00:05"
echo "[download] 100% of 10.00MiB"
exit 0
`
	if err := os.WriteFile(filepath.Join(fakeBin, "yt-dlp"), []byte(ytScript), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", fakeBin+":"+os.Getenv("PATH"))

	var lines []string
	client := NewClient()
	if err := client.Fetch(testJob(model.ModeVideoWithAudio), func(line string) {
		lines = append(lines, line)
	}); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 progress lines, got %d: %v", len(lines), lines)
	}
}
