package ytdlp

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"simple-media-downloader/internal/model"
)

const (
	// Transient-network retry counts passed to every fetch.
	topLevelRetries = 5
	fragmentRetries = 10
)

type DependencyReport struct {
	YTDLPFound  bool   `json:"yt_dlp_found"`
	YTDLPPath   string `json:"yt_dlp_path,omitempty"`
	FFmpegFound bool   `json:"ffmpeg_found"`
	FFmpegPath  string `json:"ffmpeg_path,omitempty"`
}

func DependencyStatus() DependencyReport {
	report := DependencyReport{}
	if path, err := exec.LookPath("yt-dlp"); err == nil {
		report.YTDLPFound = true
		report.YTDLPPath = path
	}
	if path, err := exec.LookPath("ffmpeg"); err == nil {
		report.FFmpegFound = true
		report.FFmpegPath = path
	}
	return report
}

func CheckDependencies() error {
	report := DependencyStatus()
	if !report.YTDLPFound {
		return fmt.Errorf("missing dependency: yt-dlp is not installed or not on PATH")
	}
	if !report.FFmpegFound {
		return fmt.Errorf("missing dependency: ffmpeg is required for audio extraction and remuxing and was not found on PATH")
	}
	return nil
}

// Client fetches media by shelling out to the yt-dlp binary.
type Client struct{}

func NewClient() *Client {
	return &Client{}
}

// Fetch downloads one job to its destination template. A non-nil
// progress callback receives every yt-dlp output line; with a nil
// callback the fetch runs quietly and only the terminal error surfaces.
func (c *Client) Fetch(job model.Job, progress func(line string)) error {
	if strings.TrimSpace(job.URL) == "" {
		return fmt.Errorf("job URL is required")
	}
	if strings.TrimSpace(job.DestinationTemplate) == "" {
		return fmt.Errorf("destination template is required")
	}
	args, err := fetchArgs(job)
	if err != nil {
		return err
	}
	return runCommand(args, progress)
}

// fetchArgs builds the yt-dlp invocation for one job: base safety
// options (retries, resume, skip-if-complete) plus the per-mode format
// selector and post-processing.
func fetchArgs(job model.Job) ([]string, error) {
	args := []string{
		"--no-playlist",
		"--newline",
		"--retries", fmt.Sprintf("%d", topLevelRetries),
		"--fragment-retries", fmt.Sprintf("%d", fragmentRetries),
		"--continue",
		"--no-overwrites",
		"-o", job.DestinationTemplate,
	}

	switch job.Mode {
	case model.ModeVideoWithAudio:
		args = append(args,
			"-f", "bestvideo+bestaudio",
			"--remux-video", "mp4",
			"--embed-metadata",
		)
	case model.ModeAudioOnly:
		args = append(args,
			"-f", "bestaudio/best",
			"-x",
			"--audio-format", "mp3",
			"--audio-quality", "0",
			"--embed-metadata",
		)
	case model.ModeVideoOnly:
		args = append(args,
			"-f", "bestvideo",
			"--remux-video", "mp4",
			"--embed-metadata",
		)
	default:
		return nil, fmt.Errorf("invalid mode %q", job.Mode)
	}

	return append(args, job.URL), nil
}

// FlatPlaylistJSON asks yt-dlp for playlist metadata without downloading
// any media. The raw JSON is returned for the caller to interpret.
func FlatPlaylistJSON(sourceURL string) ([]byte, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return nil, fmt.Errorf("source URL is required")
	}

	cmd := exec.Command("yt-dlp", "--flat-playlist", "-J", sourceURL)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("yt-dlp returned empty output")
	}
	return stdout.Bytes(), nil
}

func runCommand(args []string, progress func(line string)) error {
	cmd := exec.Command("yt-dlp", args...)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("setup stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("setup stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start yt-dlp: %w", err)
	}

	var outBuf strings.Builder
	var errBuf strings.Builder
	var mu sync.Mutex
	var wg sync.WaitGroup

	read := func(r io.Reader, buf *strings.Builder) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		b := make([]byte, 0, 64*1024)
		scanner.Buffer(b, 1024*1024)
		scanner.Split(splitByNewlineOrCR)
		for scanner.Scan() {
			line := scanner.Text()
			mu.Lock()
			appendLimited(buf, line)
			mu.Unlock()

			if progress != nil {
				progress(line)
			}
		}
	}

	wg.Add(2)
	go read(stdoutPipe, &outBuf)
	go read(stderrPipe, &errBuf)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		mu.Lock()
		defer mu.Unlock()
		detail := strings.TrimSpace(errBuf.String())
		if detail == "" {
			detail = strings.TrimSpace(outBuf.String())
		}
		if detail == "" {
			return fmt.Errorf("yt-dlp failed: %w", err)
		}
		return fmt.Errorf("yt-dlp failed: %s", detail)
	}
	return nil
}

// splitByNewlineOrCR tokenizes on \n or \r so yt-dlp's carriage-return
// progress updates arrive as individual lines.
func splitByNewlineOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' || data[i] == '\r' {
			if i == 0 {
				return 1, nil, nil
			}
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func appendLimited(buf *strings.Builder, line string) {
	const maxKeep = 8192
	if buf.Len() >= maxKeep {
		return
	}
	toWrite := line + "\n"
	remain := maxKeep - buf.Len()
	if len(toWrite) > remain {
		toWrite = toWrite[:remain]
	}
	buf.WriteString(toWrite)
}
