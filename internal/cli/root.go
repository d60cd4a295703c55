package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"simple-media-downloader/internal/batch"
	"simple-media-downloader/internal/config"
	"simple-media-downloader/internal/model"
	"simple-media-downloader/internal/playlist"
	"simple-media-downloader/internal/ytdlp"

	tea "github.com/charmbracelet/bubbletea"
)

// Run drives the interactive session: show the menu, collect a batch,
// quit the TUI, run the downloads on the plain terminal, repeat. The
// failure registry lives here so it survives menu relaunches but not
// the process.
func Run() error {
	if !stdinIsTTY() {
		return errors.New("an interactive terminal (TTY) is required")
	}

	settingsPath, err := config.SettingsPath()
	if err != nil {
		return err
	}
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not read settings, using defaults:", err)
		settings = config.Settings{}.Normalize()
	}

	registry := batch.NewRegistry()
	status := ""

	for {
		m := newMenuModel(settingsPath, settings.Workers, registry.List(), status)
		p := tea.NewProgram(m)
		finalModel, err := p.Run()
		if err != nil {
			return err
		}
		fm, ok := finalModel.(menuModel)
		if !ok || fm.action == actionExit || fm.action == actionNone {
			return nil
		}
		settings.Workers = fm.workers

		dir, err := config.EnsureOutputDir(fm.request.DestRoot)
		if err != nil {
			status = "Could not create output directory: " + err.Error()
			continue
		}
		if dir != fm.request.DestRoot {
			fmt.Printf("Could not use %s, downloading to %s instead.\n", fm.request.DestRoot, dir)
		}

		prog := newDownloadProgress(os.Stdout)
		out := clearingWriter{prog: prog, out: os.Stdout}
		pool := &batch.Pool{
			Fetcher:  ytdlp.NewClient(),
			Out:      out,
			Progress: prog.Handle,
		}
		orch := &batch.Orchestrator{
			Expander: &playlist.Expander{Resolver: playlist.YTDLPResolver{}},
			Runner:   pool,
			Registry: registry,
			Workers:  settings.Workers,
			Out:      out,
		}

		var outcome model.BatchOutcome
		switch fm.action {
		case actionDownload:
			req := fm.request
			req.DestRoot = dir
			outcome = orch.Execute(req)
		case actionRetryAll:
			outcome = orch.RetryAll(dir)
		case actionRetrySelected:
			if len(fm.indices) == 1 {
				outcome = orch.RetryOne(fm.indices[0], dir)
			} else {
				outcome = orch.RetrySelected(fm.indices, dir)
			}
		}
		prog.Finish()

		if outcome.Total() == 0 {
			status = "Nothing to download."
		} else {
			status = fmt.Sprintf("%d/%d download(s) completed.", len(outcome.Succeeded), outcome.Total())
		}
		waitForEnter()
	}
}

func waitForEnter() {
	fmt.Print("\nPress Enter to return to the menu...")
	reader := bufio.NewReader(os.Stdin)
	_, _ = reader.ReadString('\n')
}
