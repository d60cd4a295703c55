package cli

import (
	"fmt"
	"strconv"
	"strings"

	"simple-media-downloader/internal/batch"
	"simple-media-downloader/internal/config"
	"simple-media-downloader/internal/model"
	"simple-media-downloader/internal/playlist"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type menuState int

const (
	stateMenu menuState = iota
	stateURLs
	stateDir
	stateWorkers
	stateFailed
	stateHelp
)

type menuAction int

const (
	actionNone menuAction = iota
	actionDownload
	actionRetryAll
	actionRetrySelected
	actionExit
)

type entryKind int

const (
	entryDownload entryKind = iota
	entryFailed
	entryWorkers
	entryHelp
	entryExit
)

type menuEntry struct {
	label    string
	kind     entryKind
	mode     model.Mode
	playlist bool
}

var menuEntries = []menuEntry{
	{label: "Download Video(s) with Audio", kind: entryDownload, mode: model.ModeVideoWithAudio},
	{label: "Download Audio only", kind: entryDownload, mode: model.ModeAudioOnly},
	{label: "Download Video(s) without Audio", kind: entryDownload, mode: model.ModeVideoOnly},
	{label: "Download Playlist (Video with Audio)", kind: entryDownload, mode: model.ModeVideoWithAudio, playlist: true},
	{label: "Download Playlist (Audio only)", kind: entryDownload, mode: model.ModeAudioOnly, playlist: true},
	{label: "Download Playlist (Video without Audio)", kind: entryDownload, mode: model.ModeVideoOnly, playlist: true},
	{label: "Resume failed downloads", kind: entryFailed},
	{label: "Download threads settings", kind: entryWorkers},
	{label: "Help", kind: entryHelp},
	{label: "Exit", kind: entryExit},
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
)

// menuModel drives one visit to the interactive menu. The program quits
// as soon as a batch is fully specified; the caller runs the downloads
// on the plain terminal and relaunches the menu afterwards.
type menuModel struct {
	settingsPath string
	workers      int
	failures     []model.FailureRecord

	state  menuState
	cursor int
	width  int
	input  textinput.Model
	status string
	errMsg string

	urls            []string
	pendingMode     model.Mode
	pendingPlaylist bool
	pendingRetry    *retryChoice

	action  menuAction
	request batch.Request
	indices []int
}

type workersSavedMsg struct {
	workers int
	err     error
}

func newMenuModel(settingsPath string, workers int, failures []model.FailureRecord, status string) menuModel {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 2048
	input.Width = 72
	return menuModel{
		settingsPath: settingsPath,
		workers:      workers,
		failures:     failures,
		state:        stateMenu,
		input:        input,
		status:       status,
	}
}

func (m menuModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = clampInt(m.width-8, 20, 120)
		return m, nil
	case workersSavedMsg:
		if msg.err != nil {
			m.errMsg = "could not save settings: " + msg.err.Error()
			return m, nil
		}
		m.workers = msg.workers
		m.status = fmt.Sprintf("Download threads set to %d.", msg.workers)
		m.errMsg = ""
		m.state = stateMenu
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.state {
	case stateMenu:
		return m.updateMenu(keyMsg)
	case stateURLs:
		return m.updateURLs(keyMsg)
	case stateDir:
		return m.updateDir(keyMsg)
	case stateWorkers:
		return m.updateWorkers(keyMsg)
	case stateFailed:
		return m.updateFailed(keyMsg)
	case stateHelp:
		m.state = stateMenu
		return m, nil
	default:
		return m, nil
	}
}

func (m menuModel) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.action = actionExit
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(menuEntries)-1 {
			m.cursor++
		}
		return m, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(msg.String())
		m.cursor = n - 1
		return m.selectEntry(menuEntries[m.cursor])
	case "0":
		m.cursor = len(menuEntries) - 1
		return m.selectEntry(menuEntries[m.cursor])
	case "enter":
		return m.selectEntry(menuEntries[m.cursor])
	}
	return m, nil
}

func (m menuModel) selectEntry(entry menuEntry) (tea.Model, tea.Cmd) {
	m.status = ""
	m.errMsg = ""
	switch entry.kind {
	case entryDownload:
		m.pendingMode = entry.mode
		m.pendingPlaylist = entry.playlist
		m.urls = nil
		m.state = stateURLs
		m.input.SetValue("")
		m.input.Placeholder = "https://..."
		m.input.Focus()
		return m, nil
	case entryFailed:
		if len(m.failures) == 0 {
			m.status = "No failed downloads."
			return m, nil
		}
		m.state = stateFailed
		m.input.SetValue("")
		m.input.Placeholder = "a / c / 1,3"
		m.input.Focus()
		return m, nil
	case entryWorkers:
		m.state = stateWorkers
		m.input.SetValue(strconv.Itoa(m.workers))
		m.input.Placeholder = ""
		m.input.Focus()
		m.input.CursorEnd()
		return m, nil
	case entryHelp:
		m.state = stateHelp
		return m, nil
	case entryExit:
		m.action = actionExit
		return m, tea.Quit
	}
	return m, nil
}

func (m menuModel) updateURLs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.state = stateMenu
		m.status = "Cancelled."
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			if len(m.urls) == 0 {
				m.state = stateMenu
				m.status = "No URLs entered."
				return m, nil
			}
			return m.toDirPrompt()
		}
		if !playlist.IsValidURL(value) {
			m.errMsg = "Invalid URL: " + value
			m.input.SetValue("")
			return m, nil
		}
		if !m.pendingPlaylist && playlist.IsPurePlaylistURL(value) {
			m.errMsg = "That is a playlist URL. Use one of the playlist options."
			m.input.SetValue("")
			return m, nil
		}
		m.urls = append(m.urls, value)
		m.errMsg = ""
		m.input.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m menuModel) toDirPrompt() (tea.Model, tea.Cmd) {
	m.state = stateDir
	m.errMsg = ""
	m.input.SetValue("")
	m.input.Placeholder = config.DefaultDownloadsDir()
	return m, nil
}

func (m menuModel) updateDir(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.state = stateMenu
		m.pendingRetry = nil
		m.status = "Cancelled."
		return m, nil
	case "enter":
		dir := strings.TrimSpace(m.input.Value())
		if dir == "" {
			dir = config.DefaultDownloadsDir()
		}
		if m.pendingRetry != nil {
			if m.pendingRetry.all {
				m.action = actionRetryAll
			} else {
				m.action = actionRetrySelected
				m.indices = m.pendingRetry.indices
			}
			m.request = batch.Request{DestRoot: dir}
			return m, tea.Quit
		}
		m.action = actionDownload
		m.request = batch.Request{
			Mode:         m.pendingMode,
			URLs:         m.urls,
			DestRoot:     dir,
			PlaylistMode: m.pendingPlaylist,
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m menuModel) updateWorkers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.state = stateMenu
		m.status = "Cancelled."
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			m.errMsg = "Enter an integer >= 1."
			return m, nil
		}
		m.errMsg = ""
		return m, saveWorkersCmd(m.settingsPath, n)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m menuModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.state = stateMenu
		m.status = "Cancelled."
		return m, nil
	case "enter":
		choice, err := parseRetrySelection(m.input.Value(), len(m.failures))
		if err != nil {
			m.errMsg = err.Error()
			m.input.SetValue("")
			return m, nil
		}
		if choice.cancel {
			m.state = stateMenu
			m.status = "Cancelled."
			return m, nil
		}
		m.pendingRetry = &choice
		return m.toDirPrompt()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func saveWorkersCmd(path string, workers int) tea.Cmd {
	return func() tea.Msg {
		err := config.SaveSettings(path, config.Settings{Workers: workers})
		return workersSavedMsg{workers: workers, err: err}
	}
}

func (m menuModel) View() string {
	if m.width <= 0 {
		m.width = 100
	}

	switch m.state {
	case stateURLs:
		return m.viewURLs()
	case stateDir:
		return m.viewDir()
	case stateWorkers:
		return m.viewWorkers()
	case stateFailed:
		return m.viewFailed()
	case stateHelp:
		return m.viewHelp()
	default:
		return m.viewMenu()
	}
}

func (m menuModel) viewMenu() string {
	header := titleStyle.Render("Simple Media Downloader") + "\n" +
		mutedStyle.Render("up/down: move | enter or 1-9,0: select | q: quit")

	lines := make([]string, 0, len(menuEntries))
	for i, entry := range menuEntries {
		num := (i + 1) % 10
		line := fmt.Sprintf("%d. %s", num, entry.label)
		if entry.kind == entryFailed && len(m.failures) > 0 {
			line += fmt.Sprintf(" (%d)", len(m.failures))
		}
		if i == m.cursor {
			line = selStyle.Render(line)
		}
		lines = append(lines, line)
	}

	panel := panelStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, header, panel, m.statusLine())
}

func (m menuModel) viewURLs() string {
	label := m.pendingMode.GroupLabel(m.pendingPlaylist)
	header := titleStyle.Render(label) + "\n" +
		mutedStyle.Render("One URL per line. Empty line starts the download. esc: cancel")

	lines := make([]string, 0, len(m.urls)+2)
	for i, u := range m.urls {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, truncateRunes(u, clampInt(m.width-10, 20, 120))))
	}
	if len(m.urls) == 0 {
		lines = append(lines, mutedStyle.Render("(no URLs yet)"))
	}
	lines = append(lines, "", m.input.View())

	panel := panelStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, header, panel, m.statusLine())
}

func (m menuModel) viewDir() string {
	header := titleStyle.Render("Output directory") + "\n" +
		mutedStyle.Render("Empty uses the default shown. esc: cancel")
	panel := panelStyle.Render(m.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, panel, m.statusLine())
}

func (m menuModel) viewWorkers() string {
	header := titleStyle.Render("Download threads") + "\n" +
		mutedStyle.Render(fmt.Sprintf("Current: %d. Threads apply to multi-item batches. esc: cancel", m.workers))
	panel := panelStyle.Render(m.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, panel, m.statusLine())
}

func (m menuModel) viewFailed() string {
	header := titleStyle.Render("Failed downloads") + "\n" +
		mutedStyle.Render("a: retry all | c: cancel | numbers like 1,3: retry selected")

	lines := make([]string, 0, len(m.failures)+2)
	for i, rec := range m.failures {
		line := fmt.Sprintf("%d. [%s] %s - %s", i+1, rec.GroupLabel, rec.URL, rec.ErrorMessage)
		lines = append(lines, truncateRunes(line, clampInt(m.width-8, 30, 160)))
	}
	lines = append(lines, "", m.input.View())

	panel := panelStyle.Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, header, panel, m.statusLine())
}

func (m menuModel) viewHelp() string {
	header := titleStyle.Render("Help")
	panel := panelStyle.Render(helpText)
	return lipgloss.JoinVertical(lipgloss.Left, header, panel,
		mutedStyle.Render("press any key to return"))
}

func (m menuModel) statusLine() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	if m.status != "" {
		if strings.HasPrefix(m.status, "Download threads set") {
			return okStyle.Render(m.status)
		}
		return mutedStyle.Render(m.status)
	}
	return ""
}

const helpText = `Downloads media with yt-dlp. Any site yt-dlp supports
works; YouTube is the most tested.

Formats:
  Video with Audio     best video + best audio, remuxed to mp4
  Audio only           best audio, extracted to mp3 (highest VBR quality)
  Video without Audio  best video stream only, remuxed to mp4

Playlists download every entry into a subfolder named after the
playlist. Already-complete files are skipped, partial files resume.

Each download retries up to 5 times (10 per fragment) before it is
reported as failed. Failed downloads are kept for this session and can
be retried from the menu.

Requires yt-dlp and ffmpeg on PATH.`
