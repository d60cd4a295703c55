package cli

import (
	"testing"

	"simple-media-downloader/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeInto(t *testing.T, m menuModel, s string) menuModel {
	t.Helper()
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(menuModel)
	}
	return m
}

func pressEnter(t *testing.T, m menuModel) menuModel {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(menuModel)
}

func TestMenu_DownloadFlowBuildsRequest(t *testing.T) {
	m := newMenuModel("/tmp/settings.json", 5, nil, "")

	next, _ := m.Update(keyRunes("5")) // Download Playlist (Audio only)
	m = next.(menuModel)
	if m.state != stateURLs {
		t.Fatalf("expected URL entry state, got %d", m.state)
	}
	if m.pendingMode != model.ModeAudioOnly || !m.pendingPlaylist {
		t.Fatalf("wrong pending selection: %v playlist=%v", m.pendingMode, m.pendingPlaylist)
	}

	m = typeInto(t, m, "https://www.youtube.com/playlist?list=PL1")
	m = pressEnter(t, m)
	if len(m.urls) != 1 {
		t.Fatalf("URL not collected: %v", m.urls)
	}

	m = pressEnter(t, m) // empty line ends entry
	if m.state != stateDir {
		t.Fatalf("expected directory prompt, got state %d", m.state)
	}

	m = typeInto(t, m, "/tmp/media")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(menuModel)
	if cmd == nil {
		t.Fatal("expected quit command after directory entry")
	}
	if m.action != actionDownload {
		t.Fatalf("expected download action, got %d", m.action)
	}
	if m.request.DestRoot != "/tmp/media" || !m.request.PlaylistMode {
		t.Fatalf("unexpected request %+v", m.request)
	}
	if len(m.request.URLs) != 1 || m.request.URLs[0] != "https://www.youtube.com/playlist?list=PL1" {
		t.Fatalf("unexpected request URLs %v", m.request.URLs)
	}
}

func TestMenu_RejectsInvalidURLAndKeepsPrompting(t *testing.T) {
	m := newMenuModel("/tmp/settings.json", 5, nil, "")
	next, _ := m.Update(keyRunes("1"))
	m = next.(menuModel)

	m = typeInto(t, m, "not a url")
	m = pressEnter(t, m)
	if len(m.urls) != 0 {
		t.Fatalf("invalid URL must not be collected: %v", m.urls)
	}
	if m.errMsg == "" {
		t.Fatal("expected an error message")
	}
	if m.state != stateURLs {
		t.Fatalf("must stay on URL entry, got state %d", m.state)
	}
}

func TestMenu_RejectsPlaylistURLOutsidePlaylistMode(t *testing.T) {
	m := newMenuModel("/tmp/settings.json", 5, nil, "")
	next, _ := m.Update(keyRunes("2")) // Audio only, single mode
	m = next.(menuModel)

	m = typeInto(t, m, "https://www.youtube.com/playlist?list=PL1")
	m = pressEnter(t, m)
	if len(m.urls) != 0 {
		t.Fatalf("playlist URL must be rejected in single mode: %v", m.urls)
	}
	if m.errMsg == "" {
		t.Fatal("expected an error message")
	}
}

func TestMenu_NoURLsReturnsToMenu(t *testing.T) {
	m := newMenuModel("/tmp/settings.json", 5, nil, "")
	next, _ := m.Update(keyRunes("1"))
	m = next.(menuModel)

	m = pressEnter(t, m) // empty first line
	if m.state != stateMenu {
		t.Fatalf("expected return to menu, got state %d", m.state)
	}
	if m.status == "" {
		t.Fatal("expected a status message")
	}
}

func TestMenu_FailedEntryWithEmptyRegistryStaysOnMenu(t *testing.T) {
	m := newMenuModel("/tmp/settings.json", 5, nil, "")
	next, _ := m.Update(keyRunes("7"))
	m = next.(menuModel)
	if m.state != stateMenu {
		t.Fatalf("expected to stay on menu, got state %d", m.state)
	}
	if m.status != "No failed downloads." {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestMenu_FailedSelectionLeadsToDirPromptThenRetry(t *testing.T) {
	failures := []model.FailureRecord{
		{URL: "https://example.com/1", GroupLabel: "Audio", ErrorMessage: "boom"},
		{URL: "https://example.com/2", GroupLabel: "Audio", ErrorMessage: "boom"},
	}
	m := newMenuModel("/tmp/settings.json", 5, failures, "")
	next, _ := m.Update(keyRunes("7"))
	m = next.(menuModel)
	if m.state != stateFailed {
		t.Fatalf("expected failed browser, got state %d", m.state)
	}

	m = typeInto(t, m, "2")
	m = pressEnter(t, m)
	if m.state != stateDir {
		t.Fatalf("expected directory prompt, got state %d", m.state)
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter}) // default dir
	m = next.(menuModel)
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if m.action != actionRetrySelected {
		t.Fatalf("expected retry-selected action, got %d", m.action)
	}
	if len(m.indices) != 1 || m.indices[0] != 2 {
		t.Fatalf("unexpected indices %v", m.indices)
	}
	if m.request.DestRoot == "" {
		t.Fatal("default directory must be filled in")
	}
}

func TestMenu_FailedRetryAll(t *testing.T) {
	failures := []model.FailureRecord{
		{URL: "https://example.com/1", GroupLabel: "Audio", ErrorMessage: "boom"},
	}
	m := newMenuModel("/tmp/settings.json", 5, failures, "")
	next, _ := m.Update(keyRunes("7"))
	m = next.(menuModel)

	m = typeInto(t, m, "a")
	m = pressEnter(t, m)
	if m.state != stateDir {
		t.Fatalf("expected directory prompt, got state %d", m.state)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(menuModel)
	if m.action != actionRetryAll {
		t.Fatalf("expected retry-all action, got %d", m.action)
	}
}

func TestMenu_WorkersRejectsBadInput(t *testing.T) {
	m := newMenuModel("/tmp/settings.json", 5, nil, "")
	next, _ := m.Update(keyRunes("8"))
	m = next.(menuModel)
	if m.state != stateWorkers {
		t.Fatalf("expected workers prompt, got state %d", m.state)
	}

	m.input.SetValue("0")
	m = pressEnter(t, m)
	if m.errMsg == "" {
		t.Fatal("expected validation error for 0")
	}
	if m.state != stateWorkers {
		t.Fatalf("must stay on workers prompt, got state %d", m.state)
	}
}

func TestMenu_WorkersSavedMessageUpdatesModel(t *testing.T) {
	m := newMenuModel("/tmp/settings.json", 5, nil, "")
	next, _ := m.Update(workersSavedMsg{workers: 8})
	m = next.(menuModel)
	if m.workers != 8 {
		t.Fatalf("workers not updated: %d", m.workers)
	}
	if m.state != stateMenu {
		t.Fatalf("expected return to menu, got state %d", m.state)
	}
}

func TestMenu_ExitQuits(t *testing.T) {
	m := newMenuModel("/tmp/settings.json", 5, nil, "")
	next, cmd := m.Update(keyRunes("0"))
	m = next.(menuModel)
	if m.action != actionExit {
		t.Fatalf("expected exit action, got %d", m.action)
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}
