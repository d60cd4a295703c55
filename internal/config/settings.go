package config

import (
	"errors"
	"os"
	"path/filepath"
)

// DefaultWorkers is the default number of concurrent downloads.
const DefaultWorkers = 5

const (
	appDirName       = "simple-media-downloader"
	settingsFileName = "settings.json"
	fallbackDir      = "./downloads"
)

// Settings are the persisted user-adjustable runtime settings.
type Settings struct {
	Workers int `json:"workers,omitempty"`
}

func defaultSettings() Settings {
	return Settings{Workers: DefaultWorkers}
}

// Normalize clamps settings to usable values; workers is always >= 1.
func (s Settings) Normalize() Settings {
	if s.Workers <= 0 {
		s.Workers = DefaultWorkers
	}
	return s
}

// SettingsPath resolves the settings file location under the user
// config directory.
func SettingsPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName, settingsFileName), nil
}

// LoadSettings reads the settings file, falling back to defaults when
// it does not exist yet.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	if err := readJSON(path, &s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultSettings(), nil
		}
		return Settings{}, err
	}
	return s.Normalize(), nil
}

// SaveSettings persists normalized settings atomically.
func SaveSettings(path string, s Settings) error {
	return writeJSON(path, s.Normalize())
}

// DefaultDownloadsDir is the OS Downloads folder when present, else a
// local ./downloads directory.
func DefaultDownloadsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return fallbackDir
	}
	downloads := filepath.Join(home, "Downloads")
	if info, err := os.Stat(downloads); err == nil && info.IsDir() {
		return downloads
	}
	return fallbackDir
}

// EnsureOutputDir creates the requested directory idempotently. When it
// cannot be created the process-local fallback is used instead; the
// returned path tells the caller which directory actually applies.
func EnsureOutputDir(path string) (string, error) {
	if path != "" {
		if err := Mkdir(path); err == nil {
			return path, nil
		}
	}
	if err := Mkdir(fallbackDir); err != nil {
		return "", err
	}
	return fallbackDir, nil
}
