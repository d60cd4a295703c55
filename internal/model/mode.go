package model

import (
	"fmt"
	"strings"
)

// Mode selects the format and post-processing requested from yt-dlp.
type Mode string

const (
	ModeVideoWithAudio Mode = "video_with_audio"
	ModeAudioOnly      Mode = "audio_only"
	ModeVideoOnly      Mode = "video_only"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeVideoWithAudio, ModeAudioOnly, ModeVideoOnly:
		return true
	default:
		return false
	}
}

// GroupLabel is the human-readable batch description shown in summaries
// and retained on failure records. Retry flows parse it back, so the
// strings are part of the session contract.
func (m Mode) GroupLabel(playlist bool) string {
	var base string
	switch m {
	case ModeVideoWithAudio:
		base = "Video with Audio"
	case ModeAudioOnly:
		base = "Audio"
	case ModeVideoOnly:
		base = "Video without Audio"
	default:
		base = string(m)
	}
	if playlist {
		return "Playlist " + base
	}
	return base
}

// ParseGroupLabel recovers the mode and playlist-ness encoded in a group
// label. "Video without Audio" must be matched before "Audio": the
// former contains the latter as a substring.
func ParseGroupLabel(label string) (Mode, bool, error) {
	rest := strings.TrimSpace(label)
	playlist := strings.HasPrefix(rest, "Playlist ")
	rest = strings.TrimPrefix(rest, "Playlist ")

	switch rest {
	case "Video with Audio":
		return ModeVideoWithAudio, playlist, nil
	case "Video without Audio":
		return ModeVideoOnly, playlist, nil
	case "Audio":
		return ModeAudioOnly, playlist, nil
	default:
		return "", false, fmt.Errorf("unknown group label %q", label)
	}
}
