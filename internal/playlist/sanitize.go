package playlist

import "strings"

// SanitizeTitle strips characters that are illegal in file paths while
// keeping the title readable. Spaces and unicode are preserved.
func SanitizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case r < 0x20, r == 0x7f:
			continue
		case strings.ContainsRune(`/\:*?"<>|`, r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	out = strings.Trim(out, ".")
	if out == "" {
		return "Unknown_Playlist"
	}
	return out
}
