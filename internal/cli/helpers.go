package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// retryChoice is a parsed answer from the failed-downloads prompt:
// retry everything, cancel, or a set of 1-based list positions.
type retryChoice struct {
	all     bool
	cancel  bool
	indices []int
}

// parseRetrySelection interprets the failed-downloads prompt input.
// "a" retries all, "c" cancels, and "1,3" style lists select entries by
// their displayed number. Positions outside 1..total are rejected here
// so the user sees the mistake before anything is removed.
func parseRetrySelection(raw string, total int) (retryChoice, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "", "c":
		return retryChoice{cancel: true}, nil
	case "a":
		return retryChoice{all: true}, nil
	}

	parts := strings.Split(s, ",")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return retryChoice{}, fmt.Errorf("not a number: %q", part)
		}
		if n < 1 || n > total {
			return retryChoice{}, fmt.Errorf("number out of range: %d", n)
		}
		indices = append(indices, n)
	}
	if len(indices) == 0 {
		return retryChoice{cancel: true}, nil
	}
	return retryChoice{indices: indices}, nil
}

func stdinIsTTY() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
