package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Job is one fetch+convert unit of work for a single media item. A Job
// never represents an un-expanded playlist; playlist URLs are expanded
// into member Jobs before submission.
type Job struct {
	ID                  string
	URL                 string
	Mode                Mode
	DestinationTemplate string
	GroupLabel          string
}

func NewJob(url string, mode Mode, destinationTemplate, groupLabel string) (Job, error) {
	if strings.TrimSpace(url) == "" {
		return Job{}, fmt.Errorf("job URL is required")
	}
	if !mode.Valid() {
		return Job{}, fmt.Errorf("invalid mode %q", mode)
	}
	return Job{
		ID:                  uuid.NewString(),
		URL:                 url,
		Mode:                mode,
		DestinationTemplate: destinationTemplate,
		GroupLabel:          groupLabel,
	}, nil
}

// FailureRecord retains one failed Job for later retry. ErrorMessage is
// the first line of the failure reason only.
type FailureRecord struct {
	URL          string
	GroupLabel   string
	ErrorMessage string
}

// BatchOutcome partitions one batch run into succeeded URLs and failure
// records, both in original submission order.
type BatchOutcome struct {
	Succeeded []string
	Failed    []FailureRecord
}

func (o BatchOutcome) Total() int {
	return len(o.Succeeded) + len(o.Failed)
}

// FirstLine reduces a multi-line failure reason to its first non-empty
// line for concise display.
func FirstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t
		}
	}
	return strings.TrimSpace(s)
}
