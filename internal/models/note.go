// Package models defines the domain types for Pebble Sync.
package models

import (
	"fmt"
	"time"
)

// KindNote is the only record kind the importer accepts.
const KindNote = "note"

// RemoteNote represents one captured item fetched from the Pebble service.
// Instances are validated on ingestion and never mutated afterwards.
type RemoteNote struct {
	Kind      string   `json:"kind"`
	Content   string   `json:"content"`
	CreatedAt string   `json:"createdAt,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	RemoteID  string   `json:"remoteId,omitempty"`
}

// Valid reports whether the record is importable: it must be a note and
// carry a non-empty content body. Anything else is dropped upstream of the
// reconciler.
func (n RemoteNote) Valid() bool {
	return n.Kind == KindNote && n.Content != ""
}

// TemplateData carries the values substituted into a note body template.
type TemplateData struct {
	Content      string
	Date         string
	Time         string
	FullDateTime string
	Tags         []string
}

// RunSummary reports the outcome of one import run. It is produced fresh
// per invocation; only the status surfaces keep the most recent one around.
type RunSummary struct {
	Fetched          int       `json:"fetched"`
	Created          int       `json:"created"`
	Updated          int       `json:"updated"`
	SkippedDuplicate int       `json:"skipped_duplicate"`
	SkippedExisting  int       `json:"skipped_existing"`
	Failed           int       `json:"failed"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}

// Written returns the number of records that touched the file system.
func (s RunSummary) Written() int {
	return s.Created + s.Updated
}

// String renders a one-line human-readable result, distinguishing a
// zero-work run from one that imported something.
func (s RunSummary) String() string {
	if s.Written() == 0 && s.Failed == 0 {
		return "nothing new to import"
	}
	return fmt.Sprintf("imported %d (created %d, updated %d, duplicates %d, existing %d, failed %d)",
		s.Written(), s.Created, s.Updated, s.SkippedDuplicate, s.SkippedExisting, s.Failed)
}
