// Package models defines the client-side data model: sessions, memory
// entries and display preferences.
package models

import (
	"slices"
	"strings"
	"time"
)

// Entry is one persisted memory. Entries are created and deleted but never
// edited in place.
type Entry struct {
	// ID is assigned by the record service.
	ID string

	// OwnerID equals Session.UserID of the creator.
	OwnerID string

	CreatedAt time.Time

	// Content may be empty only when AudioKey is set.
	Content string

	// Tags are lower-case and unique; their order carries no meaning.
	Tags []string

	// AudioKey locates an attached recording in audio storage, if any.
	AudioKey string
}

// HasAudio reports whether a recording is attached.
func (e Entry) HasAudio() bool { return e.AudioKey != "" }

// Draft is the user input for a new entry.
type Draft struct {
	Content string
	Tags    []string
	// Audio is the raw recording; nil means no recording.
	Audio []byte
}

// NormalizeTags trims and lower-cases tags, drops empty ones and removes
// duplicates, keeping the first occurrence.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// SortNewestFirst orders entries by CreatedAt descending. Entries created at
// the same instant keep their relative order.
func SortNewestFirst(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// InsertNewestFirst returns entries with e placed at its position in a
// newest-first ordering. Among equal timestamps e goes first.
func InsertNewestFirst(entries []Entry, e Entry) []Entry {
	i, _ := slices.BinarySearchFunc(entries, e, func(a, target Entry) int {
		if a.CreatedAt.After(target.CreatedAt) {
			return -1
		}
		return 1
	})
	return slices.Insert(entries, i, e)
}
