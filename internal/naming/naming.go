// Package naming derives filesystem-safe base names for imported notes.
package naming

import (
	"strings"

	"github.com/starford/pebblesync/internal/models"
)

// DefaultBaseName is used when a note has no trigger tag and no usable
// first line of content.
const DefaultBaseName = "Pebble Note"

// maxBaseNameLen caps the content-derived base name length in runes.
const maxBaseNameLen = 50

// invalidChars are stripped from base names; they are invalid in file
// names on at least one supported platform.
const invalidChars = `\/:*?"<>|`

// ResolveBaseName derives the base file name for a note.
//
// When one of the configured trigger tags appears among the note's tags
// (compared after normalization), the first matching trigger tag in
// configured order wins and is title-cased. Otherwise the first non-empty
// line of content is truncated and sanitized; if that leaves nothing,
// DefaultBaseName is returned.
func ResolveBaseName(note models.RemoteNote, triggerTags []string) string {
	noteTags := make(map[string]struct{}, len(note.Tags))
	for _, tag := range note.Tags {
		if norm := NormalizeTag(tag); norm != "" {
			noteTags[norm] = struct{}{}
		}
	}
	for _, trigger := range triggerTags {
		norm := NormalizeTag(trigger)
		if norm == "" {
			continue
		}
		if _, ok := noteTags[norm]; ok {
			return titleCase(norm)
		}
	}

	line := firstLine(note.Content)
	if runes := []rune(line); len(runes) > maxBaseNameLen {
		line = string(runes[:maxBaseNameLen])
	}
	if name := Sanitize(line); name != "" {
		return name
	}
	return DefaultBaseName
}

// NormalizeTag strips a leading "#" marker, trims surrounding whitespace,
// and lower-cases the tag.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "#")
	return strings.ToLower(strings.TrimSpace(tag))
}

// Sanitize removes characters invalid in file names, collapses whitespace
// runs to a single space, and trims the edges.
func Sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(invalidChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}
