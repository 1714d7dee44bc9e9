// Package template expands the placeholder set used in note body templates.
//
// Rendering is literal string substitution: Markdown in the content is
// passed through untouched, and placeholder syntax that names an unknown
// variable is left exactly as written.
package template

import (
	"regexp"
	"strings"

	"github.com/starford/pebblesync/internal/models"
)

// DefaultBody is used when no template is configured.
const DefaultBody = "{{content}}\n\n---\nImported from Pebble on {{fullDateTime}}\nTags: {{tags}}\n"

// placeholderRe matches the known placeholders case-insensitively.
// A single pass over the template means substituted values are never
// themselves scanned for placeholders.
var placeholderRe = regexp.MustCompile(`(?i)\{\{(content|date|time|fulldatetime|tags)\}\}`)

// Render substitutes every occurrence of {{content}}, {{date}}, {{time}},
// {{fullDateTime}} and {{tags}} in tpl, matching names case-insensitively.
// {{tags}} renders the non-empty tags joined with ", ". Unknown {{...}}
// syntax is left untouched.
func Render(tpl string, data models.TemplateData) string {
	return placeholderRe.ReplaceAllStringFunc(tpl, func(match string) string {
		name := strings.ToLower(match[2 : len(match)-2])
		switch name {
		case "content":
			return data.Content
		case "date":
			return data.Date
		case "time":
			return data.Time
		case "fulldatetime":
			return data.FullDateTime
		case "tags":
			return joinTags(data.Tags)
		}
		return match
	})
}

func joinTags(tags []string) string {
	kept := make([]string, 0, len(tags))
	for _, t := range tags {
		if strings.TrimSpace(t) != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, ", ")
}
