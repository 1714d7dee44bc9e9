// Package daily locates the daily file for a calendar date and inserts
// embed references to imported notes beneath a configured heading.
//
// The composer only ever inserts: existing content is never removed or
// reordered, and an embed already present in the file is never duplicated.
package daily

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/starford/pebblesync/internal/storage"
	"github.com/starford/pebblesync/internal/timefmt"
)

// Config is the daily-notes convention: target folder, file-name date
// format (Moment.js tokens), and an optional template file that seeds
// newly created daily files. It is resolved per link operation and never
// persisted here.
type Config struct {
	Folder       string
	Format       string
	TemplatePath string
}

// Composer inserts embed references into daily files.
type Composer struct {
	store storage.Provider
}

// NewComposer creates a Composer over the given vault storage.
func NewComposer(store storage.Provider) *Composer {
	return &Composer{store: store}
}

// EmbedRef builds the embed reference for a vault file: the host link
// syntax over the file's base name, prefixed with the embed marker.
func EmbedRef(targetPath string) string {
	base := strings.TrimSuffix(path.Base(targetPath), ".md")
	return "![[" + base + "]]"
}

// EnsureLink makes sure the daily file for moment exists and contains
// exactly one embed reference to targetPath beneath heading. The daily
// file is created (optionally seeded from cfg.TemplatePath) when absent.
func (c *Composer) EnsureLink(cfg Config, heading, targetPath string, moment time.Time) error {
	dailyPath := path.Join(cfg.Folder, timefmt.Format(moment, cfg.Format)+".md")

	if !c.store.Exists(dailyPath) {
		if cfg.Folder != "" {
			if err := c.store.CreateFolder(cfg.Folder); err != nil {
				return fmt.Errorf("daily: create folder: %w", err)
			}
		}
		seed := c.seedContent(cfg.TemplatePath)
		if err := c.store.Write(dailyPath, []byte(seed)); err != nil {
			return fmt.Errorf("daily: create %s: %w", dailyPath, err)
		}
	}

	data, err := c.store.Read(dailyPath)
	if err != nil {
		return fmt.Errorf("daily: read %s: %w", dailyPath, err)
	}
	content := string(data)

	embed := EmbedRef(targetPath)
	if strings.Contains(content, embed) {
		return nil
	}

	updated := insertEmbed(content, heading, embed)
	if err := c.store.Write(dailyPath, []byte(updated)); err != nil {
		return fmt.Errorf("daily: update %s: %w", dailyPath, err)
	}
	return nil
}

// seedContent reads the configured template file; a missing or unreadable
// template seeds an empty daily file.
func (c *Composer) seedContent(templatePath string) string {
	if templatePath == "" {
		return ""
	}
	data, err := c.store.Read(templatePath)
	if err != nil {
		return ""
	}
	return string(data)
}

// headingText returns the text of a Markdown heading line, or "" and false
// when the line is not a heading.
func headingText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	text := strings.TrimLeft(trimmed, "#")
	if text == trimmed {
		return "", false
	}
	return strings.TrimSpace(text), true
}

// insertEmbed splices the embed line into content beneath heading.
//
// The configured heading is matched by its text (leading hash markers
// stripped, case-insensitive) against headings of any level. When found,
// the embed goes after the section's last non-blank line and before the
// next heading of any level; a blank separator precedes it when the
// preceding line is non-blank and a blank line follows it. When the
// heading is absent a new section is appended at the end of the file.
func insertEmbed(content, heading, embed string) string {
	want := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(heading), "#"))
	lines := strings.Split(content, "\n")

	// Find the configured heading.
	headingIdx := -1
	for i, line := range lines {
		if text, ok := headingText(line); ok && strings.EqualFold(text, want) {
			headingIdx = i
			break
		}
	}

	if headingIdx < 0 {
		return appendSection(content, heading, embed)
	}

	// Find the section end: the next heading of any level.
	sectionEnd := len(lines)
	for i := headingIdx + 1; i < len(lines); i++ {
		if _, ok := headingText(lines[i]); ok {
			sectionEnd = i
			break
		}
	}

	// Insert after the section's last non-blank line.
	insertAt := headingIdx + 1
	for i := sectionEnd - 1; i > headingIdx; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			insertAt = i + 1
			break
		}
	}

	var inserted []string
	if strings.TrimSpace(lines[insertAt-1]) != "" {
		inserted = append(inserted, "")
	}
	inserted = append(inserted, embed, "")

	out := make([]string, 0, len(lines)+len(inserted))
	out = append(out, lines[:insertAt]...)
	out = append(out, inserted...)
	out = append(out, lines[insertAt:]...)
	return strings.Join(out, "\n")
}

// appendSection adds a fresh section at the end of the file: two leading
// blank lines, the heading line verbatim, the embed, and a trailing blank
// line.
func appendSection(content, heading, embed string) string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return heading + "\n" + embed + "\n"
	}
	return trimmed + "\n\n\n" + heading + "\n" + embed + "\n"
}
