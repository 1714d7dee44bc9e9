package template

import (
	"testing"

	"github.com/starford/pebblesync/internal/models"
)

func sampleData() models.TemplateData {
	return models.TemplateData{
		Content:      "Buy milk",
		Date:         "2024-01-05",
		Time:         "10:30",
		FullDateTime: "Friday, January 5th 2024 10-30",
		Tags:         []string{"idea", "", "shopping"},
	}
}

func TestRender(t *testing.T) {
	cases := []struct {
		name, tpl, want string
	}{
		{
			"all placeholders",
			"{{content}} | {{date}} | {{time}} | {{fullDateTime}} | {{tags}}",
			"Buy milk | 2024-01-05 | 10:30 | Friday, January 5th 2024 10-30 | idea, shopping",
		},
		{
			"case insensitive",
			"{{CONTENT}} on {{FullDateTime}}",
			"Buy milk on Friday, January 5th 2024 10-30",
		},
		{
			"repeated occurrences",
			"{{date}} {{date}}",
			"2024-01-05 2024-01-05",
		},
		{
			"unknown placeholder untouched",
			"{{content}} {{nope}} {{}}",
			"Buy milk {{nope}} {{}}",
		},
		{
			"no placeholders",
			"plain text",
			"plain text",
		},
		{
			"empty template",
			"",
			"",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Render(tc.tpl, sampleData()); got != tc.want {
				t.Errorf("Render(%q) = %q, want %q", tc.tpl, got, tc.want)
			}
		})
	}
}

func TestRenderDoesNotInterpretMarkdown(t *testing.T) {
	data := sampleData()
	data.Content = "# Heading\n*emphasis* [link](x)"
	got := Render("{{content}}", data)
	if got != data.Content {
		t.Errorf("content altered: %q", got)
	}
}

func TestRenderDoesNotRescanSubstitutedContent(t *testing.T) {
	data := sampleData()
	data.Content = "literal {{tags}} inside content"
	got := Render("{{content}}", data)
	if got != "literal {{tags}} inside content" {
		t.Errorf("substituted content was rescanned: %q", got)
	}
}

func TestRenderEmptyTagsList(t *testing.T) {
	data := sampleData()
	data.Tags = nil
	if got := Render("Tags: {{tags}}", data); got != "Tags: " {
		t.Errorf("got %q", got)
	}
}
