package naming

import (
	"strings"
	"testing"

	"github.com/starford/pebblesync/internal/models"
)

func TestTriggerTagWins(t *testing.T) {
	note := models.RemoteNote{
		Content: "Some long content that would otherwise name the file",
		Tags:    []string{"#Idea", "misc"},
	}
	got := ResolveBaseName(note, []string{"idea"})
	if got != "Idea" {
		t.Errorf("ResolveBaseName = %q, want %q", got, "Idea")
	}
}

func TestTriggerTagOrderIsDeterministic(t *testing.T) {
	note := models.RemoteNote{
		Content: "body",
		Tags:    []string{"work", "idea"},
	}
	// First trigger tag in configured order wins, not first note tag.
	got := ResolveBaseName(note, []string{"idea", "work"})
	if got != "Idea" {
		t.Errorf("ResolveBaseName = %q, want %q", got, "Idea")
	}
	for i := 0; i < 3; i++ {
		if again := ResolveBaseName(note, []string{"idea", "work"}); again != got {
			t.Fatalf("not deterministic: %q vs %q", again, got)
		}
	}
}

func TestFirstLineFallback(t *testing.T) {
	note := models.RemoteNote{Content: "  Buy milk  \nand eggs"}
	if got := ResolveBaseName(note, nil); got != "Buy milk" {
		t.Errorf("ResolveBaseName = %q", got)
	}
}

func TestFirstLineSkipsLeadingBlankLines(t *testing.T) {
	note := models.RemoteNote{Content: "\n\n  \nActual title\nrest"}
	if got := ResolveBaseName(note, nil); got != "Actual title" {
		t.Errorf("ResolveBaseName = %q", got)
	}
}

func TestFirstLineTruncatedTo50Runes(t *testing.T) {
	long := strings.Repeat("x", 80)
	note := models.RemoteNote{Content: long}
	got := ResolveBaseName(note, nil)
	if len([]rune(got)) != 50 {
		t.Errorf("len = %d, want 50", len([]rune(got)))
	}
}

func TestDefaultName(t *testing.T) {
	cases := []models.RemoteNote{
		{Content: ""},
		{Content: "   \n\t\n"},
		{Content: `\\/:*?"`},
	}
	for _, note := range cases {
		if got := ResolveBaseName(note, nil); got != DefaultBaseName {
			t.Errorf("ResolveBaseName(%q) = %q, want %q", note.Content, got, DefaultBaseName)
		}
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`a/b\c:d`, "abcd"},
		{`what? "quoted" <angle> |pipe| *star*`, "what quoted angle pipe star"},
		{"  spaced   out\tname  ", "spaced out name"},
		{"clean name", "clean name"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeTag(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"#Idea", "idea"},
		{"  #Work  ", "work"},
		{"PLAIN", "plain"},
		{"# spaced", "spaced"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeTag(tc.in); got != tc.want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
