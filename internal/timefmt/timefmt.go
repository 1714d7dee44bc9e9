// Package timefmt formats times using Moment.js-style token strings, the
// convention the Pebble service and daily-notes folders use for file names
// (e.g. "dddd, MMMM Do YYYY HH-mm" or "YYYY-MM-DD").
package timefmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// tokens are tried longest-first at each position so "MMMM" is never read
// as two "MM".
var tokens = []struct {
	tok    string
	render func(t time.Time) string
}{
	{"dddd", func(t time.Time) string { return t.Weekday().String() }},
	{"ddd", func(t time.Time) string { return t.Weekday().String()[:3] }},
	{"MMMM", func(t time.Time) string { return t.Month().String() }},
	{"MMM", func(t time.Time) string { return t.Month().String()[:3] }},
	{"YYYY", func(t time.Time) string { return fmt.Sprintf("%04d", t.Year()) }},
	{"YY", func(t time.Time) string { return fmt.Sprintf("%02d", t.Year()%100) }},
	{"MM", func(t time.Time) string { return fmt.Sprintf("%02d", int(t.Month())) }},
	{"Do", func(t time.Time) string { return ordinal(t.Day()) }},
	{"DD", func(t time.Time) string { return fmt.Sprintf("%02d", t.Day()) }},
	{"HH", func(t time.Time) string { return fmt.Sprintf("%02d", t.Hour()) }},
	{"hh", func(t time.Time) string { return fmt.Sprintf("%02d", hour12(t)) }},
	{"mm", func(t time.Time) string { return fmt.Sprintf("%02d", t.Minute()) }},
	{"ss", func(t time.Time) string { return fmt.Sprintf("%02d", t.Second()) }},
	{"D", func(t time.Time) string { return strconv.Itoa(t.Day()) }},
	{"M", func(t time.Time) string { return strconv.Itoa(int(t.Month())) }},
	{"H", func(t time.Time) string { return strconv.Itoa(t.Hour()) }},
	{"h", func(t time.Time) string { return strconv.Itoa(hour12(t)) }},
	{"m", func(t time.Time) string { return strconv.Itoa(t.Minute()) }},
	{"s", func(t time.Time) string { return strconv.Itoa(t.Second()) }},
	{"A", func(t time.Time) string { return meridiem(t, true) }},
	{"a", func(t time.Time) string { return meridiem(t, false) }},
}

// Format renders t according to the token layout. Text between square
// brackets is emitted literally; any character that starts no token is
// copied through unchanged.
func Format(t time.Time, layout string) string {
	var b strings.Builder
	i := 0
	for i < len(layout) {
		if layout[i] == '[' {
			end := strings.IndexByte(layout[i:], ']')
			if end < 0 {
				b.WriteString(layout[i+1:])
				break
			}
			b.WriteString(layout[i+1 : i+end])
			i += end + 1
			continue
		}
		matched := false
		for _, tk := range tokens {
			if strings.HasPrefix(layout[i:], tk.tok) {
				b.WriteString(tk.render(t))
				i += len(tk.tok)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(layout[i])
			i++
		}
	}
	return b.String()
}

func ordinal(day int) string {
	suffix := "th"
	if day%100 < 11 || day%100 > 13 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(day) + suffix
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return h
}

func meridiem(t time.Time, upper bool) string {
	s := "am"
	if t.Hour() >= 12 {
		s = "pm"
	}
	if upper {
		return strings.ToUpper(s)
	}
	return s
}
