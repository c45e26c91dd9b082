package feed

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// FacultySubareaCodes are the personnel sub-areas reported as faculty.
var FacultySubareaCodes = []string{"CFAT", "CFAN"}

// Initials returns the initials of each non-empty name part, joined by a
// single space. Within a part, every run of word characters and every run
// of separators (whitespace or '-') contributes its first rune, so
// "Gull-Þóris" becomes "G-Þ". Other punctuation is dropped.
func Initials(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if s := partInitials(p); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}

type runeClass int

const (
	classDrop runeClass = iota
	classWord
	classSeparator
)

func classify(r rune) runeClass {
	switch {
	case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r), r == '_':
		return classWord
	case unicode.IsSpace(r), r == '-':
		return classSeparator
	}
	return classDrop
}

func partInitials(part string) string {
	var b strings.Builder
	prev := classDrop
	for _, r := range norm.NFC.String(part) {
		c := classify(r)
		if c == classDrop || c == prev {
			continue
		}
		b.WriteRune(r)
		prev = c
	}
	// cases.Caser is stateful, one per call.
	return cases.Upper(language.Und).String(b.String())
}

// GroupName qualifies an org unit name as faculty or non-faculty.
func GroupName(unit, subareaCode string) string {
	for _, code := range FacultySubareaCodes {
		if subareaCode == code {
			return unit + " Faculty"
		}
	}
	return unit + " Non-faculty"
}

// HireDateString formats toFaculty when present and original otherwise.
// It returns "" when both are nil.
func HireDateString(original, toFaculty *time.Time) string {
	switch {
	case toFaculty != nil:
		return toFaculty.Format(DateLayout)
	case original != nil:
		return original.Format(DateLayout)
	}
	return ""
}
