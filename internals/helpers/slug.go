package helper

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

// Slugify turns free text into [a-z0-9-], strips diacritics, collapses "-",
// enforces maxLen (default 100 when <= 0) and falls back to "item".
func Slugify(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 100
	}
	s = strings.ToLower(strings.TrimSpace(s))
	s = stripMarks(s)

	s = reNonAlnum.ReplaceAllString(s, "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if s == "" {
		s = "item"
	}
	if utf8.RuneCountInString(s) > maxLen {
		rs := []rune(s)
		s = string(rs[:maxLen])
		s = strings.Trim(s, "-")
	}
	if s == "" {
		s = "item"
	}
	return s
}

// CleanGroupName is the display form of a group label: NFKC, trimmed, single spaces.
func CleanGroupName(s string) string {
	s = norm.NFKC.String(s)
	s = reSpaces.ReplaceAllString(strings.TrimSpace(s), " ")
	return s
}

// GroupKey is the lookup key of a group label. "  Mahila  Mandal " and "mahila mandal"
// share a key; so do "Café" and "Cafe".
func GroupKey(s string) string {
	s = strings.ToLower(CleanGroupName(s))
	return stripMarks(s)
}

// GroupKeyPtr returns nil for an empty label.
func GroupKeyPtr(s *string) (*string, *string) {
	if s == nil {
		return nil, nil
	}
	name := CleanGroupName(*s)
	if name == "" {
		return nil, nil
	}
	key := GroupKey(name)
	return &name, &key
}

func stripMarks(s string) string {
	var buf []rune
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		buf = append(buf, r)
	}
	return norm.NFC.String(string(buf))
}
