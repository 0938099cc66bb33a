package utils

import (
	"strings"
)

// blockedWords is the caption/username keyword list. Matching runs against
// a normalized form, so "fr33" and "f.r.e.e" both hit "free"-style entries.
var blockedWords = []string{
	"spam",
	"scam",
	"nsfw",
	"porn",
	"nude",
	"sex",
	"kill",
	"suicide",
	"nazi",
	"hitler",
	"fuck",
	"shit",
	"bitch",
	"cunt",
	"nigger",
	"faggot",
	"onlyfans",
	"crypto giveaway",
	"free followers",
}

var leetReplacer = strings.NewReplacer(
	"0", "o",
	"1", "i",
	"3", "e",
	"4", "a",
	"5", "s",
	"7", "t",
	"8", "b",
	"@", "a",
	"$", "s",
	"!", "i",
	"+", "t",
)

// normalizeText lowercases, undoes common leetspeak substitutions and strips
// separator characters so split-up words still match.
func normalizeText(text string) string {
	t := strings.ToLower(text)
	t = leetReplacer.Replace(t)

	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		switch r {
		case ' ', '.', '-', '_', '*', '~', '\'', '"', ',':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsTextClean reports whether text passes the content-policy keyword filter.
func IsTextClean(text string) bool {
	normalized := normalizeText(text)
	for _, word := range blockedWords {
		if strings.Contains(normalized, normalizeText(word)) {
			return false
		}
	}
	return true
}
