package reference

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Filter decides whether a transcript may be used as a reference. A
// rejected transcript is treated as if there were none.
type Filter func(text string) (ok bool, reason string)

// AllowAll accepts every transcript.
func AllowAll(string) (bool, string) { return true, "" }

type marker struct {
	phrase string
	word   *regexp.Regexp // nil for symbol markers such as ♪ or [music]
}

// LyricsDenylist rejects transcripts that look like song lyrics, i.e. that
// contain any of phrases (case-insensitive). Phrases that start and end
// with a letter or digit only match whole words, so "lirik" does not
// match "melirik". Other phrases match anywhere.
func LyricsDenylist(phrases ...string) Filter {
	markers := make([]marker, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		m := marker{phrase: p}
		if wordShaped(p) {
			m.word = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])` + regexp.QuoteMeta(p) + `(?:$|[^\p{L}\p{N}])`)
		}
		markers = append(markers, m)
	}
	return func(text string) (bool, string) {
		t := strings.ToLower(text)
		for _, m := range markers {
			if m.word != nil && m.word.MatchString(t) || m.word == nil && strings.Contains(t, m.phrase) {
				return false, "matched lyric marker " + m.phrase
			}
		}
		return true, ""
	}
}

func wordShaped(p string) bool {
	first, _ := utf8.DecodeRuneInString(p)
	last, _ := utf8.DecodeLastRuneInString(p)
	isWord := func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }
	return isWord(first) && isWord(last)
}
