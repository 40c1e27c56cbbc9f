package copywriter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Issue codes reported by Lint.
const (
	IssueQuotes     = "quotes"
	IssueEmoji      = "emoji"
	IssueNumbering  = "numbering"
	IssueMissingCTA = "missing_cta"
	IssueTooFew     = "too_few"
)

// Issue is one formatting rule the generated text breaks.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

var (
	numberedLine  = regexp.MustCompile(`^\s*(\d+[.)]|[-*•])\s+`)
	paragraphSep  = regexp.MustCompile(`\n\s*\n`)
	quoteRunes    = "\"'“”‘’«»„‚"
	ctaBracketRef = regexp.MustCompile(`\[[^\]]*\]`)
)

// Lint checks generated copy against the formatting rules given to the
// model. It never changes the text.
func Lint(text string, count int, cta string) []Issue {
	var issues []Issue

	for i, line := range strings.Split(text, "\n") {
		n := i + 1
		if strings.ContainsAny(line, quoteRunes) {
			issues = append(issues, Issue{Code: IssueQuotes, Message: "contains quotation marks", Line: n})
		}
		if hasEmoji(line) {
			issues = append(issues, Issue{Code: IssueEmoji, Message: "contains emoji", Line: n})
		}
		if numberedLine.MatchString(line) {
			issues = append(issues, Issue{Code: IssueNumbering, Message: "starts with a number or bullet", Line: n})
		}
	}

	paragraphs := Paragraphs(text)
	if len(paragraphs) < count {
		issues = append(issues, Issue{
			Code:    IssueTooFew,
			Message: fmt.Sprintf("expected %d variants, got %d", count, len(paragraphs)),
		})
	}

	marker := ctaMarker(cta)
	if marker != "" {
		for i, p := range paragraphs {
			if !strings.Contains(strings.ToLower(p), marker) {
				issues = append(issues, Issue{
					Code:    IssueMissingCTA,
					Message: fmt.Sprintf("variant %d does not end with the call to action", i+1),
				})
			}
		}
	}
	return issues
}

// Paragraphs splits text on blank lines and drops empty pieces.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range paragraphSep.Split(strings.ReplaceAll(text, "\r\n", "\n"), -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ctaMarker is the fixed part of the call to action, e.g. "mau promo" for
// "mau promo [kategori produk]!".
func ctaMarker(cta string) string {
	if cta == "" {
		cta = DefaultCTA
	}
	m := ctaBracketRef.ReplaceAllString(cta, "")
	m = strings.TrimFunc(m, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return strings.ToLower(m)
}

func hasEmoji(s string) bool {
	for _, r := range s {
		switch {
		case r >= 0x1F000 && r <= 0x1FAFF,
			r >= 0x2600 && r <= 0x27BF,
			r == 0xFE0F, r == 0x200D:
			return true
		}
	}
	return false
}
