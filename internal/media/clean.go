package media

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// CleanDescription converts the lightly HTML-formatted description AniList
// returns into plain text: <br> becomes a line break, paragraph ends become
// a blank line, every other tag is dropped and entities are unescaped.
func CleanDescription(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r", "")

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.TextToken:
			// The tokenizer unescapes entities for us.
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) == "br" {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "p" {
				b.WriteString("\n\n")
			}
		}
	}

	out := excessNewlines.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out)
}
