package respond

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText renders a response for a terminal: line breaks become newlines,
// links keep their target in parentheses and all other markup is dropped.
func PlainText(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))

	var b strings.Builder
	var href string
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way the text so far is all we get
			return strings.TrimRight(b.String(), "\n")

		case html.TextToken:
			b.Write(z.Text())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "br", "p":
				b.WriteByte('\n')
			case "a":
				href = ""
				for hasAttr {
					var key, val []byte
					key, val, hasAttr = z.TagAttr()
					if string(key) == "href" {
						href = string(val)
					}
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == "a" && href != "" && href != "#" {
				b.WriteString(" (" + href + ")")
				href = ""
			}
		}
	}
}
