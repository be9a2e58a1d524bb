package sanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTML policy for user-authored rich text (log descriptions, section
// content). Allow-listed formatting only; scripts, event handlers, and
// style attributes never survive a save.
var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "b", "strong", "i", "em", "u", "s",
		"ul", "ol", "li",
		"h1", "h2", "h3", "h4",
		"blockquote", "pre", "code",
		"table", "thead", "tbody", "tr", "th", "td",
	)
	p.AllowAttrs("href").OnElements("a")
	p.AllowElements("a")
	p.RequireNoFollowOnLinks(true)
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowElements("img")
	p.AllowStandardURLs()
	return p
}

// HTML returns the allow-listed rendition of the input markup.
func HTML(input string) string {
	return policy.Sanitize(input)
}
