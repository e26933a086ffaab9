package widget

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// A single pass over both link forms keeps a generated href from being
	// linked a second time.
	linkPattern = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)|(https?://[^\s<]+)`)
	boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)

	messagePolicy = newMessagePolicy()
)

func newMessagePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("strong", "br")
	p.AllowAttrs("href", "target", "rel").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto", "tel")
	p.AllowRelativeURLs(true)
	return p
}

// FormatMessage renders message text as HTML that only ever contains
// links, bold text and line breaks.
func FormatMessage(content string) string {
	formatted := html.EscapeString(content)
	formatted = linkPattern.ReplaceAllStringFunc(formatted, formatLink)
	formatted = boldPattern.ReplaceAllString(formatted, "<strong>$1</strong>")
	formatted = strings.ReplaceAll(formatted, "\n", "<br>")
	return messagePolicy.Sanitize(formatted)
}

func formatLink(match string) string {
	groups := linkPattern.FindStringSubmatch(match)
	if groups[3] != "" {
		return anchor(groups[3], groups[3])
	}
	label, href := groups[1], groups[2]
	if !allowedHref(href) {
		return label
	}
	return anchor(href, label)
}

func anchor(href, label string) string {
	return `<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + label + `</a>`
}

func allowedHref(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	for _, prefix := range []string{"http://", "https://", "mailto:", "tel:", "/", "#"} {
		if strings.HasPrefix(lower, prefix) {
			return !strings.HasPrefix(lower, "//")
		}
	}
	return false
}
