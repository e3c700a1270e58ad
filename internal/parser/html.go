package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLParser converts HTML email bodies to plain text
type HTMLParser struct {
	whitespaceRegex *regexp.Regexp
	newlineRegex    *regexp.Regexp
	tagRegex        *regexp.Regexp
}

// NewHTMLParser creates a new HTML parser
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{
		whitespaceRegex: regexp.MustCompile(`[^\S\n]+`),
		newlineRegex:    regexp.MustCompile(`\n{3,}`),
		tagRegex:        regexp.MustCompile(`<[^>]+>`),
	}
}

// Parse converts HTML to clean plain text. Markup that goquery cannot parse
// falls back to a plain tag-removal transform; Parse never fails.
func (p *HTMLParser) Parse(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return p.stripTags(html)
	}

	// Drop non-content elements
	doc.Find("script, style, head, meta, link").Remove()

	// Add newlines before block elements so text does not run together
	doc.Find("p, div, br, h1, h2, h3, h4, h5, h6, li, tr").Each(func(i int, s *goquery.Selection) {
		s.PrependHtml("\n")
	})

	return p.clean(doc.Text())
}

func (p *HTMLParser) stripTags(html string) string {
	return p.clean(p.tagRegex.ReplaceAllString(html, " "))
}

func (p *HTMLParser) clean(text string) string {
	text = p.whitespaceRegex.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	var cleanLines []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanLines = append(cleanLines, line)
		}
	}
	text = strings.Join(cleanLines, "\n")

	text = p.newlineRegex.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
