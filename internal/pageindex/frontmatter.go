package pageindex

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

// Page holds a markdown file's frontmatter fields and its content text.
type Page struct {
	Fields  map[string]any
	Content string
	// ContentDeclared is true when the frontmatter carried its own content
	// key, preventing derivation from the markdown body.
	ContentDeclared bool
}

// md renders markdown bodies to HTML for content extraction. Stateless, so
// one instance serves every file.
var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Hugo shortcode markers, both the {{% %}} and {{< >}} syntaxes.
var shortcodeRe = regexp.MustCompile(`\{\{%.*?%\}\}|\{\{<.*?>\}\}`)

// ParsePage parses a markdown file's frontmatter and derives its content
// text. A frontmatter block that fails to parse is an error; a frontmatter
// block that already declares a content key is reported by the caller as a
// soft error and its value used verbatim.
func ParsePage(raw []byte) (Page, error) {
	fields := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(raw), &fields)
	if err != nil {
		return Page{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	p := Page{Fields: fields}
	if v, ok := fields["content"]; ok {
		p.ContentDeclared = true
		// Declared content is used verbatim. The record's content is a
		// string, so a non-string value (rare, and already a soft error)
		// is stringified rather than serialized structurally.
		if s, ok := v.(string); ok {
			p.Content = s
		} else {
			p.Content = fmt.Sprint(v)
		}
		return p, nil
	}

	text, err := renderText(body)
	if err != nil {
		return Page{}, fmt.Errorf("render content: %w", err)
	}
	p.Content = text
	return p, nil
}

// DisplayTitle returns the page's display name from frontmatter: linktitle
// wins over title; empty when neither is set.
func (p Page) DisplayTitle() string {
	if s, ok := p.Fields["linktitle"].(string); ok && s != "" {
		return s
	}
	if s, ok := p.Fields["title"].(string); ok && s != "" {
		return s
	}
	return ""
}

// TagValues aggregates the page's values for the given frontmatter fields,
// in field order, without deduplication. A bare scalar string counts as a
// one-element list (Hugo accepts both forms); missing fields contribute
// nothing.
func (p Page) TagValues(fields []string) []string {
	tags := []string{}
	for _, f := range fields {
		switch v := p.Fields[f].(type) {
		case string:
			tags = append(tags, v)
		case []string:
			tags = append(tags, v...)
		case []any:
			for _, item := range v {
				tags = append(tags, fmt.Sprint(item))
			}
		}
	}
	return tags
}

// renderText renders the markdown body to HTML, strips the tags back out,
// and removes shortcode markers.
func renderText(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert(body, &buf); err != nil {
		return "", err
	}
	return shortcodeRe.ReplaceAllString(htmlText(&buf), ""), nil
}

// htmlText extracts the text nodes of an HTML fragment.
func htmlText(r *bytes.Buffer) string {
	tok := html.NewTokenizer(r)
	var b strings.Builder
	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tok.Text())
		}
	}
}
