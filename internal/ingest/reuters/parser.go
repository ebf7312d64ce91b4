// Package reuters parses the Reuters-21578 SGML corpus into raw documents.
package reuters

import (
	"fmt"
	"html"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/YAQOOBM6874/Smart-IR-System/pkg/stringsutil"
)

const (
	fallbackTitle         = "Reuters News"
	titleSnippetMaxLength = 60
)

var (
	documentRe = regexp.MustCompile(`(?is)<REUTERS[^>]*>(.*?)</REUTERS>`)
	itemRe     = regexp.MustCompile(`(?is)<D>(.*?)</D>`)
	residualRe = regexp.MustCompile(`<[^>]+>`)
	fractionRe = regexp.MustCompile(`\.\d+$`)

	tagRes = map[string]*regexp.Regexp{}
)

func init() {
	for _, tag := range []string{"DATE", "TITLE", "BODY", "DATELINE", "TOPICS", "PLACES"} {
		tagRes[tag] = regexp.MustCompile(fmt.Sprintf(`(?is)<%s>(.*?)</%s>`, tag, tag))
	}
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseFile extracts every REUTERS block from one .sgm file. Blocks that
// cannot yield a document are skipped, not fatal.
func (p *Parser) ParseFile(path string) ([]domain.RawDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	return p.Parse(string(data)), nil
}

// Parse extracts raw documents from SGML content.
func (p *Parser) Parse(content string) []domain.RawDocument {
	matches := documentRe.FindAllStringSubmatch(content, -1)

	docs := make([]domain.RawDocument, 0, len(matches))
	for _, m := range matches {
		if doc, ok := p.parseDocument(m[1]); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

func (p *Parser) parseDocument(block string) (domain.RawDocument, bool) {
	title := tagContent(block, "TITLE")
	body := tagContent(block, "BODY")
	dateline := tagContent(block, "DATELINE")

	if title == "" {
		title = deriveTitle(body, dateline)
	}
	if title == "" && body == "" {
		return domain.RawDocument{}, false
	}

	places := listContent(block, "PLACES")
	topics := listContent(block, "TOPICS")

	doc := domain.RawDocument{
		Title:   title,
		Content: body,
	}

	if date, ok := parseReutersDate(tagContent(block, "DATE")); ok {
		doc.Date = &date
	}

	if len(places) > 0 || len(topics) > 0 {
		doc.Metadata = &domain.SourceMetadata{
			SourcePlaces: places,
			SourceTopics: topics,
		}
	}

	return doc, true
}

// deriveTitle builds a title for untitled wires: the first sentence of the
// body clipped to 60 characters, then the dateline. Empty when the block has
// neither, so callers can drop it.
func deriveTitle(body, dateline string) string {
	if body != "" {
		snippet := body
		if idx := strings.Index(snippet, "."); idx >= 0 {
			snippet = snippet[:idx]
		}
		snippet = stringsutil.Truncate(snippet, titleSnippetMaxLength)
		if snippet = strings.TrimSpace(snippet); snippet != "" {
			return snippet
		}
		return fallbackTitle
	}

	return dateline
}

func tagContent(block, tag string) string {
	m := tagRes[tag].FindStringSubmatch(block)
	if m == nil {
		return ""
	}

	content := residualRe.ReplaceAllString(m[1], "")
	return strings.TrimSpace(html.UnescapeString(content))
}

func listContent(block, tag string) []string {
	m := tagRes[tag].FindStringSubmatch(block)
	if m == nil {
		return nil
	}

	items := itemRe.FindAllStringSubmatch(m[1], -1)
	values := make([]string, 0, len(items))
	for _, item := range items {
		values = append(values, strings.TrimSpace(item[1]))
	}
	return stringsutil.RemoveEmptyStrings(values)
}

// parseReutersDate handles the corpus format "26-FEB-1987 15:01:01.79":
// fractional seconds are dropped and the upper-cased month normalized, a
// bare date without time is accepted too.
func parseReutersDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(fractionRe.ReplaceAllString(strings.TrimSpace(raw), ""))
	if raw == "" {
		return time.Time{}, false
	}

	raw = normalizeMonth(raw)

	if t, err := time.Parse("2-Jan-2006 15:04:05", raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2-Jan-2006", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func normalizeMonth(raw string) string {
	parts := strings.SplitN(raw, "-", 3)
	if len(parts) != 3 {
		return raw
	}

	month := parts[1]
	if len(month) > 1 {
		month = strings.ToUpper(month[:1]) + strings.ToLower(month[1:])
	}
	return parts[0] + "-" + month + "-" + parts[2]
}
