package enrich

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// StripHTML removes all markup from raw content and decodes entities, so
// the index and the embedding model only ever see plain text.
func StripHTML(raw string) string {
	clean := stripPolicy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(clean))
}
