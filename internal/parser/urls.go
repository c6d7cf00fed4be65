package parser

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/itcaat/olxsearch/internal/models"
)

const (
	// BaseURL is the marketplace origin used when no override is configured.
	BaseURL = "https://www.olx.com.br"
)

// SearchPage identifies one page of one search scope.
type SearchPage struct {
	Query    string
	Category string
	Region   string
	Page     int
	Sort     models.SortOrder
}

// BuildSearchURL renders the listing URL for page p against base.
// Path is /{category}/estado-{uf}, either part optional, /brasil when both are empty.
func BuildSearchURL(base string, p SearchPage) string {
	if base == "" {
		base = BaseURL
	}

	var path strings.Builder
	if slug := normalizeSlug(p.Category); slug != "" {
		path.WriteString("/" + slug)
	}
	if region := strings.ToLower(strings.TrimSpace(p.Region)); region != "" {
		path.WriteString("/estado-" + region)
	}
	if path.Len() == 0 {
		path.WriteString("/brasil")
	}

	q := url.Values{}
	q.Set("q", strings.TrimSpace(p.Query))
	if p.Page > 1 {
		q.Set("o", strconv.Itoa(p.Page))
	}
	switch p.Sort {
	case models.SortPriceAsc:
		q.Set("sp", "1")
	case models.SortPriceDesc:
		q.Set("sp", "2")
	case models.SortDate:
		q.Set("sf", "1")
	}

	return strings.TrimRight(base, "/") + path.String() + "?" + q.Encode()
}

// resolveURL makes href absolute against base (BaseURL when empty).
// Absolute hrefs are kept; unparseable input yields "".
func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}

	if base == "" {
		base = BaseURL
	}
	origin, err := url.Parse(base)
	if err != nil || !origin.IsAbs() {
		return ""
	}
	return origin.ResolveReference(ref).String()
}
