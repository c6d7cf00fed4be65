package parser

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/itcaat/olxsearch/internal/models"
)

// ErrNoDetail is returned when a detail page carries neither payload.
var ErrNoDetail = errors.New("detail page has no structured data")

// reservedAttributes are adProperties entries that are not real attributes.
var reservedAttributes = map[string]bool{"category": true}

var brTag = regexp.MustCompile(`(?i)<br\s*/?>`)

// Detail holds the supplementary fields read from a listing page.
type Detail struct {
	Description *string
	Images      []models.Image
	Attributes  []models.Property
	SellerName  *string
}

type ldNode struct {
	Description flexString      `json:"description"`
	Image       json.RawMessage `json:"image"`
	Graph       []ldNode        `json:"@graph"`
}

// ParseDetail reads the ld+json block and the adProperties object of the
// listing page served at pageURL. Either source alone is enough. Relative
// image URLs are resolved against pageURL.
func ParseDetail(doc, pageURL string) (*Detail, error) {
	detail := &Detail{}
	found := false

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err == nil {
		parsed.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			node, ok := decodeLD(s.Text())
			if !ok {
				return true
			}
			found = true
			detail.Description = optional(htmlToText(node.Description.String()))
			detail.Images = ldImages(node.Image, pageURL)
			return false
		})
	}

	var raw RawDetail
	withProperties := func(obj []byte) bool {
		raw = RawDetail{}
		return json.Unmarshal(obj, &raw) == nil && raw.AdProperties != nil
	}
	if ExtractEnclosingObjectFunc(doc, "adProperties", withProperties) != nil {
		found = true
		detail.Attributes = toProperties(raw.AdProperties, reservedAttributes)
		detail.SellerName = optional(raw.AdDetail.SellerName.String())
	}

	if !found {
		return nil, ErrNoDetail
	}
	return detail, nil
}

// Apply merges the detail into item. Images are replaced only when the page
// listed some.
func (d *Detail) Apply(item *models.Item) {
	if d == nil || item == nil {
		return
	}
	item.Description = d.Description
	item.Attributes = d.Attributes
	item.SellerName = d.SellerName
	if len(d.Images) > 0 {
		item.Images = d.Images
	}
}

// decodeLD returns the first node with a description or image, looking into
// top-level arrays and @graph.
func decodeLD(text string) (ldNode, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ldNode{}, false
	}

	var nodes []ldNode
	if strings.HasPrefix(text, "[") {
		if err := json.Unmarshal([]byte(text), &nodes); err != nil {
			return ldNode{}, false
		}
	} else {
		var node ldNode
		if err := json.Unmarshal([]byte(text), &node); err != nil {
			return ldNode{}, false
		}
		nodes = append([]ldNode{node}, node.Graph...)
	}

	for _, n := range nodes {
		if n.Description.String() != "" || len(n.Image) > 0 {
			return n, true
		}
	}
	return ldNode{}, false
}

// ldImages accepts a URL, a list of URLs, an ImageObject or a list of them.
func ldImages(raw json.RawMessage, base string) []models.Image {
	if len(raw) == 0 {
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		entries = []json.RawMessage{raw}
	}

	var images []models.Image
	for _, e := range entries {
		var u string
		if err := json.Unmarshal(e, &u); err != nil {
			var obj struct {
				URL        string `json:"url"`
				ContentURL string `json:"contentUrl"`
			}
			if err := json.Unmarshal(e, &obj); err != nil {
				continue
			}
			u = obj.URL
			if u == "" {
				u = obj.ContentURL
			}
		}
		if u = resolveURL(base, u); u != "" {
			images = append(images, models.Image{URL: u})
		}
	}
	return images
}

// htmlToText turns <br> into newlines, strips the remaining markup and trims.
func htmlToText(s string) string {
	if s == "" {
		return ""
	}
	s = brTag.ReplaceAllString(s, "\n")
	fragment, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fragment.Text())
}
