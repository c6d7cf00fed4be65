package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/itcaat/olxsearch/internal/models"
)

// priceJunk matches everything that cannot be part of a locale-formatted price.
var priceJunk = regexp.MustCompile(`[^\d,.]`)

// NormalizeListing converts one raw search record into an Item. Relative
// links are resolved against base. Records without a usable title return nil.
func NormalizeListing(raw RawListing, base string) *models.Item {
	title := raw.Subject.String()
	if title == "" {
		title = raw.Title.String()
	}
	if title == "" {
		return nil
	}

	item := &models.Item{
		ID:                     optional(raw.ListID.String()),
		Title:                  title,
		Price:                  parsePrice(string(raw.Price)),
		OldPrice:               parsePrice(string(raw.OldPrice)),
		Location:               optional(raw.Location.String()),
		Thumbnail:              optional(resolveURL(base, raw.Thumbnail.String())),
		ImageCount:             int(raw.ImageCount),
		VideoCount:             int(raw.VideoCount),
		Permalink:              optional(resolveURL(base, raw.URL.String())),
		Category:               optional(raw.Category.String()),
		CategoryID:             optional(raw.CategoryID.String()),
		IsProfessionalSeller:   bool(raw.ProfessionalAd),
		HasPaymentIntegration:  bool(raw.OLXPay),
		HasDeliveryIntegration: bool(raw.OLXDelivery),
		IsFeatured:             bool(raw.IsFeatured),
	}

	item.DiscountPercent = discountPercent(item.Price, item.OldPrice)
	item.HasPriceReduction = item.DiscountPercent != nil

	if loc := raw.LocationDetails; loc != nil {
		details := models.LocationDetails{
			Municipality:  loc.Municipality.String(),
			RegionCode:    strings.ToUpper(loc.UF.String()),
			Neighbourhood: loc.Neighbourhood.String(),
		}
		if details != (models.LocationDetails{}) {
			item.LocationDetails = &details
		}
	}

	if raw.Date > 0 {
		ts := int64(raw.Date)
		iso := time.Unix(ts, 0).UTC().Format(time.RFC3339)
		item.PostedAt = &ts
		item.PostedAtISO = &iso
	}

	for _, img := range raw.Images {
		u := resolveURL(base, img.Original.String())
		if u == "" {
			u = resolveURL(base, img.Thumbnail.String())
		}
		if u == "" {
			continue
		}
		item.Images = append(item.Images, models.Image{
			URL:    u,
			URLAlt: resolveURL(base, img.OriginalWebp.String()),
		})
	}

	item.Properties = toProperties(raw.Properties, nil)

	return item
}

// parsePrice reads prices such as "R$ 3.899" or "R$ 1.200,50".
// Dots are thousands separators and the comma is the decimal separator.
func parsePrice(priceText string) *float64 {
	cleaned := priceJunk.ReplaceAllString(priceText, "")
	if cleaned == "" {
		return nil
	}
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return &value
}

func discountPercent(price, oldPrice *float64) *int {
	if price == nil || oldPrice == nil || *oldPrice <= *price || *oldPrice == 0 {
		return nil
	}
	pct := int(math.Round((*oldPrice - *price) / *oldPrice * 100))
	return &pct
}

// toProperties keeps entries with a value; names listed in skip are dropped.
// The display label wins over the internal name.
func toProperties(raw []rawProperty, skip map[string]bool) []models.Property {
	var out []models.Property
	for _, p := range raw {
		name := p.Name.String()
		if skip[strings.ToLower(name)] {
			continue
		}
		value := p.Value.String()
		if value == "" {
			continue
		}
		if label := p.Label.String(); label != "" {
			name = label
		}
		out = append(out, models.Property{Name: name, Value: value})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
